// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the adkchat configuration from a YAML file, a .env file and the
// environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/go-a2a/adkchat/pkg/logging"
)

// Backend selects where agent turns are sent.
type Backend string

// List of [Backend].
const (
	// BackendAPIServer sends turns to an ADK API server.
	BackendAPIServer Backend = "apiserver"

	// BackendAgentEngine sends turns to an agent deployed to Vertex AI Agent Engine.
	BackendAgentEngine Backend = "agentengine"

	// BackendDemo answers turns with the built-in offline agent.
	BackendDemo Backend = "demo"
)

// APIServer configures the ADK API server backend.
type APIServer struct {
	URL     string `yaml:"url"`
	AppName string `yaml:"app_name"`

	// Audience enables ID token authentication when set, as needed for Cloud Run.
	Audience string `yaml:"audience"`
}

// AgentEngine configures the Agent Engine backend.
type AgentEngine struct {
	ProjectID string `yaml:"project_id"`
	Location  string `yaml:"location"`

	// Resource is the reasoning engine ID or its full resource name.
	Resource string `yaml:"resource"`
}

// Artifacts configures the image fallback.
type Artifacts struct {
	// Bucket is the GCS bucket holding Agent Engine artifacts.
	Bucket string `yaml:"bucket"`

	// AppName is the application name artifacts are stored under in Bucket.
	// It defaults to the reasoning engine ID.
	AppName string `yaml:"app_name"`

	// Fallback are the artifact filenames shown when a turn has no explicit image.
	Fallback []string `yaml:"fallback"`
}

// Web configures the web UI.
type Web struct {
	// Title is the page title.
	Title string `yaml:"title"`

	// AllowedOrigins are the origins allowed to call the JSON API from other sites.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the adkchat configuration.
type Config struct {
	Backend     Backend     `yaml:"backend"`
	APIServer   APIServer   `yaml:"api_server"`
	AgentEngine AgentEngine `yaml:"agent_engine"`
	Artifacts   Artifacts   `yaml:"artifacts"`

	// ImageDir is where the terminal UI writes images.
	ImageDir string `yaml:"image_dir"`

	// Listen is the address the web UI listens on.
	Listen string `yaml:"listen"`

	Web Web `yaml:"web"`
	Log Log `yaml:"log"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Backend: BackendAPIServer,
		APIServer: APIServer{
			URL:     "http://localhost:8000",
			AppName: "data_agent_viz",
		},
		AgentEngine: AgentEngine{
			Location: "us-central1",
		},
		Artifacts: Artifacts{
			Fallback: []string{"graph.svg"},
		},
		ImageDir: "images",
		Listen:   "localhost:8501",
		Web: Web{
			Title: "Data Agent",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration.
//
// Variables from a .env file in the working directory are added to the environment
// first, without overriding variables already set. The YAML file at path, if path is
// not empty, is then applied over the defaults, and the environment over both.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(lookup)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	var backend string
	str("ADKCHAT_BACKEND", &backend)
	if backend != "" {
		c.Backend = Backend(strings.ToLower(backend))
	}

	str("ADK_API_URL", &c.APIServer.URL)
	str("ADK_APP_NAME", &c.APIServer.AppName)
	str("ADK_API_AUDIENCE", &c.APIServer.Audience)
	str("PROJECT_ID", &c.AgentEngine.ProjectID)
	str("LOCATION", &c.AgentEngine.Location)
	str("AGENT_ENGINE_RESOURCE", &c.AgentEngine.Resource)
	str("ARTIFACT_BUCKET", &c.Artifacts.Bucket)
	str("ARTIFACT_APP_NAME", &c.Artifacts.AppName)
	str("ADKCHAT_IMAGE_DIR", &c.ImageDir)
	str("ADKCHAT_LISTEN", &c.Listen)
	str("ADKCHAT_TITLE", &c.Web.Title)
	str("ADKCHAT_LOG_LEVEL", &c.Log.Level)
	str("ADKCHAT_LOG_FORMAT", &c.Log.Format)

	var fallback string
	str("ADKCHAT_FALLBACK_ARTIFACTS", &fallback)
	if fallback != "" {
		c.Artifacts.Fallback = splitList(fallback)
	}

	var origins string
	str("ADKCHAT_ALLOWED_ORIGINS", &origins)
	if origins != "" {
		c.Web.AllowedOrigins = splitList(origins)
	}
}

func splitList(s string) []string {
	var out []string
	for name := range strings.SplitSeq(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Validate reports the first setting that prevents the configured backend from running.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAPIServer:
		if c.APIServer.URL == "" {
			return errors.New("config: api_server.url is required for the apiserver backend")
		}
		if c.APIServer.AppName == "" {
			return errors.New("config: api_server.app_name is required for the apiserver backend")
		}
	case BackendAgentEngine:
		if c.AgentEngine.Resource == "" {
			return errors.New("config: agent_engine.resource is required for the agentengine backend")
		}
		if !strings.HasPrefix(c.AgentEngine.Resource, "projects/") && (c.AgentEngine.ProjectID == "" || c.AgentEngine.Location == "") {
			return errors.New("config: agent_engine.project_id and agent_engine.location are required with a bare engine ID")
		}
	case BackendDemo:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}

	for _, origin := range c.Web.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("config: invalid allowed origin %q", origin)
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("config: invalid log format %q", c.Log.Format)
	}
	return nil
}
