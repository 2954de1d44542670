// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command adkchat chats with an ADK data agent from the terminal or the browser.
//
// Usage:
//
//	adkchat [-config file] chat
//	adkchat [-config file] [-listen addr] serve
//	adkchat [-config file] ask <message>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/go-a2a/adkchat"
	"github.com/go-a2a/adkchat/adkapi"
	"github.com/go-a2a/adkchat/agentengine"
	"github.com/go-a2a/adkchat/artifact"
	"github.com/go-a2a/adkchat/chat"
	"github.com/go-a2a/adkchat/config"
	"github.com/go-a2a/adkchat/internal/demo"
	"github.com/go-a2a/adkchat/pkg/logging"
	"github.com/go-a2a/adkchat/session"
	"github.com/go-a2a/adkchat/ui/terminal"
	"github.com/go-a2a/adkchat/ui/web"
)

// idleChat is how long the web UI keeps a chat nobody writes to.
const idleChat = 24 * time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "adkchat:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adkchat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML configuration file")
	listen := fs.String("listen", "", "address the web UI listens on (overrides the configuration)")
	version := fs.Bool("version", false, "print the version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: adkchat [flags] chat | serve | ask <message>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *version {
		fmt.Fprintln(stdout, adkchat.Version)
		return nil
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	if err != nil {
		return err
	}
	ctx = logging.NewContext(ctx, logger)

	b, err := newBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	opts := []chat.Option{
		chat.WithFallbackArtifacts(cfg.Artifacts.Fallback...),
		chat.WithLogger(logger),
	}
	if b.artifacts != nil {
		opts = append(opts, chat.WithArtifactLoader(b.artifacts))
	}
	handler := chat.NewHandler(b.agent, opts...)

	switch cmd := fs.Arg(0); cmd {
	case "chat":
		ui, err := terminal.New(handler, stdin, stdout,
			terminal.WithImageDir(cfg.ImageDir),
			terminal.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		if err := ui.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil

	case "serve":
		return newWebServer(handler, cfg, logger).ListenAndServe(ctx, cfg.Listen, idleChat)

	case "ask":
		message := strings.TrimSpace(strings.Join(fs.Args()[1:], " "))
		if message == "" {
			return errors.New("ask: message is required")
		}
		ui, err := terminal.New(handler, nil, stdout,
			terminal.WithImageDir(cfg.ImageDir),
			terminal.WithStyle("notty"),
			terminal.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		return ui.Print(handler.Turn(ctx, ui.Chat(), message))

	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newWebServer(turner web.Turner, cfg *config.Config, logger *slog.Logger) *web.Server {
	opts := []web.Option{web.WithLogger(logger)}
	if cfg.Web.Title != "" {
		opts = append(opts, web.WithTitle(cfg.Web.Title))
	}
	if len(cfg.Web.AllowedOrigins) > 0 {
		opts = append(opts, web.WithAllowedOrigins(cfg.Web.AllowedOrigins...))
	}
	return web.New(turner, session.NewStore(logger), opts...)
}

// backend is the agent turns are sent to and where its artifacts are read from.
type backend struct {
	agent     chat.Agent
	artifacts chat.ArtifactLoader
	closers   []io.Closer
}

func (b *backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func newBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.Backend {
	case config.BackendAPIServer:
		opts := []adkapi.Option{adkapi.WithLogger(logger)}
		var (
			c   *adkapi.Client
			err error
		)
		if cfg.APIServer.Audience != "" {
			c, err = adkapi.NewIDTokenClient(ctx, cfg.APIServer.URL, cfg.APIServer.AppName, cfg.APIServer.Audience, opts...)
		} else {
			c, err = adkapi.NewClient(cfg.APIServer.URL, cfg.APIServer.AppName, opts...)
		}
		if err != nil {
			return nil, err
		}
		return &backend{agent: c, artifacts: c}, nil

	case config.BackendAgentEngine:
		c, err := agentengine.NewClient(ctx, cfg.AgentEngine.ProjectID, cfg.AgentEngine.Location, cfg.AgentEngine.Resource)
		if err != nil {
			return nil, err
		}
		b := &backend{agent: c, closers: []io.Closer{c}}
		if cfg.Artifacts.Bucket == "" {
			return b, nil
		}

		store, err := artifact.NewGCSService(ctx, cfg.Artifacts.Bucket, logger)
		if err != nil {
			b.Close()
			return nil, err
		}
		appName := cfg.Artifacts.AppName
		if appName == "" {
			appName = path.Base(c.Resource())
		}
		b.artifacts = artifact.NewServiceLoader(store, appName)
		b.closers = append(b.closers, store)
		return b, nil

	case config.BackendDemo:
		store := artifact.NewInMemoryService()
		return &backend{
			agent:     demo.New(cfg.APIServer.AppName, store),
			artifacts: artifact.NewServiceLoader(store, cfg.APIServer.AppName),
			closers:   []io.Closer{store},
		}, nil
	}

	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
