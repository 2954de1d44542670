// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/go-a2a/adkchat/normalize"
	"github.com/go-a2a/adkchat/pkg/logging"
	"github.com/go-a2a/adkchat/types"
)

const (
	dataAgentName = "data_agent"
	vizAgentName  = "viz_agent"
	chartTool     = "generate_chart"
	chartArtifact = "graph.svg"
)

// Table is a table of the demo catalog.
type Table struct {
	Name string
	Rows int
}

// Catalog is the catalog the demo agent answers from.
var Catalog = []Table{
	{Name: "orders", Rows: 1840},
	{Name: "customers", Rows: 620},
	{Name: "products", Rows: 145},
	{Name: "returns", Rows: 97},
}

// Agent is an offline agent answering questions about [Catalog].
type Agent struct {
	appName   string
	artifacts types.ArtifactService
}

// New returns a demo [Agent] saving its charts to artifacts under appName.
func New(appName string, artifacts types.ArtifactService) *Agent {
	return &Agent{
		appName:   appName,
		artifacts: artifacts,
	}
}

// CreateSession implements the agent session contract. Sessions need no setup.
func (a *Agent) CreateSession(ctx context.Context, userID, sessionID string) (string, error) {
	return sessionID, nil
}

// Run answers message and returns the events of the turn.
func (a *Agent) Run(ctx context.Context, userID, sessionID, message string) ([]normalize.Event, error) {
	events, err := a.Events(ctx, userID, sessionID, message)
	if err != nil {
		return nil, err
	}
	return normalize.EventsFromGenAI(events), nil
}

// Events answers message with SDK events.
func (a *Agent) Events(ctx context.Context, userID, sessionID, message string) ([]*types.Event, error) {
	invocationID := "e-" + types.NewEventID()
	msg := strings.ToLower(message)

	events := []*types.Event{
		types.NewEvent().
			WithInvocationID(invocationID).
			WithAuthor(dataAgentName).
			WithContent(genai.NewContentFromText(catalogSummary(), genai.RoleModel)),
	}

	if !wantsChart(msg) {
		return events, nil
	}

	svg := BarChart("Rows per table", Catalog)
	if strings.Contains(msg, "inline") {
		resp := &genai.FunctionResponse{
			Name: chartTool,
			Response: map[string]any{
				"status": "success",
				"result": genai.NewPartFromBytes(svg, normalize.MIMETypeSVG),
			},
		}
		events = append(events, types.NewEvent().
			WithInvocationID(invocationID).
			WithAuthor(vizAgentName).
			WithActions(types.NewEventActions().WithFunctionResponses(resp)))
		return events, nil
	}

	version, err := a.artifacts.SaveArtifact(ctx, a.appName, userID, sessionID, chartArtifact, genai.NewPartFromBytes(svg, normalize.MIMETypeSVG))
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", chartArtifact, err)
	}
	logging.FromContext(ctx).DebugContext(ctx, "Chart saved",
		slog.String("artifact", chartArtifact),
		slog.Int("version", version),
	)

	events = append(events, types.NewEvent().
		WithInvocationID(invocationID).
		WithAuthor(vizAgentName).
		WithContent(genai.NewContentFromText("The chart was saved as `"+chartArtifact+"`.", genai.RoleModel)).
		WithActions(types.NewEventActions().WithArtifactDelta(map[string]int{chartArtifact: version})))

	return events, nil
}

func wantsChart(msg string) bool {
	for _, w := range []string{"chart", "graph", "plot", "visual"} {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}

func catalogSummary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The `demo` dataset has %d tables:\n\n", len(Catalog))
	sb.WriteString("| table | rows |\n|---|---:|\n")
	for _, t := range Catalog {
		fmt.Fprintf(&sb, "| %s | %d |\n", t.Name, t.Rows)
	}
	return sb.String()
}
