// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package demo provides an offline stand-in for the data agent.
//
// It answers from a fixed catalog of tables and draws bar charts as SVG, delivering
// them the way the deployed agent does: as an artifact named by the artifact delta of
// an event, or inline in a function response when asked for an inline chart.
package demo
