// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package adkchat is a chat client for agents built with the Agent Development Kit, rendering the
// events an agent returns as text and images in a terminal or a browser.
package adkchat

// Version is the version of adkchat.
var Version = "v0.1.0"
