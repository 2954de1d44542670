// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging provides context-based structured logging utilities using Go's standard slog package.
//
// The process logger is built once from configuration and stored in the root context:
//
//	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
//	if err != nil {
//		return err
//	}
//	ctx = logging.NewContext(ctx, logger)
//
// Components further down the stack retrieve it again:
//
//	logger := logging.FromContext(ctx)
//	logger.InfoContext(ctx, "turn completed", slog.Int("items", len(items)))
//
// When no logger is found in the context, FromContext returns a JSON logger writing to stderr
// at INFO level, so logging always works even when no explicit logger is configured.
package logging
