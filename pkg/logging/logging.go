// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging provides context-based structured logging using the
// standard [log/slog] package.
//
// Loggers propagate through [context.Context] so that every layer of the
// credential pipeline logs with the request's attributes (tenant, phase)
// without threading a logger argument through each call:
//
//	ctx = logging.NewContext(ctx, logger.With("account_id", id))
//	...
//	logging.FromContext(ctx).Info("credentials extracted")
//
// Handlers never receive secret material: the broker's types implement
// [log/slog.LogValuer] with redacted representations, and audit events log
// the extraction record only.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// contextKey is how we find [*slog.Logger] in a [context.Context].
type contextKey struct{}

// NewContext returns a new [context.Context], derived from ctx, which carries the provided [*slog.Logger].
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the [*slog.Logger] carried by ctx.
//
// If ctx carries no logger, a JSON logger writing to stdout at [slog.LevelInfo]
// is returned so that logging always works.
func FromContext(ctx context.Context) *slog.Logger {
	if v := ctx.Value(contextKey{}); v != nil {
		return v.(*slog.Logger)
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
