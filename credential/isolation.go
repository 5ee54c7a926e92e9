// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-a2a/credbroker/pkg/logging"
	"github.com/go-a2a/credbroker/types"
)

// VerifyIsolation inspects the process environment for secret-bearing
// credential variables at a trust boundary and reports whether the
// environment is clean. phase labels the boundary in the emitted log and
// error, for example "before-extract" or "after-release".
//
// The check detects contamination left behind by a missing release or by
// code writing credentials outside the binder. It only ever records the
// names of leaked variables, never their values.
func VerifyIsolation(ctx context.Context, logger *slog.Logger, phase string) (bool, error) {
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	var leaked []string
	for _, name := range secretEnvNames {
		if _, ok := os.LookupEnv(name); ok {
			leaked = append(leaked, name)
		}
	}
	if len(leaked) == 0 {
		return true, nil
	}

	logger.WarnContext(ctx, "ambient credential state detected",
		slog.String("phase", phase),
		slog.Any("leaked", leaked),
	)
	return false, &types.IsolationError{Phase: phase, Leaked: leaked}
}

// SensitiveEnvStatus reports presence, never values, of every variable the
// binder manages. Intended for diagnostics and status endpoints.
func SensitiveEnvStatus() map[string]bool {
	status := make(map[string]bool, len(boundEnvNames))
	for _, name := range boundEnvNames {
		_, ok := os.LookupEnv(name)
		status[name] = ok
	}
	return status
}
