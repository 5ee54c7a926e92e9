// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"

	"github.com/go-a2a/credbroker/types"
)

type contextKey struct{}

// NewContext returns a context carrying the credential bundle.
//
// Context binding is the preferred hand-off: the bundle travels with the
// request, each unit of work sees exactly the credentials bound to it, and
// nothing is written to process-wide state.
func NewContext(ctx context.Context, bundle *types.CredentialBundle) context.Context {
	return context.WithValue(ctx, contextKey{}, bundle)
}

// FromContext returns the credential bundle carried by ctx, if any.
func FromContext(ctx context.Context) (*types.CredentialBundle, bool) {
	bundle, ok := ctx.Value(contextKey{}).(*types.CredentialBundle)
	return bundle, ok
}
