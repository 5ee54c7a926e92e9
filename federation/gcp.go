// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package federation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/impersonate"
	"google.golang.org/api/option"

	"github.com/go-a2a/credbroker/types"
)

// cloudPlatformScope covers every Google Cloud API; the impersonated
// service account's own IAM policy narrows the effective access.
const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// tokenSourceFunc builds the impersonated token source. Replaced in tests.
type tokenSourceFunc func(ctx context.Context, config impersonate.CredentialsConfig, opts ...option.ClientOption) (oauth2.TokenSource, error)

// GCP is the Google Cloud implementation of [types.CredentialFetcher].
//
// A federated GCP account's role reference is the email of the tenant's
// service account; Federate impersonates it and normalizes the short-lived
// access token into a [types.CredentialBundle]: the key id carries the
// impersonated principal, the session token carries the bearer token, and
// the secret field stays empty.
//
// Impersonation has no provider-side analogue of the external id, so the
// federation token gates the call on the broker side only: requests without
// one are still rejected before the network, keeping the cross-tenant
// policy uniform across providers.
type GCP struct {
	clientOpts  []option.ClientOption
	tokenSource tokenSourceFunc
	logger      *slog.Logger
}

var _ types.CredentialFetcher = (*GCP)(nil)

// GCPOption configures a [*GCP].
type GCPOption func(*GCP)

// WithGCPLogger sets the logger. Defaults to [slog.Default].
func WithGCPLogger(logger *slog.Logger) GCPOption {
	return func(f *GCP) {
		f.logger = logger
	}
}

// WithClientOptions forwards client options (credentials file, endpoint) to
// the impersonation client. The credentials are the broker's own identity.
func WithClientOptions(opts ...option.ClientOption) GCPOption {
	return func(f *GCP) {
		f.clientOpts = append(f.clientOpts, opts...)
	}
}

// withTokenSource overrides the impersonation entry point. Test use.
func withTokenSource(fn tokenSourceFunc) GCPOption {
	return func(f *GCP) {
		f.tokenSource = fn
	}
}

// NewGCP returns a fetcher impersonating tenant service accounts.
func NewGCP(opts ...GCPOption) *GCP {
	f := &GCP{
		tokenSource: impersonate.CredentialsTokenSource,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Federate implements [types.CredentialFetcher].
func (f *GCP) Federate(ctx context.Context, req types.FederateRequest) (*types.CredentialBundle, error) {
	if err := validateRequest(&req, ""); err != nil {
		return nil, err
	}

	ts, err := f.tokenSource(ctx, impersonate.CredentialsConfig{
		TargetPrincipal: req.RoleRef,
		Scopes:          []string{cloudPlatformScope},
		Lifetime:        req.TTL,
	}, f.clientOpts...)
	if err != nil {
		return nil, classifyGCP(ctx, err)
	}

	tok, err := ts.Token()
	if err != nil {
		return nil, classifyGCP(ctx, err)
	}

	f.logger.InfoContext(ctx, "service account impersonated",
		slog.String("session_name", req.SessionName),
		slog.Time("expiry", tok.Expiry),
	)

	return &types.CredentialBundle{
		AccessKeyID:  req.RoleRef,
		SessionToken: tok.AccessToken,
		Expiry:       tok.Expiry,
		Region:       req.Region,
	}, nil
}

// classifyGCP maps a Google API error onto the broker taxonomy.
func classifyGCP(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &types.FederationError{Kind: types.FederationTimeout, Reason: "impersonation call timed out", Err: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		kind := types.FederationTransient
		switch {
		case apiErr.Code == http.StatusForbidden || apiErr.Code == http.StatusUnauthorized:
			kind = types.FederationDenied
		case apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests:
			kind = types.FederationInvalid
		}
		return &types.FederationError{
			Kind:   kind,
			Code:   http.StatusText(apiErr.Code),
			Reason: apiErr.Message,
			Err:    err,
		}
	}

	return &types.FederationError{Kind: types.FederationTransient, Reason: "impersonation call failed", Err: err}
}
