// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-a2a/credbroker/federation"
	"github.com/go-a2a/credbroker/types"
)

// Extractor resolves an account identifier into a credential bundle.
//
// Extraction is a pure request/response operation. It performs no binding
// and mutates no ambient state, which keeps it safe to call concurrently
// for different tenants.
type Extractor struct {
	repo    types.AccountRepository
	cipher  types.SecretCipher
	fetcher types.CredentialFetcher

	defaultRegion string
	sessionPrefix string
	ttl           time.Duration

	logger *slog.Logger
}

// ExtractorOption configures an [Extractor].
type ExtractorOption func(*Extractor)

// WithLogger sets the logger used for audit records.
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithDefaultRegion sets the region applied when the account record does
// not carry one.
func WithDefaultRegion(region string) ExtractorOption {
	return func(e *Extractor) {
		e.defaultRegion = region
	}
}

// WithSessionNamePrefix sets the prefix for federated session names.
func WithSessionNamePrefix(prefix string) ExtractorOption {
	return func(e *Extractor) {
		e.sessionPrefix = prefix
	}
}

// WithTTL sets the requested lifetime for federated credentials.
func WithTTL(ttl time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.ttl = ttl
	}
}

// NewExtractor creates an [Extractor] backed by the given repository,
// cipher and fetcher.
func NewExtractor(repo types.AccountRepository, cipher types.SecretCipher, fetcher types.CredentialFetcher, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		repo:    repo,
		cipher:  cipher,
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract looks up the account, produces its credential bundle according
// to the stored authentication mode, and returns the bundle together with
// an audit record. The record carries only non-secret fields.
func (e *Extractor) Extract(ctx context.Context, accountID string) (*types.CredentialBundle, *types.ExtractionRecord, error) {
	rec, err := e.repo.Lookup(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup account: %w", err)
	}

	if !rec.AuthMode.Valid() {
		return nil, nil, fmt.Errorf("account %s: unknown auth mode %q", accountID, rec.AuthMode)
	}

	var bundle *types.CredentialBundle
	switch rec.AuthMode {
	case types.AuthModeStatic:
		bundle, err = e.extractStatic(rec)
	case types.AuthModeFederated:
		bundle, err = e.extractFederated(ctx, rec)
	}
	if err != nil {
		return nil, nil, err
	}

	bundle.Alias = rec.Alias
	bundle.Mode = rec.AuthMode
	if bundle.Region == "" {
		bundle.Region = e.region(rec)
	}

	audit := &types.ExtractionRecord{
		AccountID: rec.AccountID,
		Alias:     rec.Alias,
		AuthMode:  rec.AuthMode,
		Region:    bundle.Region,
	}
	e.logger.InfoContext(ctx, "extracted credentials", slog.Any("record", audit))

	return bundle, audit, nil
}

// extractStatic decrypts the stored long-lived secret. Missing key
// material is reported as a decryption failure without attempting to
// decrypt.
func (e *Extractor) extractStatic(rec *types.AccountRecord) (*types.CredentialBundle, error) {
	if rec.AccessKeyID == "" || rec.EncryptedSecret == "" {
		return nil, &types.DecryptionError{Reason: "account is missing static key material"}
	}

	secret, err := e.cipher.Decrypt(rec.EncryptedSecret)
	if err != nil {
		var derr *types.DecryptionError
		if !errors.As(err, &derr) {
			err = &types.DecryptionError{Reason: "cipher failure", Err: err}
		}
		return nil, fmt.Errorf("decrypt secret for account %s: %w", rec.AccountID, err)
	}

	return &types.CredentialBundle{
		AccessKeyID:     rec.AccessKeyID,
		SecretAccessKey: secret,
	}, nil
}

// extractFederated requests short-lived credentials from the identity
// service. Missing federation material is rejected before any network
// traffic.
func (e *Extractor) extractFederated(ctx context.Context, rec *types.AccountRecord) (*types.CredentialBundle, error) {
	if rec.RoleRef == "" || rec.FederationToken == "" {
		return nil, &types.FederationError{
			Kind:   types.FederationConfig,
			Reason: "account is missing role or federation token",
		}
	}

	bundle, err := e.fetcher.Federate(ctx, types.FederateRequest{
		RoleRef:         rec.RoleRef,
		SessionName:     federation.SessionName(e.sessionPrefix),
		FederationToken: rec.FederationToken,
		TTL:             e.ttl,
		Region:          e.region(rec),
	})
	if err != nil {
		return nil, fmt.Errorf("federate account %s: %w", rec.AccountID, err)
	}
	return bundle, nil
}

func (e *Extractor) region(rec *types.AccountRecord) string {
	if rec.Region != "" {
		return rec.Region
	}
	return e.defaultRegion
}
