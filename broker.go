// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package credbroker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-a2a/credbroker/account"
	"github.com/go-a2a/credbroker/cipher"
	"github.com/go-a2a/credbroker/credential"
	"github.com/go-a2a/credbroker/federation"
	"github.com/go-a2a/credbroker/session"
	"github.com/go-a2a/credbroker/types"
)

// Config carries the required broker settings. Optional behavior is
// configured through [Option] values.
type Config struct {
	// EncryptionKey is the 32-byte key protecting stored account secrets.
	EncryptionKey []byte

	// DatabaseURL is the account database connection string. Ignored when
	// [WithRepository] supplies a repository.
	DatabaseURL string

	// Region is the default cloud region applied when an account record
	// does not carry one.
	Region string

	// SessionTTL is the requested lifetime for federated credentials.
	// Zero means the federation default.
	SessionTTL time.Duration
}

// Broker is the facade over account lookup, secret decryption, identity
// federation and session caching.
type Broker struct {
	repo    types.AccountRepository
	fetcher types.CredentialFetcher

	extractor *credential.Extractor
	sessions  *session.Factory

	region        string
	sessionPrefix string
	logger        *slog.Logger
}

// Option configures a [Broker].
type Option func(*Broker)

// WithLogger sets the broker logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broker) {
		b.logger = logger
	}
}

// WithRepository replaces the Postgres-backed account repository, for
// example with [account.InMemory] in tests.
func WithRepository(repo types.AccountRepository) Option {
	return func(b *Broker) {
		b.repo = repo
	}
}

// WithFetcher replaces the default STS credential fetcher.
func WithFetcher(fetcher types.CredentialFetcher) Option {
	return func(b *Broker) {
		b.fetcher = fetcher
	}
}

// WithSessionNamePrefix sets the prefix for federated session names.
func WithSessionNamePrefix(prefix string) Option {
	return func(b *Broker) {
		b.sessionPrefix = prefix
	}
}

// New creates a [Broker]. ctx is used only to resolve the default cloud
// configuration when no fetcher is supplied.
func New(ctx context.Context, cfg Config, opts ...Option) (*Broker, error) {
	if len(cfg.EncryptionKey) == 0 {
		return nil, errors.New("credbroker: encryption key is required")
	}

	b := &Broker{
		region:        cfg.Region,
		sessionPrefix: federation.DefaultSessionNamePrefix,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	c, err := cipher.New(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("credbroker: %w", err)
	}

	if b.repo == nil {
		if cfg.DatabaseURL == "" {
			return nil, errors.New("credbroker: database URL or repository is required")
		}
		b.repo = account.NewPostgres(cfg.DatabaseURL, account.WithLogger(b.logger))
	}
	if b.fetcher == nil {
		fetcher, err := federation.NewSTSFromDefaults(ctx, cfg.Region, federation.WithLogger(b.logger))
		if err != nil {
			return nil, fmt.Errorf("credbroker: %w", err)
		}
		b.fetcher = fetcher
	}

	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = federation.DefaultTTL
	}

	b.extractor = credential.NewExtractor(b.repo, c, b.fetcher,
		credential.WithLogger(b.logger),
		credential.WithDefaultRegion(cfg.Region),
		credential.WithSessionNamePrefix(b.sessionPrefix),
		credential.WithTTL(ttl),
	)
	b.sessions = session.NewFactory(b.fetcher,
		session.WithLogger(b.logger),
		session.WithTTL(ttl),
	)
	return b, nil
}

// Extract resolves the account and returns a one-shot credential bundle
// together with its audit record. Federated accounts get freshly
// federated credentials on every call; use [Broker.ExtractSession] when
// the caller holds credentials across many operations.
func (b *Broker) Extract(ctx context.Context, accountID string) (*types.CredentialBundle, *types.ExtractionRecord, error) {
	return b.extractor.Extract(ctx, accountID)
}

// ExtractSession returns the refreshable session for a federated account.
// The session federates lazily and re-federates on access once its
// credentials approach expiry, so long-running callers never hold stale
// credentials.
func (b *Broker) ExtractSession(ctx context.Context, accountID string) (*session.Session, error) {
	rec, err := b.repo.Lookup(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if rec.AuthMode != types.AuthModeFederated {
		return nil, fmt.Errorf("account %s: sessions require federated auth, have %q", accountID, rec.AuthMode)
	}
	if rec.RoleRef == "" || rec.FederationToken == "" {
		return nil, &types.FederationError{
			Kind:   types.FederationConfig,
			Reason: "account is missing role or federation token",
		}
	}

	key := session.Key{
		RoleRef:           rec.RoleRef,
		Region:            b.accountRegion(rec),
		SessionNamePrefix: b.sessionPrefix,
	}
	return b.sessions.Session(key, rec.FederationToken), nil
}

// ExtractBatch resolves several accounts in one call. Accounts that fail
// are skipped and reported in the second return value keyed by account
// identifier; successfully extracted bundles are always returned.
func (b *Broker) ExtractBatch(ctx context.Context, accountIDs []string) (map[string]*types.CredentialBundle, map[string]error) {
	bundles := make(map[string]*types.CredentialBundle, len(accountIDs))
	failures := make(map[string]error)
	for _, id := range accountIDs {
		bundle, _, err := b.extractor.Extract(ctx, id)
		if err != nil {
			b.logger.WarnContext(ctx, "batch extraction skipped account",
				slog.String("account_id", id),
				slog.Any("error", err),
			)
			failures[id] = err
			continue
		}
		bundles[id] = bundle
	}
	return bundles, failures
}

// AccountInfo returns the non-secret description of an account without
// producing credentials.
func (b *Broker) AccountInfo(ctx context.Context, accountID string) (*types.ExtractionRecord, error) {
	rec, err := b.repo.Lookup(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return &types.ExtractionRecord{
		AccountID: rec.AccountID,
		Alias:     rec.Alias,
		AuthMode:  rec.AuthMode,
		Region:    b.accountRegion(rec),
	}, nil
}

// InvalidateSessions drops every cached session. The next access
// re-federates.
func (b *Broker) InvalidateSessions() {
	b.sessions.InvalidateAll()
}

// Close releases the broker's resources.
func (b *Broker) Close() {
	b.sessions.InvalidateAll()
	b.repo.Close()
}

func (b *Broker) accountRegion(rec *types.AccountRecord) string {
	if rec.Region != "" {
		return rec.Region
	}
	return b.region
}
