// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package session provides cached, lazily-refreshing federation sessions.
//
// A long-running process must never present expired credentials. Instead of
// refreshing on a timer, every access to a [Session] re-checks the wrapped
// bundle's expiry against a safety margin and transparently re-federates
// when it is too close; callers only ever observe valid-for-now
// credentials. Sessions are singletons per (role reference, region, session
// name prefix) key, created under a lock on first request and reused
// thereafter, so independent keys never contend on one another's refresh.
//
// A failed refresh leaves the previous state untouched: a session that
// never materialized stays unmaterialized rather than caching a poisoned
// entry, and a session holding still-valid credentials keeps serving them
// until their margin truly passes.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/uuid"

	"github.com/go-a2a/credbroker/types"
)

// DefaultRefreshMargin is how long before expiry a session refreshes.
const DefaultRefreshMargin = 5 * time.Minute

// Key identifies one cached session.
type Key struct {
	// RoleRef is the role the session assumes.
	RoleRef string

	// Region is the provider region the session federates in.
	Region string

	// SessionNamePrefix prefixes the unique session name of every
	// federation call the session makes.
	SessionNamePrefix string
}

// Factory maintains the singleton-per-key cache of refreshable sessions.
type Factory struct {
	fetcher types.CredentialFetcher
	ttl     time.Duration
	margin  time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[Key]*Session
}

// Option configures a [*Factory].
type Option func(*Factory)

// WithLogger sets the logger. Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithTTL sets the credential lifetime requested on each federation.
func WithTTL(ttl time.Duration) Option {
	return func(f *Factory) {
		f.ttl = ttl
	}
}

// WithRefreshMargin sets how long before expiry sessions refresh.
func WithRefreshMargin(margin time.Duration) Option {
	return func(f *Factory) {
		f.margin = margin
	}
}

// withClock overrides the session clock. Test use.
func withClock(now func() time.Time) Option {
	return func(f *Factory) {
		f.now = now
	}
}

// NewFactory returns a factory federating through fetcher.
func NewFactory(fetcher types.CredentialFetcher, opts ...Option) *Factory {
	f := &Factory{
		fetcher:  fetcher,
		margin:   DefaultRefreshMargin,
		logger:   slog.Default(),
		now:      time.Now,
		sessions: make(map[Key]*Session),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Session returns the cached session for key, creating it on first request.
// federationToken is the owning organization's anti-confusion token; it is
// captured on creation and presented on every refresh.
func (f *Factory) Session(key Key, federationToken string) *Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s, ok := f.sessions[key]; ok {
		return s
	}

	s := &Session{
		key:             key,
		federationToken: federationToken,
		fetcher:         f.fetcher,
		ttl:             f.ttl,
		margin:          f.margin,
		logger:          f.logger,
		now:             f.now,
	}
	f.sessions[key] = s
	f.logger.Info("refreshable session created",
		slog.String("role_ref", key.RoleRef),
		slog.String("region", key.Region),
	)
	return s
}

// Invalidate discards the cached session for key. Used after a downstream
// call reports an authentication failure, to rule out a missed refresh
// before escalating.
func (f *Factory) Invalidate(key Key) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, key)
}

// InvalidateAll discards every cached session.
func (f *Factory) InvalidateAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = make(map[Key]*Session)
}

// Len reports the number of cached sessions.
func (f *Factory) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

// Session wraps a deferred-refresh credential bundle for one key.
type Session struct {
	key             Key
	federationToken string
	fetcher         types.CredentialFetcher
	ttl             time.Duration
	margin          time.Duration
	logger          *slog.Logger
	now             func() time.Time

	mu      sync.Mutex
	current *types.CredentialBundle
}

// Credentials returns a bundle valid for at least the refresh margin,
// re-federating transparently when the cached one is too close to expiry.
// Concurrent callers serialize on the session, so an expiring bundle is
// refreshed exactly once.
func (s *Session) Credentials(ctx context.Context) (*types.CredentialBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && !s.current.ExpiresWithin(s.now(), s.margin) {
		return s.current, nil
	}

	bundle, err := s.fetcher.Federate(ctx, types.FederateRequest{
		RoleRef:         s.key.RoleRef,
		SessionName:     fmt.Sprintf("%s-%s", s.key.SessionNamePrefix, uuid.NewString()),
		FederationToken: s.federationToken,
		TTL:             s.ttl,
		Region:          s.key.Region,
	})
	if err != nil {
		// Within the margin the cached bundle is still valid; keep serving
		// it and retry the refresh on the next access. Once expiry truly
		// passes, or the session never materialized, the failure surfaces.
		if s.current != nil && s.now().Before(s.current.Expiry) {
			s.logger.WarnContext(ctx, "session refresh deferred, serving still-valid credentials",
				slog.String("role_ref", s.key.RoleRef),
				slog.Time("expiry", s.current.Expiry),
				slog.Any("error", err),
			)
			return s.current, nil
		}
		return nil, fmt.Errorf("refresh session for %s: %w", s.key.RoleRef, err)
	}

	s.current = bundle
	s.logger.InfoContext(ctx, "session credentials refreshed",
		slog.String("role_ref", s.key.RoleRef),
		slog.Time("expiry", bundle.Expiry),
	)
	return bundle, nil
}

// Invalidate forcibly discards the cached bundle; the next access
// re-federates.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Provider adapts the session to [aws.CredentialsProvider] so downstream
// SDK clients refresh through the same cache.
func (s *Session) Provider() aws.CredentialsProvider {
	return sessionProvider{s: s}
}

type sessionProvider struct {
	s *Session
}

// Retrieve implements [aws.CredentialsProvider].
func (p sessionProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	bundle, err := p.s.Credentials(ctx)
	if err != nil {
		return aws.Credentials{}, err
	}
	return bundle.AWSCredentials(), nil
}
