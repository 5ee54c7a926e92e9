// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/go-a2a/credbroker/types"
)

// lookupQuery joins the organization row so the federation token arrives in
// the same round trip as the account.
const lookupQuery = `
SELECT
    a.id, a.account_id, a.alias, a.auth_mode,
    a.access_key_id, a.encrypted_secret,
    a.role_ref, a.region, a.org_id,
    o.federation_token
FROM accounts a
LEFT JOIN organizations o ON a.org_id = o.id
WHERE a.account_id = $1
`

// Postgres is the database-backed [types.AccountRepository].
type Postgres struct {
	dsn    string
	logger *slog.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool
}

var _ types.AccountRepository = (*Postgres)(nil)

// PostgresOption configures a [*Postgres].
type PostgresOption func(*Postgres)

// WithLogger sets the logger. Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) PostgresOption {
	return func(r *Postgres) {
		r.logger = logger
	}
}

// NewPostgres returns a repository reading from the database at dsn.
//
// The connection pool is not dialed here; it materializes on first Lookup so
// process start does not depend on database availability.
func NewPostgres(dsn string, opts ...PostgresOption) *Postgres {
	r := &Postgres{
		dsn:    dsn,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup implements [types.AccountRepository].
func (r *Postgres) Lookup(ctx context.Context, accountID string) (*types.AccountRecord, error) {
	pool, err := r.getPool(ctx)
	if err != nil {
		return nil, err
	}

	var (
		rec             types.AccountRecord
		authMode        string
		accessKeyID     *string
		encryptedSecret *string
		roleRef         *string
		orgID           *string
		federationToken *string
	)
	row := pool.QueryRow(ctx, lookupQuery, accountID)
	if err := row.Scan(
		&rec.ID, &rec.AccountID, &rec.Alias, &authMode,
		&accessKeyID, &encryptedSecret,
		&roleRef, &rec.Region, &orgID,
		&federationToken,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "account not found", slog.String("account_id", accountID))
			return nil, &types.AccountNotFoundError{AccountID: accountID}
		}
		return nil, &types.DatabaseUnavailableError{Err: err}
	}

	rec.AuthMode = authModeFromColumn(authMode)
	rec.AccessKeyID = deref(accessKeyID)
	rec.EncryptedSecret = deref(encryptedSecret)
	rec.RoleRef = deref(roleRef)
	rec.OrgID = deref(orgID)
	rec.FederationToken = deref(federationToken)

	return &rec, nil
}

// authModeFromColumn maps the stored auth_mode column value onto the broker
// vocabulary. Databases migrated from earlier deployments still carry the
// legacy values "aksk" and "iam_role".
func authModeFromColumn(v string) types.AuthMode {
	switch v {
	case "aksk":
		return types.AuthModeStatic
	case "iam_role":
		return types.AuthModeFederated
	default:
		return types.AuthMode(v)
	}
}

// Close implements [types.AccountRepository]. Safe to call without a prior
// Lookup and safe to call twice.
func (r *Postgres) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool != nil {
		r.pool.Close()
		r.pool = nil
		r.logger.Info("account database pool closed")
	}
}

// getPool returns the shared connection pool, constructing it exactly once.
func (r *Postgres) getPool(ctx context.Context) (*pgxpool.Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool != nil {
		return r.pool, nil
	}

	pool, err := pgxpool.New(ctx, r.dsn)
	if err != nil {
		return nil, &types.DatabaseUnavailableError{Err: err}
	}
	r.pool = pool
	r.logger.InfoContext(ctx, "account database pool initialized")
	return r.pool, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
