// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/bytedance/sonic"
)

// CredentialBundle is the normalized output of credential extraction,
// regardless of the stored authentication mode.
//
// Bundles are ephemeral: constructed per extraction call, handed to the
// downstream client, and discarded. They are never persisted.
type CredentialBundle struct {
	// AccessKeyID is the key identifier.
	AccessKeyID string

	// SecretAccessKey is the secret half of the key pair.
	SecretAccessKey string

	// SessionToken is the session proof for temporary credentials. Empty
	// for static-mode bundles.
	SessionToken string

	// Expiry is the instant the credentials stop being valid. Zero for
	// static-mode bundles, which do not expire.
	Expiry time.Time

	// Region is the provider region the bundle is scoped to.
	Region string

	// Alias and Mode identify the source account for audit logging only.
	Alias string
	Mode  AuthMode
}

// CanExpire reports whether the bundle carries an expiry instant.
func (b *CredentialBundle) CanExpire() bool {
	return !b.Expiry.IsZero()
}

// ExpiresWithin reports whether the bundle expires within margin of now.
// Bundles without an expiry never expire.
func (b *CredentialBundle) ExpiresWithin(now time.Time, margin time.Duration) bool {
	if !b.CanExpire() {
		return false
	}
	return !now.Add(margin).Before(b.Expiry)
}

// AWSCredentials adapts the bundle to the AWS SDK credential value so that
// downstream clients can consume it without an ambient hand-off.
func (b *CredentialBundle) AWSCredentials() aws.Credentials {
	return aws.Credentials{
		AccessKeyID:     b.AccessKeyID,
		SecretAccessKey: b.SecretAccessKey,
		SessionToken:    b.SessionToken,
		CanExpire:       b.CanExpire(),
		Expires:         b.Expiry,
		Source:          "credbroker",
	}
}

// StaticProvider adapts the bundle to a fixed [aws.CredentialsProvider].
// Suitable for static-mode bundles and one-shot use of federated bundles;
// long-running callers should hold a refreshable session instead.
func (b *CredentialBundle) StaticProvider() aws.CredentialsProvider {
	return credentials.NewStaticCredentialsProvider(b.AccessKeyID, b.SecretAccessKey, b.SessionToken)
}

// LogValue implements [slog.LogValuer] with a fully redacted representation.
// A bundle passed to a logger by mistake never exposes the key id or secret.
func (b *CredentialBundle) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("alias", b.Alias),
		slog.String("mode", string(b.Mode)),
		slog.String("region", b.Region),
		slog.Bool("has_session_token", b.SessionToken != ""),
		slog.Time("expiry", b.Expiry),
	)
}

// ExtractionRecord is the audit metadata emitted for one successful
// extraction. It deliberately has no field for the key id or secret.
type ExtractionRecord struct {
	AccountID string   `json:"account_id"`
	Alias     string   `json:"alias"`
	AuthMode  AuthMode `json:"auth_mode"`
	Region    string   `json:"region"`
}

// String returns the record as a compact JSON document for audit sinks.
func (r ExtractionRecord) String() string {
	bytes, err := sonic.ConfigFastest.Marshal(r)
	if err != nil {
		return fmt.Sprintf("extraction record: %s (%s)", r.Alias, r.AuthMode)
	}
	return string(bytes)
}

// LogValue implements [slog.LogValuer].
func (r ExtractionRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("account_id", r.AccountID),
		slog.String("alias", r.Alias),
		slog.String("auth_mode", string(r.AuthMode)),
		slog.String("region", r.Region),
	)
}
