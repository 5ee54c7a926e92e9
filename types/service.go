// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"time"
)

// AccountRepository looks up tenant account records by their external
// account identifier.
type AccountRepository interface {
	// Lookup returns the account record for accountID, with the owning
	// organization's federation token resolved in the same round trip.
	//
	// Returns [*AccountNotFoundError] when no record exists and
	// [*DatabaseUnavailableError] when the store cannot be reached.
	Lookup(ctx context.Context, accountID string) (*AccountRecord, error)

	// Close releases the repository's connections.
	Close()
}

// FederateRequest carries the parameters of one role-assumption call.
type FederateRequest struct {
	// RoleRef is the role to assume.
	RoleRef string

	// SessionName uniquely identifies this federation session on the
	// provider side. It aids auditability and carries no security meaning.
	SessionName string

	// FederationToken is the organization's anti-confusion token.
	// Mandatory: requests without it are rejected before the network.
	FederationToken string

	// TTL is the requested credential lifetime. Zero means the default
	// (one hour). Values above the provider's role-chaining ceiling fail
	// fast rather than being clamped.
	TTL time.Duration

	// Region is the provider region to federate in.
	Region string
}

// CredentialFetcher obtains temporary federated credentials from a cloud
// identity service.
type CredentialFetcher interface {
	// Federate exchanges the role reference for short-lived credentials.
	// Failures are reported as [*FederationError].
	Federate(ctx context.Context, req FederateRequest) (*CredentialBundle, error)
}

// SecretCipher encrypts and decrypts stored secret material with a
// process-wide key.
type SecretCipher interface {
	// Encrypt seals plaintext with a fresh nonce. Provisioning and test
	// use only; the hot path never encrypts.
	Encrypt(plaintext string) (string, error)

	// Decrypt opens ciphertext. Returns [*DecryptionError] when the key is
	// wrong or the ciphertext corrupted.
	Decrypt(ciphertext string) (string, error)
}
