// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

// AuthMode discriminates how a tenant account authenticates against its
// cloud provider.
type AuthMode string

const (
	// AuthModeStatic means the account stores a long-lived key pair; the
	// secret half is encrypted at rest and decrypted per extraction.
	AuthModeStatic AuthMode = "static"

	// AuthModeFederated means the account stores a role reference that is
	// exchanged for short-lived credentials via the provider's identity
	// service.
	AuthModeFederated AuthMode = "federated"
)

// Valid reports whether m is a known authentication mode.
func (m AuthMode) Valid() bool {
	return m == AuthModeStatic || m == AuthModeFederated
}

// AccountRecord is the stored description of one tenant's cloud credential
// source. Records are immutable once created; credential rotation replaces
// the encrypted secret, not the record.
type AccountRecord struct {
	// ID is the repository's internal identifier (primary key).
	ID string

	// AccountID is the external, provider-side account identifier.
	AccountID string

	// Alias is the human-readable account name, used for audit logging.
	Alias string

	// AuthMode selects the extraction branch for this account.
	AuthMode AuthMode

	// Region is the provider region API calls for this account target.
	Region string

	// OrgID references the owning organization.
	OrgID string

	// AccessKeyID is the plaintext key identifier (static mode only).
	AccessKeyID string

	// EncryptedSecret is the ciphertext of the secret key (static mode only).
	EncryptedSecret string

	// RoleRef is the role to assume (federated mode only).
	RoleRef string

	// FederationToken is the owning organization's anti-confusion token,
	// resolved in the same repository round trip. Empty when the
	// organization has none configured; federated extraction must then
	// fail before reaching the network.
	FederationToken string
}

// OrganizationRecord describes the organization that owns one or more
// account records.
type OrganizationRecord struct {
	// ID is the organization's internal identifier.
	ID string

	// FederationToken is the per-organization secondary proof presented on
	// every role assumption (confused-deputy defense).
	FederationToken string
}
