// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package types provides the shared data types, service interfaces, and error
// taxonomy for the credential broker core.
//
// The package defines the contract between the broker's components so that
// implementations (Postgres repository, STS fetcher, AES-GCM cipher) stay
// swappable behind small interfaces:
//
//   - [AccountRecord] and [OrganizationRecord]: the stored description of a
//     tenant's credential source and its owning organization.
//   - [CredentialBundle]: the normalized, ephemeral output of extraction.
//   - [ExtractionRecord]: audit metadata for one successful extraction,
//     guaranteed to carry no secret material.
//   - [AccountRepository], [CredentialFetcher], [SecretCipher]: the component
//     interfaces the extractor orchestrates.
//
// # Error Taxonomy
//
// Every failure path in the broker core is named by a typed error defined
// here: [AccountNotFoundError], [DecryptionError], [FederationError],
// [DatabaseUnavailableError], and [IsolationError]. The [Retryable] helper
// encodes the retry policy so that callers never branch on provider SDK
// error hierarchies.
//
// # Secret Hygiene
//
// [CredentialBundle] implements [log/slog.LogValuer] with a redacted
// representation, and no error type in this package ever embeds secret
// material in its message. Audit output goes through [ExtractionRecord],
// which structurally cannot carry a key id or secret.
package types
