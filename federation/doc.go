// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package federation implements [types.CredentialFetcher] against cloud
// identity services.
//
// [STS] exchanges a role reference for short-lived AWS credentials via
// AssumeRole. The organization's federation token travels as the external id
// on every call — the confused-deputy defense for cross-tenant role
// assumption — and requests without it are rejected before any network
// traffic. Session names are unique per call to aid provider-side audit
// trails; they carry no security meaning.
//
// [GCP] impersonates a tenant service account and normalizes the resulting
// access token into the same [types.CredentialBundle] shape, so downstream
// consumers stay provider-agnostic.
//
// Provider errors are classified into [types.FederationErrorKind] at this
// boundary; nothing above this package depends on an SDK error hierarchy.
package federation
