// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential orchestrates extraction and hand-off of tenant
// credentials.
//
// [Extractor.Extract] turns an account identifier into a normalized
// [types.CredentialBundle]: it looks the account up, branches on the stored
// authentication mode, and either decrypts the stored secret or federates
// through the identity service. Extraction never touches ambient state, so
// tests can extract without binding.
//
// # Hand-off
//
// The primary hand-off is the explicit credential context: [NewContext]
// attaches a bundle to a [context.Context] and [FromContext] reads it back,
// so every downstream call carries exactly the credentials of the request
// that bound them and cross-tenant leakage is impossible by construction.
//
// [EnvBinder] remains for downstream clients that only read the
// conventional process environment names and cannot be handed a context.
// Because the environment is process-wide, the binder serializes all
// credentialed work through a single execution lane: Bind acquires the
// lane, publishes the bundle, and returns a release function that restores
// the prior environment exactly — including absence — and frees the lane.
// Release is safe to call twice and must run even on error or
// cancellation (defer it).
//
// [VerifyIsolation] is the defensive check at trust boundaries: it detects
// and logs ambient credential state that should not be there. It detects,
// it does not prevent; prevention is the credential context's job.
package credential
