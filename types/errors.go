// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"errors"
	"fmt"
)

// AccountNotFoundError reports that no account record exists for the
// requested identifier. Not retryable.
type AccountNotFoundError struct {
	// AccountID is the identifier that missed.
	AccountID string
}

// Error implements the error interface.
func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account not found: %s", e.AccountID)
}

// DecryptionError reports that stored secret material could not be
// decrypted, or was missing when the account's mode requires it. Not
// retryable; treated as a data-integrity incident.
type DecryptionError struct {
	// Reason describes the failure without echoing key or ciphertext.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decrypt secret: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decrypt secret: %s", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *DecryptionError) Unwrap() error { return e.Err }

// FederationErrorKind classifies a federation failure so callers never
// depend on a specific provider SDK's error hierarchy.
type FederationErrorKind string

const (
	// FederationDenied means the identity service rejected the role
	// assumption (access denied class). Not retryable.
	FederationDenied FederationErrorKind = "denied"

	// FederationInvalid means the request was malformed or violated a
	// provider limit (invalid argument class). Not retryable.
	FederationInvalid FederationErrorKind = "invalid"

	// FederationTransient means the provider errored in a way that may
	// succeed on retry (throttling, internal error).
	FederationTransient FederationErrorKind = "transient"

	// FederationTimeout means the call exceeded its deadline. Retryable,
	// but distinguishable from a definitive rejection.
	FederationTimeout FederationErrorKind = "timeout"

	// FederationConfig means required federation configuration was absent
	// (no role reference, no federation token). Detected before any
	// network call. Not retryable.
	FederationConfig FederationErrorKind = "config"
)

// FederationError reports a failed credential federation. The provider's
// error code and message are carried for diagnosis; the attempted secret
// never is.
type FederationError struct {
	// Kind classifies the failure for retry dispatch.
	Kind FederationErrorKind

	// Code is the provider-side error code, if the provider returned one.
	Code string

	// Reason describes the failure.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *FederationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("federation failed (%s) [%s]: %s", e.Kind, e.Code, e.Reason)
	}
	return fmt.Sprintf("federation failed (%s): %s", e.Kind, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *FederationError) Unwrap() error { return e.Err }

// DatabaseUnavailableError reports that the account store could not be
// reached at all, as opposed to a record being missing. Retryable with
// backoff at the caller.
type DatabaseUnavailableError struct {
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DatabaseUnavailableError) Error() string {
	return fmt.Sprintf("account database unavailable: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *DatabaseUnavailableError) Unwrap() error { return e.Err }

// IsolationError reports detected leakage of credential state into the
// ambient execution context. Always fatal to the request: it indicates a
// logic bug, not a transient condition.
type IsolationError struct {
	// Phase labels the trust boundary where the leak was detected.
	Phase string

	// Leaked names the leaked fields. Values are never recorded.
	Leaked []string
}

// Error implements the error interface.
func (e *IsolationError) Error() string {
	return fmt.Sprintf("isolation violation at %q: %d ambient credential field(s) present", e.Phase, len(e.Leaked))
}

// Retryable reports whether err warrants a retry under the broker's error
// policy: database unavailability and transient or timed-out federation
// are retryable, everything else is definitive.
func Retryable(err error) bool {
	var dbErr *DatabaseUnavailableError
	if errors.As(err, &dbErr) {
		return true
	}
	var fedErr *FederationError
	if errors.As(err, &fedErr) {
		return fedErr.Kind == FederationTransient || fedErr.Kind == FederationTimeout
	}
	return false
}
