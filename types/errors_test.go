// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "database unavailable is retryable",
			err:  &DatabaseUnavailableError{Err: errors.New("connection refused")},
			want: true,
		},
		{
			name: "transient federation is retryable",
			err:  &FederationError{Kind: FederationTransient, Code: "Throttling"},
			want: true,
		},
		{
			name: "federation timeout is retryable",
			err:  &FederationError{Kind: FederationTimeout, Err: context.DeadlineExceeded},
			want: true,
		},
		{
			name: "denied federation is not retryable",
			err:  &FederationError{Kind: FederationDenied, Code: "AccessDenied"},
			want: false,
		},
		{
			name: "missing configuration is not retryable",
			err:  &FederationError{Kind: FederationConfig, Reason: "organization has no federation token"},
			want: false,
		},
		{
			name: "account not found is not retryable",
			err:  &AccountNotFoundError{AccountID: "acct-1"},
			want: false,
		},
		{
			name: "decryption failure is not retryable",
			err:  &DecryptionError{Reason: "authentication tag mismatch"},
			want: false,
		},
		{
			name: "wrapped errors are unwrapped",
			err:  fmt.Errorf("lookup account: %w", &DatabaseUnavailableError{Err: errors.New("timeout")}),
			want: true,
		},
		{
			name: "plain errors are not retryable",
			err:  errors.New("something"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorMessagesCarryNoSecrets(t *testing.T) {
	// The error constructors take reasons and codes only; exercise the
	// formatting paths to keep them stable.
	errs := []error{
		&AccountNotFoundError{AccountID: "acct-1"},
		&DecryptionError{Reason: "missing material"},
		&DecryptionError{Reason: "open ciphertext", Err: errors.New("cipher: message authentication failed")},
		&FederationError{Kind: FederationDenied, Code: "AccessDenied", Reason: "not authorized"},
		&FederationError{Kind: FederationConfig, Reason: "missing role reference"},
		&DatabaseUnavailableError{Err: errors.New("dial tcp: connection refused")},
		&IsolationError{Phase: "after_tool_call", Leaked: []string{"AWS_ACCESS_KEY_ID"}},
	}
	for _, err := range errs {
		if err.Error() == "" {
			t.Errorf("%T produced an empty message", err)
		}
	}
}

func TestIsolationError_NamesFieldsNotValues(t *testing.T) {
	err := &IsolationError{Phase: "before_bind", Leaked: []string{"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY"}}
	if want := "2 ambient credential field(s)"; !strings.Contains(err.Error(), want) {
		t.Errorf("Error() = %q, want it to contain %q", err.Error(), want)
	}
}
