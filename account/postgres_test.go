// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"testing"

	"github.com/go-a2a/credbroker/types"
)

func TestAuthModeFromColumn(t *testing.T) {
	tests := map[string]struct {
		column string
		want   types.AuthMode
	}{
		"native static":    {column: "static", want: types.AuthModeStatic},
		"native federated": {column: "federated", want: types.AuthModeFederated},
		"legacy aksk":      {column: "aksk", want: types.AuthModeStatic},
		"legacy iam_role":  {column: "iam_role", want: types.AuthModeFederated},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := authModeFromColumn(tt.column); got != tt.want {
				t.Errorf("authModeFromColumn(%q) = %q, want %q", tt.column, got, tt.want)
			}
		})
	}
}

func TestAuthModeFromColumnUnknownStaysInvalid(t *testing.T) {
	got := authModeFromColumn("oauth")
	if got.Valid() {
		t.Errorf("authModeFromColumn(%q) = %q, want an invalid mode", "oauth", got)
	}
}
