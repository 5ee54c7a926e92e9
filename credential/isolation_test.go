// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-a2a/credbroker/types"
)

func TestVerifyIsolationCleanEnvironment(t *testing.T) {
	clearSensitiveEnv(t)

	clean, err := VerifyIsolation(t.Context(), nil, "before-extract")
	if err != nil {
		t.Fatalf("VerifyIsolation: %v", err)
	}
	if !clean {
		t.Error("clean = false for an empty environment, want true")
	}
}

func TestVerifyIsolationDetectsBoundCredentials(t *testing.T) {
	clearSensitiveEnv(t)

	binder := NewEnvBinder()
	release, err := binder.Bind(&types.CredentialBundle{
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "super-secret",
		SessionToken:    "session-token",
	})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer release()

	clean, verr := VerifyIsolation(t.Context(), nil, "mid-bind")
	if clean {
		t.Error("clean = true while credentials are bound, want false")
	}

	var ierr *types.IsolationError
	if !errors.As(verr, &ierr) {
		t.Fatalf("VerifyIsolation error = %v, want IsolationError", verr)
	}
	if ierr.Phase != "mid-bind" {
		t.Errorf("Phase = %q, want %q", ierr.Phase, "mid-bind")
	}
	if len(ierr.Leaked) != 3 {
		t.Errorf("Leaked = %v, want all three secret names", ierr.Leaked)
	}
	for _, leaked := range ierr.Leaked {
		if strings.Contains(leaked, "secret") || strings.Contains(leaked, "AKIA") {
			t.Errorf("Leaked entry %q looks like a value, want variable names only", leaked)
		}
	}
	if strings.Contains(ierr.Error(), "super-secret") {
		t.Errorf("error message %q leaks secret material", ierr.Error())
	}

	release()
	clean, err = VerifyIsolation(t.Context(), nil, "after-release")
	if err != nil {
		t.Fatalf("VerifyIsolation after release: %v", err)
	}
	if !clean {
		t.Error("clean = false after release, want true")
	}
}

func TestVerifyIsolationIgnoresRegion(t *testing.T) {
	clearSensitiveEnv(t)
	t.Setenv(EnvRegion, "us-east-1")

	clean, err := VerifyIsolation(t.Context(), nil, "region-only")
	if err != nil {
		t.Fatalf("VerifyIsolation: %v", err)
	}
	if !clean {
		t.Error("clean = false with only a region set, want true")
	}
}

func TestSensitiveEnvStatus(t *testing.T) {
	clearSensitiveEnv(t)
	t.Setenv(EnvAccessKeyID, "AKIAEXAMPLE")

	status := SensitiveEnvStatus()
	if !status[EnvAccessKeyID] {
		t.Errorf("status[%s] = false, want true", EnvAccessKeyID)
	}
	if status[EnvSecretAccessKey] {
		t.Errorf("status[%s] = true, want false", EnvSecretAccessKey)
	}
	for name := range status {
		switch name {
		case EnvAccessKeyID, EnvSecretAccessKey, EnvSessionToken, EnvRegion:
		default:
			t.Errorf("unexpected variable %q in status", name)
		}
	}
}
