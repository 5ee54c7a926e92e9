// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"strings"
	"testing"
	"time"
)

func TestCredentialBundle_ExpiresWithin(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		margin time.Duration
		want   bool
	}{
		{
			name:   "no expiry never expires",
			expiry: time.Time{},
			margin: 5 * time.Minute,
			want:   false,
		},
		{
			name:   "well before expiry",
			expiry: now.Add(time.Hour),
			margin: 5 * time.Minute,
			want:   false,
		},
		{
			name:   "inside the margin",
			expiry: now.Add(2 * time.Minute),
			margin: 5 * time.Minute,
			want:   true,
		},
		{
			name:   "already expired",
			expiry: now.Add(-time.Minute),
			margin: 5 * time.Minute,
			want:   true,
		},
		{
			name:   "exactly at the margin boundary",
			expiry: now.Add(5 * time.Minute),
			margin: 5 * time.Minute,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &CredentialBundle{Expiry: tt.expiry}
			if got := b.ExpiresWithin(now, tt.margin); got != tt.want {
				t.Errorf("ExpiresWithin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCredentialBundle_AWSCredentials(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	b := &CredentialBundle{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		SessionToken:    "token",
		Expiry:          expiry,
		Region:          "us-east-1",
	}

	creds := b.AWSCredentials()
	if creds.AccessKeyID != "AKIDEXAMPLE" || creds.SecretAccessKey != "secret" || creds.SessionToken != "token" {
		t.Errorf("AWSCredentials() lost fields: %+v", creds)
	}
	if !creds.CanExpire || !creds.Expires.Equal(expiry) {
		t.Errorf("AWSCredentials() expiry mismatch: CanExpire=%v Expires=%v", creds.CanExpire, creds.Expires)
	}

	static := &CredentialBundle{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"}
	if static.AWSCredentials().CanExpire {
		t.Error("static bundle must not report CanExpire")
	}
}

func TestCredentialBundle_LogValueRedacts(t *testing.T) {
	b := &CredentialBundle{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUtnFEMI",
		SessionToken:    "FwoGZXIv",
		Alias:           "production",
		Mode:            AuthModeStatic,
		Region:          "us-east-1",
	}

	rendered := b.LogValue().String()
	for _, secret := range []string{"AKIDEXAMPLE", "wJalrXUtnFEMI", "FwoGZXIv"} {
		if strings.Contains(rendered, secret) {
			t.Errorf("LogValue() leaked %q: %s", secret, rendered)
		}
	}
	if !strings.Contains(rendered, "production") {
		t.Errorf("LogValue() dropped the alias: %s", rendered)
	}
}

func TestExtractionRecord_String(t *testing.T) {
	r := ExtractionRecord{
		AccountID: "acct-1",
		Alias:     "production",
		AuthMode:  AuthModeFederated,
		Region:    "eu-west-1",
	}

	got := r.String()
	for _, want := range []string{`"account_id":"acct-1"`, `"alias":"production"`, `"auth_mode":"federated"`, `"region":"eu-west-1"`} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %s, missing %s", got, want)
		}
	}
}
