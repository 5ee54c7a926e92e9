// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/credbroker/types"
)

func TestInMemory_Lookup(t *testing.T) {
	repo := NewInMemory()
	t.Cleanup(repo.Close)

	org := &types.OrganizationRecord{ID: "org-1", FederationToken: "org-token-1"}
	rec := &types.AccountRecord{
		ID:        "id-1",
		AccountID: "acct-1",
		Alias:     "production",
		AuthMode:  types.AuthModeFederated,
		Region:    "us-east-1",
		RoleRef:   "role/X",
	}
	repo.PutWithOrganization(rec, org)

	got, err := repo.Lookup(context.Background(), "acct-1")
	if err != nil {
		t.Fatal(err)
	}

	want := &types.AccountRecord{
		ID:              "id-1",
		AccountID:       "acct-1",
		Alias:           "production",
		AuthMode:        types.AuthModeFederated,
		Region:          "us-east-1",
		OrgID:           "org-1",
		RoleRef:         "role/X",
		FederationToken: "org-token-1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lookup() mismatch (-want +got):\n%s", diff)
	}
}

func TestInMemory_LookupMissing(t *testing.T) {
	repo := NewInMemory()
	t.Cleanup(repo.Close)

	_, err := repo.Lookup(context.Background(), "no-such-account")
	var notFound *types.AccountNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Lookup() = %v, want *types.AccountNotFoundError", err)
	}
	if notFound.AccountID != "no-such-account" {
		t.Errorf("AccountID = %q, want %q", notFound.AccountID, "no-such-account")
	}
}

func TestInMemory_LookupReturnsCopy(t *testing.T) {
	repo := NewInMemory()
	t.Cleanup(repo.Close)

	repo.Put(&types.AccountRecord{AccountID: "acct-1", Alias: "original"})

	first, err := repo.Lookup(context.Background(), "acct-1")
	if err != nil {
		t.Fatal(err)
	}
	first.Alias = "mutated"

	second, err := repo.Lookup(context.Background(), "acct-1")
	if err != nil {
		t.Fatal(err)
	}
	if second.Alias != "original" {
		t.Errorf("stored record was mutated through a lookup result: alias = %q", second.Alias)
	}
}
