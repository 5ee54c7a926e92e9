// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"context"
	"sync"

	deepcopy "github.com/tiendc/go-deepcopy"

	"github.com/go-a2a/credbroker/types"
)

// InMemory is an in-memory implementation of [types.AccountRepository].
type InMemory struct {
	mu       sync.RWMutex
	accounts map[string]*types.AccountRecord // external account id -> record
}

var _ types.AccountRepository = (*InMemory)(nil)

// NewInMemory returns a new [InMemory] repository.
func NewInMemory() *InMemory {
	return &InMemory{
		accounts: make(map[string]*types.AccountRecord),
	}
}

// Put stores a record, keyed by its external account id. The record's
// organization fields (OrgID, FederationToken) are stored as given; use
// [InMemory.PutWithOrganization] to resolve them from an organization record.
func (r *InMemory) Put(rec *types.AccountRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[rec.AccountID] = rec
}

// PutWithOrganization stores a record with its organization's id and
// federation token resolved, mirroring what the joined database lookup
// produces.
func (r *InMemory) PutWithOrganization(rec *types.AccountRecord, org *types.OrganizationRecord) {
	stored := *rec
	if org != nil {
		stored.OrgID = org.ID
		stored.FederationToken = org.FederationToken
	}
	r.Put(&stored)
}

// Lookup implements [types.AccountRepository]. Returned records are deep
// copies; mutating them does not affect the stored record.
func (r *InMemory) Lookup(ctx context.Context, accountID string) (*types.AccountRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.accounts[accountID]
	if !ok {
		return nil, &types.AccountNotFoundError{AccountID: accountID}
	}

	var copied types.AccountRecord
	if err := deepcopy.Copy(&copied, rec); err != nil {
		return nil, err
	}
	return &copied, nil
}

// Close implements [types.AccountRepository].
func (r *InMemory) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = make(map[string]*types.AccountRecord)
}
