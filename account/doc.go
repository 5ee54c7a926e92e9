// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package account provides implementations of [types.AccountRepository].
//
// # Postgres
//
// [Postgres] reads the account table owned by the platform database. One
// parameterized LEFT JOIN resolves the account row and the owning
// organization's federation token in a single round trip, so the hot path
// never issues a second query per request. The underlying [pgxpool.Pool] is
// constructed lazily exactly once per repository, guarded by a mutex so
// concurrent first callers cannot race-construct two pools, and torn down
// explicitly by Close.
//
// Failure to reach the database surfaces as [*types.DatabaseUnavailableError];
// a missing row surfaces as [*types.AccountNotFoundError]. Callers dispatch
// retries on that distinction.
//
// # InMemory
//
// [InMemory] keeps records in a map and is intended for tests and embedded
// use. Lookups return deep copies so stored records stay immutable.
package account
