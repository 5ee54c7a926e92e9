// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package toolpool manages the lifecycle of long-lived tool process
// handles on behalf of a broker.
//
// A [Handle] wraps one external tool process, for example a containerized
// helper. The [Pool] activates every registered handle during
// [Pool.Initialize], tolerating individual failures: a handle that cannot
// activate is logged and skipped, and the pool is ready as long as at
// least one handle is active. Failed handles stay failed until the pool is
// closed and initialized again.
//
// Health reporting is reactive. [Pool.HealthCheck] answers from the
// pool's current state and is rate limited so status endpoints cannot
// hammer it; broken handles are discovered when a caller reports a
// failure through [Pool.ReportFailure], not by background probing.
package toolpool
