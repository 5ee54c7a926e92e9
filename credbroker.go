// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package credbroker is a cloud-credential broker for multi-tenant agent
// platforms: it resolves tenant accounts to scoped cloud credentials,
// keeps short-lived federated sessions fresh, and hands credentials to
// tool processes without letting one tenant's secrets leak into another's
// execution context.
//
// [Broker] is the facade over the individual packages. Applications that
// need finer control can compose the pieces directly: account lookup in
// [github.com/go-a2a/credbroker/account], secret encryption in
// [github.com/go-a2a/credbroker/cipher], identity federation in
// [github.com/go-a2a/credbroker/federation], refreshable sessions in
// [github.com/go-a2a/credbroker/session], extraction and isolation in
// [github.com/go-a2a/credbroker/credential], and tool process lifecycle
// in [github.com/go-a2a/credbroker/toolpool].
package credbroker

// Version is the version of the credential broker.
var Version = "v0.0.0"
