// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/go-a2a/credbroker/types"
)

// Environment variable names published by [EnvBinder]. Downstream clients
// that cannot accept a credential context read these conventional names.
const (
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvSessionToken    = "AWS_SESSION_TOKEN"
	EnvRegion          = "AWS_REGION"
)

// secretEnvNames are the variables that carry secret material. Region is
// published and restored but is not a secret.
var secretEnvNames = [...]string{EnvAccessKeyID, EnvSecretAccessKey, EnvSessionToken}

// boundEnvNames are all variables the binder snapshots and restores.
var boundEnvNames = [...]string{EnvAccessKeyID, EnvSecretAccessKey, EnvSessionToken, EnvRegion}

// EnvBinder publishes a credential bundle into the process environment for
// downstream clients that only read the conventional variable names.
//
// The environment is shared by every goroutine, so the binder admits one
// bound bundle at a time: Bind blocks until the lane is free, publishes
// the bundle, and returns a release function that restores the previous
// environment exactly and frees the lane. A variable that was unset before
// Bind is unset again on release.
type EnvBinder struct {
	lane   sync.Mutex
	logger *slog.Logger
}

// EnvBinderOption configures an [EnvBinder].
type EnvBinderOption func(*EnvBinder)

// WithBinderLogger sets the logger used for bind lifecycle events.
func WithBinderLogger(logger *slog.Logger) EnvBinderOption {
	return func(b *EnvBinder) {
		b.logger = logger
	}
}

// NewEnvBinder creates an [EnvBinder].
func NewEnvBinder(opts ...EnvBinderOption) *EnvBinder {
	b := &EnvBinder{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind publishes the bundle into the process environment and returns the
// release function that restores it. Bind blocks while another bundle is
// bound. The release function is safe to call more than once and must run
// unconditionally; defer it immediately:
//
//	release, err := binder.Bind(bundle)
//	if err != nil {
//		return err
//	}
//	defer release()
func (b *EnvBinder) Bind(bundle *types.CredentialBundle) (release func(), err error) {
	if bundle == nil {
		return nil, errNilBundle
	}

	b.lane.Lock()

	snapshot := make(map[string]*string, len(boundEnvNames))
	for _, name := range boundEnvNames {
		if v, ok := os.LookupEnv(name); ok {
			snapshot[name] = &v
		} else {
			snapshot[name] = nil
		}
	}

	os.Setenv(EnvAccessKeyID, bundle.AccessKeyID)
	os.Setenv(EnvSecretAccessKey, bundle.SecretAccessKey)
	if bundle.SessionToken != "" {
		os.Setenv(EnvSessionToken, bundle.SessionToken)
	} else {
		os.Unsetenv(EnvSessionToken)
	}
	if bundle.Region != "" {
		os.Setenv(EnvRegion, bundle.Region)
	}

	b.logger.Debug("bound credentials to environment", slog.String("alias", bundle.Alias))

	var once sync.Once
	release = func() {
		once.Do(func() {
			for _, name := range boundEnvNames {
				if prev := snapshot[name]; prev != nil {
					os.Setenv(name, *prev)
				} else {
					os.Unsetenv(name)
				}
			}
			b.logger.Debug("released credential environment", slog.String("alias", bundle.Alias))
			b.lane.Unlock()
		})
	}
	return release, nil
}

var errNilBundle = errors.New("credential: nil bundle")
