// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package federation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/go-a2a/credbroker/types"
)

const (
	// DefaultTTL is the credential lifetime requested when the caller does
	// not specify one.
	DefaultTTL = time.Hour

	// MaxTTL is the provider's role-chaining ceiling. Requests above it
	// fail fast instead of being silently clamped.
	MaxTTL = time.Hour

	// MinTTL is the provider's minimum session duration.
	MinTTL = 15 * time.Minute

	// DefaultSessionNamePrefix prefixes generated session names.
	DefaultSessionNamePrefix = "credbroker"
)

// assumeRoleAPI is the slice of the STS client the fetcher uses.
type assumeRoleAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

// STS is the AWS implementation of [types.CredentialFetcher].
type STS struct {
	client assumeRoleAPI
	region string
	logger *slog.Logger
}

var _ types.CredentialFetcher = (*STS)(nil)

// STSOption configures an [*STS].
type STSOption func(*STS)

// WithLogger sets the logger. Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) STSOption {
	return func(f *STS) {
		f.logger = logger
	}
}

// withClient overrides the STS client. Test use.
func withClient(client assumeRoleAPI) STSOption {
	return func(f *STS) {
		f.client = client
	}
}

// NewSTS returns a fetcher calling STS with the given AWS configuration.
// The configuration's credentials are the broker's own identity (instance
// role or equivalent), never a tenant's.
func NewSTS(cfg aws.Config, opts ...STSOption) *STS {
	f := &STS{
		region: cfg.Region,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = sts.NewFromConfig(cfg)
	}
	return f
}

// NewSTSFromDefaults loads the ambient AWS configuration for region and
// returns a fetcher on it.
func NewSTSFromDefaults(ctx context.Context, region string, opts ...STSOption) (*STS, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS configuration: %w", err)
	}
	return NewSTS(cfg, opts...), nil
}

// Federate implements [types.CredentialFetcher].
func (f *STS) Federate(ctx context.Context, req types.FederateRequest) (*types.CredentialBundle, error) {
	if err := validateRequest(&req, f.region); err != nil {
		return nil, err
	}

	out, err := f.client.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(req.RoleRef),
		RoleSessionName: aws.String(req.SessionName),
		ExternalId:      aws.String(req.FederationToken),
		DurationSeconds: aws.Int32(int32(req.TTL / time.Second)),
	})
	if err != nil {
		return nil, classify(ctx, err)
	}

	creds := out.Credentials
	if creds == nil || creds.AccessKeyId == nil || creds.SecretAccessKey == nil {
		return nil, &types.FederationError{
			Kind:   types.FederationTransient,
			Reason: "identity service returned no credentials",
		}
	}

	f.logger.InfoContext(ctx, "role assumed",
		slog.String("session_name", req.SessionName),
		slog.String("region", req.Region),
		slog.Time("expiry", aws.ToTime(creds.Expiration)),
	)

	return &types.CredentialBundle{
		AccessKeyID:     aws.ToString(creds.AccessKeyId),
		SecretAccessKey: aws.ToString(creds.SecretAccessKey),
		SessionToken:    aws.ToString(creds.SessionToken),
		Expiry:          aws.ToTime(creds.Expiration),
		Region:          req.Region,
	}, nil
}

// ValidateRole probes a role reference with a short-lived assumption and
// returns the provider-side account id it resolves to. Used at account
// provisioning time, not on the hot path.
func (f *STS) ValidateRole(ctx context.Context, roleRef, federationToken string) (string, error) {
	req := types.FederateRequest{
		RoleRef:         roleRef,
		SessionName:     SessionName("validation"),
		FederationToken: federationToken,
		TTL:             MinTTL,
		Region:          f.region,
	}
	if err := validateRequest(&req, f.region); err != nil {
		return "", err
	}

	out, err := f.client.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(req.RoleRef),
		RoleSessionName: aws.String(req.SessionName),
		ExternalId:      aws.String(req.FederationToken),
		DurationSeconds: aws.Int32(int32(req.TTL / time.Second)),
	})
	if err != nil {
		return "", classify(ctx, err)
	}
	if out.AssumedRoleUser == nil || out.AssumedRoleUser.Arn == nil {
		return "", &types.FederationError{
			Kind:   types.FederationTransient,
			Reason: "identity service returned no assumed-role identity",
		}
	}

	// arn:aws:sts::123456789012:assumed-role/RoleName/SessionName
	parts := strings.Split(aws.ToString(out.AssumedRoleUser.Arn), ":")
	if len(parts) < 5 || parts[4] == "" {
		return "", &types.FederationError{
			Kind:   types.FederationInvalid,
			Reason: "assumed-role identity has no account component",
		}
	}
	return parts[4], nil
}

// SessionName returns a fresh, unique session name with the given prefix.
func SessionName(prefix string) string {
	if prefix == "" {
		prefix = DefaultSessionNamePrefix
	}
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// validateRequest applies defaults and rejects requests that must never
// reach the network.
func validateRequest(req *types.FederateRequest, defaultRegion string) error {
	if req.RoleRef == "" {
		return &types.FederationError{Kind: types.FederationConfig, Reason: "missing role reference"}
	}
	if req.FederationToken == "" {
		return &types.FederationError{Kind: types.FederationConfig, Reason: "missing federation token"}
	}
	if req.SessionName == "" {
		req.SessionName = SessionName(DefaultSessionNamePrefix)
	}
	if req.TTL == 0 {
		req.TTL = DefaultTTL
	}
	if req.TTL > MaxTTL {
		return &types.FederationError{
			Kind:   types.FederationInvalid,
			Reason: fmt.Sprintf("requested TTL %s exceeds the role-chaining ceiling %s", req.TTL, MaxTTL),
		}
	}
	if req.TTL < MinTTL {
		return &types.FederationError{
			Kind:   types.FederationInvalid,
			Reason: fmt.Sprintf("requested TTL %s is below the provider minimum %s", req.TTL, MinTTL),
		}
	}
	if req.Region == "" {
		req.Region = defaultRegion
	}
	return nil
}

// classify maps a provider error onto the broker taxonomy. The provider's
// code and message are carried; the attempted secret never is.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &types.FederationError{Kind: types.FederationTimeout, Reason: "identity service call timed out", Err: err}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		kind := types.FederationTransient
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException", "ExpiredToken":
			kind = types.FederationDenied
		case "ValidationError", "InvalidParameterValue", "MalformedPolicyDocument", "PackedPolicyTooLarge":
			kind = types.FederationInvalid
		case "Throttling", "ThrottlingException", "RequestLimitExceeded", "InternalFailure", "ServiceUnavailable", "RegionDisabledException":
			kind = types.FederationTransient
		}
		return &types.FederationError{
			Kind:   kind,
			Code:   apiErr.ErrorCode(),
			Reason: apiErr.ErrorMessage(),
			Err:    err,
		}
	}

	return &types.FederationError{Kind: types.FederationTransient, Reason: "identity service call failed", Err: err}
}
