package sagemaker

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/smithy-go"

	"github.com/imamik/sagerec/internal/errkind"
)

// NewClient returns a SageMaker client. endpoint overrides the service
// endpoint when set.
func NewClient(cfg aws.Config, endpoint string) *sagemaker.Client {
	return sagemaker.NewFromConfig(cfg, func(o *sagemaker.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// MissingAsNotFound rewrites a ValidationException whose message matches
// one of patterns (or the default not-found patterns when none are given)
// into a NotFound error. Any other error is returned unchanged.
func MissingAsNotFound(err error, typeName, identity string, patterns ...*regexp.Regexp) error {
	if !IsMissing(err, patterns...) {
		return err
	}
	var apiErr smithy.APIError
	errors.As(err, &apiErr)

	missing := errkind.New(errkind.NotFound, typeName, identity, apiErr.ErrorMessage())
	missing.Err = err
	return missing
}

// IsMissing reports whether err is a ValidationException saying the
// resource does not exist.
func IsMissing(err error, patterns ...*regexp.Regexp) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) || apiErr.ErrorCode() != "ValidationException" {
		return false
	}
	if len(patterns) == 0 {
		patterns = errkind.DefaultNotFoundPatterns
	}
	for _, p := range patterns {
		if p.MatchString(apiErr.ErrorMessage()) {
			return true
		}
	}
	return false
}

// ResourceID returns the last path segment of an ARN such as
// arn:aws:sagemaker:eu-west-1:123456789012:domain/d-abc, or "" when arn has
// no resource path.
func ResourceID(arn string) string {
	i := strings.LastIndex(arn, "/")
	if i < 0 {
		return ""
	}
	return arn[i+1:]
}

// Invoke adapts an SDK client method to the two argument form used by
// engine.Bind.
func Invoke[In, Out any](fn func(context.Context, In, ...func(*sagemaker.Options)) (Out, error)) func(context.Context, In) (Out, error) {
	return func(ctx context.Context, in In) (Out, error) {
		return fn(ctx, in)
	}
}
