package errkind

import (
	"errors"

	"github.com/aws/smithy-go"
)

// Failure is the provider failure as the classifier sees it: a structured
// code with a message, a bare message, or nothing at all.
type Failure struct {
	Code    string
	Message string
	Err     error
}

// HasCode reports whether the provider returned a structured error code.
func (f Failure) HasCode() bool {
	return f.Code != ""
}

// MessageOnly reports whether only free text is available.
func (f Failure) MessageOnly() bool {
	return f.Code == "" && f.Message != ""
}

// Empty reports whether the failure carries neither code nor message.
func (f Failure) Empty() bool {
	return f.Code == "" && f.Message == ""
}

// FailureOf extracts the classifier input from an error returned by an SDK
// call. smithy.APIError values yield a code, other errors only a message.
func FailureOf(err error) Failure {
	if err == nil {
		return Failure{}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return Failure{
			Code:    apiErr.ErrorCode(),
			Message: apiErr.ErrorMessage(),
			Err:     err,
		}
	}

	return Failure{Message: err.Error(), Err: err}
}
