package errkind

import (
	"regexp"
	"slices"
	"strings"

	"github.com/imamik/sagerec/internal/resource"
)

// Provider error codes, grouped by the kind they map to.
var (
	accessDeniedCodes = []string{
		"AccessDenied",
		"AccessDeniedException",
		"UnauthorizedOperation",
		"UnrecognizedClientException",
		"NotAuthorized",
		"InvalidClientTokenId",
		"ExpiredTokenException",
	}
	invalidRequestCodes = []string{
		"ValidationException",
		"ValidationError",
		"InvalidParameterValue",
		"InvalidParameterException",
		"InvalidParameterCombination",
		"InvalidRequestException",
		"MissingParameter",
	}
	serviceInternalCodes = []string{
		"InternalFailure",
		"InternalServerError",
		"InternalServerException",
		"ServiceUnavailable",
		"ServiceUnavailableException",
	}
	limitExceededCodes = []string{
		"ResourceLimitExceeded",
		"LimitExceededException",
		"ServiceQuotaExceededException",
	}
	notFoundCodes = []string{
		"ResourceNotFound",
		"ResourceNotFoundException",
		"NotFoundException",
	}
	inUseCodes = []string{
		"ResourceInUse",
		"ResourceInUseException",
		"ConflictException",
	}
	throttlingCodes = []string{
		"ThrottlingException",
		"Throttling",
		"ThrottledException",
		"RequestLimitExceeded",
		"TooManyRequestsException",
	}
)

// DefaultValidationMarkers mark free-text request validation failures.
var DefaultValidationMarkers = []string{
	"validation error detected",
	"ValidationException",
}

// Common free-text patterns. Resource adapters extend them through
// [Classifier.NotFound] and [Classifier.AlreadyExists].
var (
	DefaultNotFoundPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)does not exist`),
		regexp.MustCompile(`(?i)cannot find`),
		regexp.MustCompile(`(?i)could not be found`),
	}
	DefaultAlreadyExistsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)already exists`),
	}
)

// Classifier maps provider failures to classified errors. The zero value is
// usable and falls back to the default markers and patterns.
type Classifier struct {
	ValidationMarkers []string
	NotFound          []*regexp.Regexp
	AlreadyExists     []*regexp.Regexp
}

// NewClassifier returns a classifier with the default markers and the given
// extra free-text patterns.
func NewClassifier(notFound, alreadyExists []*regexp.Regexp) *Classifier {
	return &Classifier{
		ValidationMarkers: DefaultValidationMarkers,
		NotFound:          append(append([]*regexp.Regexp{}, DefaultNotFoundPatterns...), notFound...),
		AlreadyExists:     append(append([]*regexp.Regexp{}, DefaultAlreadyExistsPatterns...), alreadyExists...),
	}
}

// Classify maps err to a classified error for the given operation, type and
// identity. A nil err still yields GeneralService so callers can never leak
// an unclassified failure. Errors that are already classified pass through
// with missing context filled in.
func (c *Classifier) Classify(operation resource.Operation, typeName, identity string, err error) *Error {
	if classified, ok := As(err); ok {
		out := *classified
		if out.Operation == "" {
			out.Operation = operation
		}
		if out.TypeName == "" {
			out.TypeName = typeName
		}
		if out.Identity == "" {
			out.Identity = identity
		}
		return &out
	}

	f := FailureOf(err)
	out := &Error{
		Kind:      c.resolve(operation, f),
		Operation: operation,
		TypeName:  typeName,
		Identity:  identity,
		Detail:    f.Message,
		Err:       err,
	}
	return out
}

func (c *Classifier) resolve(operation resource.Operation, f Failure) Kind {
	if f.MessageOnly() && containsAny(f.Message, c.markers()) {
		return InvalidRequest
	}

	if f.HasCode() {
		return kindForCode(operation, f.Code)
	}

	if f.MessageOnly() {
		if matchesAny(f.Message, c.notFound()) {
			return NotFound
		}
		if matchesAny(f.Message, c.alreadyExists()) {
			return AlreadyExists
		}
	}

	return GeneralService
}

func kindForCode(operation resource.Operation, code string) Kind {
	switch {
	case slices.Contains(accessDeniedCodes, code):
		return AccessDenied
	case slices.Contains(invalidRequestCodes, code):
		return InvalidRequest
	case slices.Contains(serviceInternalCodes, code):
		return ServiceInternal
	case slices.Contains(limitExceededCodes, code):
		return ServiceLimitExceeded
	case slices.Contains(notFoundCodes, code):
		return NotFound
	case slices.Contains(inUseCodes, code):
		if operation == resource.OperationCreate {
			return AlreadyExists
		}
		return ResourceConflict
	case slices.Contains(throttlingCodes, code):
		return Throttling
	default:
		return GeneralService
	}
}

func (c *Classifier) markers() []string {
	if c == nil || c.ValidationMarkers == nil {
		return DefaultValidationMarkers
	}
	return c.ValidationMarkers
}

func (c *Classifier) notFound() []*regexp.Regexp {
	if c == nil || c.NotFound == nil {
		return DefaultNotFoundPatterns
	}
	return c.NotFound
}

func (c *Classifier) alreadyExists() []*regexp.Regexp {
	if c == nil || c.AlreadyExists == nil {
		return DefaultAlreadyExistsPatterns
	}
	return c.AlreadyExists
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
