package errkind

// Kind is the caller facing error classification.
type Kind string

const (
	// InvalidRequest is a caller input or request validation error.
	InvalidRequest Kind = "InvalidRequest"
	// AccessDenied means the credentials lack permission for the call.
	AccessDenied Kind = "AccessDenied"
	// NotFound means the resource does not exist.
	NotFound Kind = "NotFound"
	// AlreadyExists means a create collided with an existing resource.
	AlreadyExists Kind = "AlreadyExists"
	// ResourceConflict means the resource is busy or in an incompatible state.
	ResourceConflict Kind = "ResourceConflict"
	// ServiceLimitExceeded means an account quota was hit.
	ServiceLimitExceeded Kind = "ServiceLimitExceeded"
	// ServiceInternal is a provider side failure.
	ServiceInternal Kind = "ServiceInternal"
	// Throttling is a rate limit. Retryable.
	Throttling Kind = "Throttling"
	// NotStabilized means the resource did not reach a terminal success state.
	NotStabilized Kind = "NotStabilized"
	// GeneralService is the fallback for anything unclassified.
	GeneralService Kind = "GeneralService"
)

// Kinds lists the complete taxonomy.
var Kinds = []Kind{
	InvalidRequest,
	AccessDenied,
	NotFound,
	AlreadyExists,
	ResourceConflict,
	ServiceLimitExceeded,
	ServiceInternal,
	Throttling,
	NotStabilized,
	GeneralService,
}

// Retryable reports whether the orchestrator should try again later rather
// than surface the error.
func (k Kind) Retryable() bool {
	return k == Throttling
}

func (k Kind) String() string {
	return string(k)
}
