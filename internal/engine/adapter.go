package engine

import (
	"context"
	"fmt"

	"github.com/imamik/sagerec/internal/errkind"
	"github.com/imamik/sagerec/internal/resource"
	"github.com/imamik/sagerec/internal/stabilize"
)

// Call is one provider step: a translated request sent through an invoker,
// with the response folded back into the model.
type Call[M any] func(ctx context.Context, m M) (M, error)

// Bind builds a Call from a translator, an invoker and an optional absorb
// function copying response fields (ids, ARNs) into the model.
//
// Translator failures are input errors and come back as InvalidRequest.
// Invoker failures are returned untouched for the engine to classify.
func Bind[M, Req, Resp any](
	translate func(M) (Req, error),
	invoke func(context.Context, Req) (Resp, error),
	absorb func(M, Resp) M,
) Call[M] {
	return func(ctx context.Context, m M) (M, error) {
		req, err := translate(m)
		if err != nil {
			if _, ok := errkind.As(err); ok {
				return m, err
			}
			invalid := errkind.Invalid("%v", err)
			invalid.Err = err
			return m, invalid
		}

		resp, err := invoke(ctx, req)
		if err != nil {
			return m, err
		}

		if absorb == nil {
			return m, nil
		}
		return absorb(m, resp), nil
	}
}

// Describer is the probe used for read and stabilization.
type Describer[M any] func(ctx context.Context, m M) (stabilize.Observation[M], error)

// Lister returns one page of resources. scope carries filter fields such as
// a parent id and may be the zero value.
type Lister[M any] func(ctx context.Context, scope M, token string) (items []M, next string, err error)

// TagAPI manages tags of a resource addressed by target (an ARN).
type TagAPI interface {
	ListTags(ctx context.Context, target string) (map[string]string, error)
	AddTags(ctx context.Context, target string, tags map[string]string) error
	RemoveTags(ctx context.Context, target string, keys []string) error
}

// TagSupport wires a model type to a TagAPI.
type TagSupport[M any] struct {
	API TagAPI
	// Target returns the tagging address of m.
	Target func(M) string
	// Desired returns the tags requested in m. A nil slice means tags were
	// omitted and stay untouched on update.
	Desired func(M) []resource.Tag
	// Attach stores observed tags in m.
	Attach func(M, map[string]string) M
}

// Adapter is the capability bundle of one resource type.
type Adapter[M any] struct {
	TypeName string
	// Identify renders the identity of m for messages. It must accept the
	// zero value.
	Identify func(M) string
	Statuses resource.StatusTable
	// Classifier carries resource specific free-text patterns. nil uses the
	// defaults.
	Classifier *errkind.Classifier

	// ValidateCreate rejects ambiguous identity combinations.
	ValidateCreate func(M) error
	// Merge fills mutable properties omitted from desired with the current
	// observed values.
	Merge func(current, desired M) M
	// ValidateUpdate rejects changes to create-only properties.
	ValidateUpdate func(current, desired M) error
	// PrecheckCreate makes create fail with AlreadyExists when a describe
	// finds the resource.
	PrecheckCreate bool

	Create   Call[M]
	Update   Call[M]
	Delete   Call[M]
	Describe Describer[M]
	List     Lister[M]
	Tags     *TagSupport[M]
}

// Validate checks that the adapter carries every required capability.
func (a *Adapter[M]) Validate() error {
	switch {
	case a.TypeName == "":
		return fmt.Errorf("adapter: type name is required")
	case a.Identify == nil:
		return fmt.Errorf("adapter %s: identify is required", a.TypeName)
	case a.Describe == nil:
		return fmt.Errorf("adapter %s: describe is required", a.TypeName)
	case a.Create == nil || a.Update == nil || a.Delete == nil:
		return fmt.Errorf("adapter %s: create, update and delete are required", a.TypeName)
	case a.List == nil:
		return fmt.Errorf("adapter %s: list is required", a.TypeName)
	case a.Tags != nil && (a.Tags.API == nil || a.Tags.Target == nil || a.Tags.Desired == nil || a.Tags.Attach == nil):
		return fmt.Errorf("adapter %s: incomplete tag support", a.TypeName)
	}
	return nil
}
