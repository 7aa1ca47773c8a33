// Package resources registers every supported SageMaker resource type and
// exposes them behind a document based Handler.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"sigs.k8s.io/yaml"

	"github.com/imamik/sagerec/internal/engine"
	"github.com/imamik/sagerec/internal/errkind"
	"github.com/imamik/sagerec/internal/resource"
	"github.com/imamik/sagerec/internal/resources/domain"
	"github.com/imamik/sagerec/internal/resources/mlflow"
	"github.com/imamik/sagerec/internal/resources/modelpackage"
	"github.com/imamik/sagerec/internal/resources/pipeline"
	"github.com/imamik/sagerec/internal/resources/project"
	"github.com/imamik/sagerec/internal/resources/userprofile"
)

// SageMakerAPI is the union of every adapter's client interface. The SDK
// client satisfies it.
type SageMakerAPI interface {
	domain.API
	userprofile.API
	pipeline.API
	project.API
	modelpackage.API
	mlflow.API
}

// Request is one document based invocation.
type Request struct {
	Operation resource.Operation
	// Document is the desired state as JSON or YAML. It may be empty for
	// list.
	Document  []byte
	NextToken string
	Progress  *engine.Progress
}

// Response is the outcome of one invocation with models encoded as JSON.
type Response struct {
	Status       engine.Status      `json:"status"`
	Operation    resource.Operation `json:"operation"`
	TypeName     string             `json:"typeName"`
	Model        json.RawMessage    `json:"model,omitempty"`
	Models       []json.RawMessage  `json:"models,omitempty"`
	NextToken    string             `json:"nextToken,omitempty"`
	DelaySeconds int                `json:"callbackDelaySeconds,omitempty"`
	Progress     *engine.Progress   `json:"progress,omitempty"`
	ErrorCode    errkind.Kind       `json:"errorCode,omitempty"`
	Message      string             `json:"message,omitempty"`
}

// Done reports whether the response is terminal.
func (r Response) Done() bool {
	return r.Status != engine.StatusInProgress
}

// Handler runs engine operations for one resource type.
type Handler interface {
	TypeName() string
	Handle(ctx context.Context, req Request) Response
}

// Registry maps type names to handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds handlers for every supported type over api. tags may be
// nil to disable tag management.
func NewRegistry(api SageMakerAPI, tags engine.TagAPI, opts ...engine.Option) (*Registry, error) {
	r := &Registry{handlers: map[string]Handler{}}

	for _, add := range []func() error{
		func() error { return register(r, domain.New(api, tags), opts...) },
		func() error { return register(r, userprofile.New(api, tags), opts...) },
		func() error { return register(r, pipeline.New(api, tags), opts...) },
		func() error { return register(r, project.New(api, tags), opts...) },
		func() error { return register(r, modelpackage.New(api, tags), opts...) },
		func() error { return register(r, mlflow.New(api, tags), opts...) },
	} {
		if err := add(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func register[T any](r *Registry, adapter *engine.Adapter[*T], opts ...engine.Option) error {
	e, err := engine.New(adapter, opts...)
	if err != nil {
		return fmt.Errorf("failed to build engine for %s: %w", adapter.TypeName, err)
	}
	if _, ok := r.handlers[e.TypeName()]; ok {
		return fmt.Errorf("type %s registered twice", e.TypeName())
	}
	r.handlers[e.TypeName()] = &handler[T]{engine: e}
	return nil
}

// Get returns the handler of typeName.
func (r *Registry) Get(typeName string) (Handler, error) {
	h, ok := r.handlers[typeName]
	if !ok {
		return nil, fmt.Errorf("unsupported resource type %q", typeName)
	}
	return h, nil
}

// TypeNames returns every supported type name, sorted. Unlike
// [Registry.Types] it needs no client.
func TypeNames() []string {
	names := []string{
		domain.TypeName,
		userprofile.TypeName,
		pipeline.TypeName,
		project.TypeName,
		modelpackage.TypeName,
		mlflow.TypeName,
	}
	sort.Strings(names)
	return names
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type handler[T any] struct {
	engine *engine.Engine[*T]
}

func (h *handler[T]) TypeName() string {
	return h.engine.TypeName()
}

func (h *handler[T]) Handle(ctx context.Context, req Request) Response {
	desired, err := decode[T](req.Document)
	if err != nil {
		return h.invalid(req.Operation, fmt.Errorf("failed to decode document: %w", err))
	}

	res := h.engine.Handle(ctx, engine.Request[*T]{
		Operation: req.Operation,
		Desired:   desired,
		NextToken: req.NextToken,
		Progress:  req.Progress,
	})

	out := Response{
		Status:       res.Status,
		Operation:    res.Operation,
		TypeName:     h.TypeName(),
		NextToken:    res.NextToken,
		DelaySeconds: res.DelaySeconds(),
		Progress:     res.Progress,
		ErrorCode:    res.Kind,
		Message:      res.Message(),
	}
	if res.Model != nil {
		if out.Model, err = json.Marshal(res.Model); err != nil {
			return h.invalid(req.Operation, fmt.Errorf("failed to encode model: %w", err))
		}
	}
	for _, m := range res.Models {
		raw, err := json.Marshal(m)
		if err != nil {
			return h.invalid(req.Operation, fmt.Errorf("failed to encode model: %w", err))
		}
		out.Models = append(out.Models, raw)
	}
	return out
}

func (h *handler[T]) invalid(op resource.Operation, err error) Response {
	classified := errkind.Invalid("%v", err)
	classified.Operation = op
	classified.TypeName = h.TypeName()
	return Response{
		Status:    engine.StatusFailed,
		Operation: op,
		TypeName:  h.TypeName(),
		ErrorCode: classified.Kind,
		Message:   classified.Error(),
	}
}

// decode parses a JSON or YAML document. Unknown fields are rejected.
func decode[T any](doc []byte) (*T, error) {
	m := new(T)
	if len(doc) == 0 {
		return m, nil
	}
	if err := yaml.UnmarshalStrict(doc, m); err != nil {
		return nil, err
	}
	return m, nil
}
