package engine

import (
	"context"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/sagerec/internal/backoff"
	"github.com/imamik/sagerec/internal/errkind"
	"github.com/imamik/sagerec/internal/resource"
	"github.com/imamik/sagerec/internal/stabilize"
)

// Engine reconciles resources of one type.
type Engine[M any] struct {
	adapter       *Adapter[M]
	classifier    *errkind.Classifier
	stabilizer    *stabilize.Stabilizer[M]
	policies      backoff.Policies
	sink          Sink
	now           func() time.Time
	enableMetrics bool
}

type options struct {
	policies      backoff.Policies
	sink          Sink
	now           func() time.Time
	enableMetrics bool
}

// Option configures an Engine.
type Option func(*options)

// WithPolicies sets the stabilization backoff policies.
func WithPolicies(p backoff.Policies) Option {
	return func(o *options) {
		o.policies = p
	}
}

// WithSink sets the event sink.
func WithSink(s Sink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithMetrics toggles prometheus metrics recording.
func WithMetrics(enabled bool) Option {
	return func(o *options) {
		o.enableMetrics = enabled
	}
}

// New builds an engine for adapter.
func New[M any](adapter *Adapter[M], opts ...Option) (*Engine[M], error) {
	if err := adapter.Validate(); err != nil {
		return nil, err
	}

	o := options{
		policies: backoff.DefaultPolicies(),
		sink:     NopSink{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	classifier := adapter.Classifier
	if classifier == nil {
		classifier = errkind.NewClassifier(nil, nil)
	}

	return &Engine[M]{
		adapter:    adapter,
		classifier: classifier,
		stabilizer: &stabilize.Stabilizer[M]{
			TypeName:   adapter.TypeName,
			Statuses:   adapter.Statuses,
			Policies:   o.policies,
			Classifier: classifier,
			Now:        o.now,
		},
		policies:      o.policies,
		sink:          o.sink,
		now:           o.now,
		enableMetrics: o.enableMetrics,
	}, nil
}

// TypeName returns the resource type the engine manages.
func (e *Engine[M]) TypeName() string {
	return e.adapter.TypeName
}

// Handle runs one step of req.Operation.
func (e *Engine[M]) Handle(ctx context.Context, req Request[M]) Result[M] {
	start := e.now()
	identity := ""
	if req.Operation != resource.OperationList {
		identity = e.adapter.Identify(req.Desired)
	}

	logger := log.FromContext(ctx).WithValues("type", e.adapter.TypeName, "operation", req.Operation)
	if identity != "" {
		logger = logger.WithValues("identity", identity)
	}
	ctx = log.IntoContext(ctx, logger)

	if req.Progress == nil {
		e.emit(ctx, req.Operation, identity, EventOperationStarted, fmt.Sprintf("%s %s", req.Operation, e.adapter.TypeName), nil)
	}

	var res Result[M]
	switch req.Operation {
	case resource.OperationCreate:
		res = e.create(ctx, req)
	case resource.OperationRead:
		res = e.read(ctx, req.Desired)
	case resource.OperationUpdate:
		res = e.update(ctx, req)
	case resource.OperationDelete:
		res = e.delete(ctx, req)
	case resource.OperationList:
		res = e.list(ctx, req)
	default:
		res = e.fail(errkind.Invalid("unsupported operation %q", req.Operation))
	}
	res.Operation = req.Operation

	switch res.Status {
	case StatusSuccess:
		e.emit(ctx, req.Operation, identity, EventOperationCompleted, "operation completed", nil)
	case StatusFailed:
		if res.Err.Operation == "" {
			res.Err.Operation = req.Operation
		}
		if res.Err.TypeName == "" {
			res.Err.TypeName = e.adapter.TypeName
		}
		if res.Err.Identity == "" {
			res.Err.Identity = identity
		}
		e.recordError(string(res.Err.Kind))
		logger.Error(res.Err, "operation failed", "kind", string(res.Err.Kind))
		e.emit(ctx, req.Operation, identity, EventOperationFailed, res.Err.Error(), map[string]string{"kind": string(res.Err.Kind)})
	}

	e.recordOperation(string(req.Operation), string(res.Status), e.now().Sub(start).Seconds())
	return res
}

func (e *Engine[M]) success(m M) Result[M] {
	return Result[M]{Status: StatusSuccess, Model: m}
}

func (e *Engine[M]) fail(err *errkind.Error) Result[M] {
	return Result[M]{Status: StatusFailed, Kind: err.Kind, Err: err}
}

func (e *Engine[M]) inProgress(m M, progress *Progress, delay time.Duration, kind errkind.Kind) Result[M] {
	return Result[M]{
		Status:   StatusInProgress,
		Model:    m,
		Progress: progress,
		Delay:    delay,
		Kind:     kind,
	}
}

// classify maps a provider failure of op on m to a classified error.
func (e *Engine[M]) classify(op resource.Operation, m M, err error) *errkind.Error {
	return e.classifier.Classify(op, e.adapter.TypeName, e.adapter.Identify(m), err)
}

// failOrRetry turns a provider failure into a failed result, or into an
// in-progress result when the provider throttled the call. progress is kept
// as is so the same step is retried.
func (e *Engine[M]) failOrRetry(ctx context.Context, op resource.Operation, m M, progress *Progress, err error) Result[M] {
	classified := e.classify(op, m, err)
	if classified.Kind != errkind.Throttling {
		return e.fail(classified)
	}

	state := progress.backoff()
	if state.StartedAt.IsZero() {
		state = backoff.Start(e.now())
	}
	decision := e.policies.For(op).Next(state, e.now())
	if !decision.Continue {
		return e.fail(classified)
	}

	e.emit(ctx, op, e.adapter.Identify(m), EventThrottled, classified.Error(), nil)
	return e.inProgress(m, progress.advance(progress.stage(), state), decision.Delay, errkind.Throttling)
}

// stabilizeThen polls once and calls then when the resource is stable.
func (e *Engine[M]) stabilizeThen(ctx context.Context, op resource.Operation, m M, progress *Progress, then func(stabilize.Observation[M]) Result[M]) Result[M] {
	identity := e.adapter.Identify(m)
	probe := func(ctx context.Context) (stabilize.Observation[M], error) {
		return e.adapter.Describe(ctx, m)
	}

	out := e.stabilizer.Poll(ctx, op, identity, probe, progress.backoff())
	e.recordPoll(string(op), out.State.String())

	switch out.State {
	case stabilize.Probing:
		kind := errkind.Kind("")
		if out.Throttled {
			kind = errkind.Throttling
		}
		e.emit(ctx, op, identity, EventResourceStabilizing, "waiting for resource to stabilize", map[string]string{
			"status":  out.Observation.Status,
			"attempt": fmt.Sprint(out.Backoff.Attempt),
			"delay":   out.Delay.String(),
		})
		return e.inProgress(m, progress.advance(StageStabilize, out.Backoff), out.Delay, kind)
	case stabilize.Stable:
		e.emit(ctx, op, identity, EventResourceStable, "resource stable", map[string]string{"status": out.Observation.Status})
		return then(out.Observation)
	default:
		return e.fail(out.Err)
	}
}

func (e *Engine[M]) emit(ctx context.Context, op resource.Operation, identity string, t EventType, msg string, fields map[string]string) {
	e.sink.Emit(ctx, Event{
		Type:      t,
		TypeName:  e.adapter.TypeName,
		Identity:  identity,
		Operation: op,
		Message:   msg,
		Timestamp: e.now(),
		Fields:    fields,
	})
}
