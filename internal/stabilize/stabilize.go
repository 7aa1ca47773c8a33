package stabilize

import (
	"context"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/sagerec/internal/backoff"
	"github.com/imamik/sagerec/internal/errkind"
	"github.com/imamik/sagerec/internal/resource"
)

// State is the state of one stabilization poll.
type State int

const (
	// Probing means the resource is still pending and should be polled again.
	Probing State = iota
	// Stable means the operation converged.
	Stable
	// Failed means the resource reached a failure status or the probe failed
	// with a non retryable error.
	Failed
	// TimedOut means the backoff policy gave up.
	TimedOut
)

func (s State) String() string {
	switch s {
	case Probing:
		return "Probing"
	case Stable:
		return "Stable"
	case Failed:
		return "Failed"
	case TimedOut:
		return "TimedOut"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Observation is what a probe saw.
type Observation[M any] struct {
	Model  M
	Status string
}

// Probe describes the resource. A missing resource is reported as an error
// that classifies as NotFound.
type Probe[M any] func(ctx context.Context) (Observation[M], error)

// Outcome is the result of one poll.
type Outcome[M any] struct {
	State       State
	Observation Observation[M]
	// Backoff is the state to pass to the next poll.
	Backoff backoff.State
	// Delay is how long the caller should wait before polling again. Only
	// meaningful while Probing.
	Delay time.Duration
	// Throttled is set when the probe was rate limited rather than pending.
	Throttled bool
	// Err is set for Failed and TimedOut.
	Err *errkind.Error
}

// Done reports whether no further polling is needed.
func (o Outcome[M]) Done() bool {
	return o.State != Probing
}

// Stabilizer evaluates probes of one resource type.
type Stabilizer[M any] struct {
	TypeName   string
	Statuses   resource.StatusTable
	Policies   backoff.Policies
	Classifier *errkind.Classifier
	Now        func() time.Time
}

func (s *Stabilizer[M]) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Poll probes once and decides what happens next. state is the backoff
// state returned by the previous poll, or the zero value on the first one.
func (s *Stabilizer[M]) Poll(ctx context.Context, op resource.Operation, identity string, probe Probe[M], state backoff.State) Outcome[M] {
	logger := log.FromContext(ctx).WithValues("type", s.TypeName, "identity", identity, "operation", op)

	now := s.now()
	if state.StartedAt.IsZero() {
		state = backoff.Start(now)
	}
	state = state.Next()

	obs, err := probe(ctx)
	if err != nil {
		return s.probeFailed(ctx, op, identity, state, now, err)
	}

	phase := s.Statuses.Phase(op, obs.Status)
	logger.V(1).Info("polled resource", "status", obs.Status, "phase", phase.String(), "attempt", state.Attempt)

	switch phase {
	case resource.PhaseSuccess:
		return Outcome[M]{State: Stable, Observation: obs, Backoff: state}
	case resource.PhaseFailure:
		return Outcome[M]{
			State:       Failed,
			Observation: obs,
			Backoff:     state,
			Err:         errkind.NotStable(s.TypeName, identity, fmt.Sprintf("resource reached status %s", obs.Status)),
		}
	case resource.PhasePending:
		return s.pending(op, identity, obs, state, now, false)
	default:
		unexpected := errkind.New(errkind.GeneralService, s.TypeName, identity, fmt.Sprintf("unexpected status %q", obs.Status))
		unexpected.Operation = op
		return Outcome[M]{State: Failed, Observation: obs, Backoff: state, Err: unexpected}
	}
}

func (s *Stabilizer[M]) probeFailed(ctx context.Context, op resource.Operation, identity string, state backoff.State, now time.Time, err error) Outcome[M] {
	classified := s.Classifier.Classify(op, s.TypeName, identity, err)

	switch {
	case op == resource.OperationDelete && classified.Kind == errkind.NotFound:
		log.FromContext(ctx).V(1).Info("resource gone", "type", s.TypeName, "identity", identity)
		return Outcome[M]{State: Stable, Backoff: state}
	case classified.Kind == errkind.Throttling:
		return s.pending(op, identity, Observation[M]{}, state, now, true)
	default:
		return Outcome[M]{State: Failed, Backoff: state, Err: classified}
	}
}

func (s *Stabilizer[M]) pending(op resource.Operation, identity string, obs Observation[M], state backoff.State, now time.Time, throttled bool) Outcome[M] {
	decision := s.Policies.For(op).Next(state, now)
	if !decision.Continue {
		return Outcome[M]{
			State:       TimedOut,
			Observation: obs,
			Backoff:     state,
			Throttled:   throttled,
			Err: errkind.NotStable(s.TypeName, identity,
				fmt.Sprintf("timed out after %s waiting for %s", state.Elapsed(now).Round(time.Second), op)),
		}
	}
	return Outcome[M]{
		State:       Probing,
		Observation: obs,
		Backoff:     state,
		Delay:       decision.Delay,
		Throttled:   throttled,
	}
}
