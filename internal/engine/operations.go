package engine

import (
	"context"
	"strconv"

	"github.com/imamik/sagerec/internal/errkind"
	"github.com/imamik/sagerec/internal/resource"
	"github.com/imamik/sagerec/internal/stabilize"
	"github.com/imamik/sagerec/internal/tags"
)

func (e *Engine[M]) create(ctx context.Context, req Request[M]) Result[M] {
	const op = resource.OperationCreate
	m, progress := req.Desired, req.Progress

	if progress.stage() == StageInvoke {
		if e.adapter.ValidateCreate != nil {
			if err := e.adapter.ValidateCreate(m); err != nil {
				return e.fail(e.invalid(op, m, err))
			}
		}
		if err := e.validateTags(m); err != nil {
			return e.fail(e.invalid(op, m, err))
		}

		if e.adapter.PrecheckCreate {
			_, err := e.adapter.Describe(ctx, m)
			switch {
			case err == nil:
				return e.fail(errkind.New(errkind.AlreadyExists, e.adapter.TypeName, e.adapter.Identify(m), ""))
			case !errkind.IsNotFound(e.classify(op, m, err)):
				return e.failOrRetry(ctx, op, m, progress, err)
			}
		}

		created, err := e.adapter.Create(ctx, m)
		if err != nil {
			return e.failOrRetry(ctx, op, m, progress, err)
		}
		m = created
		progress = &Progress{Stage: StageStabilize}
		e.emit(ctx, op, e.adapter.Identify(m), EventResourceInvoked, "create accepted", nil)
	}

	return e.stabilizeThen(ctx, op, m, progress, func(obs stabilize.Observation[M]) Result[M] {
		return e.observed(ctx, op, obs.Model, progress)
	})
}

// read describes m and returns the observed model with tags attached.
func (e *Engine[M]) read(ctx context.Context, m M) Result[M] {
	const op = resource.OperationRead

	obs, err := e.adapter.Describe(ctx, m)
	if err != nil {
		return e.failOrRetry(ctx, op, m, nil, err)
	}
	return e.observed(ctx, op, obs.Model, nil)
}

// observed attaches tags to an observed model and wraps it in a success.
func (e *Engine[M]) observed(ctx context.Context, op resource.Operation, m M, progress *Progress) Result[M] {
	if e.adapter.Tags == nil {
		return e.success(m)
	}

	current, err := e.adapter.Tags.API.ListTags(ctx, e.adapter.Tags.Target(m))
	if err != nil {
		return e.failOrRetry(ctx, op, m, progress, err)
	}
	return e.success(e.adapter.Tags.Attach(m, current))
}

func (e *Engine[M]) update(ctx context.Context, req Request[M]) Result[M] {
	const op = resource.OperationUpdate
	m, progress := req.Desired, req.Progress

	if progress.stage() == StageInvoke {
		current, err := e.adapter.Describe(ctx, m)
		if err != nil {
			return e.failOrRetry(ctx, op, m, progress, err)
		}
		want, manage, err := e.requestedTags(m)
		if err != nil {
			return e.fail(e.invalid(op, m, err))
		}

		if e.adapter.Merge != nil {
			m = e.adapter.Merge(current.Model, m)
		}
		if e.adapter.ValidateUpdate != nil {
			if err := e.adapter.ValidateUpdate(current.Model, m); err != nil {
				return e.fail(e.invalid(op, m, err))
			}
		}

		updated, err := e.adapter.Update(ctx, m)
		if err != nil {
			return e.failOrRetry(ctx, op, m, progress, err)
		}
		m = updated
		progress = &Progress{Stage: StageStabilize, ManageTags: manage, Tags: want}
		e.emit(ctx, op, e.adapter.Identify(m), EventResourceInvoked, "update accepted", nil)
	} else if !progress.ManageTags {
		// Progress from a caller that does not carry tags.
		want, manage, err := e.requestedTags(m)
		if err != nil {
			return e.fail(e.invalid(op, m, err))
		}
		progress = &Progress{Stage: progress.Stage, Backoff: progress.Backoff, ManageTags: manage, Tags: want}
	}

	return e.stabilizeThen(ctx, op, m, progress, func(obs stabilize.Observation[M]) Result[M] {
		if err := e.reconcileTags(ctx, m, progress, obs.Model); err != nil {
			return e.failOrRetry(ctx, op, m, progress, err)
		}
		final, err := e.adapter.Describe(ctx, m)
		if err != nil {
			return e.failOrRetry(ctx, op, m, progress, err)
		}
		return e.observed(ctx, op, final.Model, progress)
	})
}

func (e *Engine[M]) delete(ctx context.Context, req Request[M]) Result[M] {
	const op = resource.OperationDelete
	m, progress := req.Desired, req.Progress
	var zero M

	if progress.stage() == StageInvoke {
		identity := e.adapter.Identify(m)

		obs, err := e.adapter.Describe(ctx, m)
		if err != nil {
			if errkind.IsNotFound(e.classify(op, m, err)) {
				e.emit(ctx, op, identity, EventResourceGone, "resource already gone", nil)
				return e.success(zero)
			}
			return e.failOrRetry(ctx, op, m, progress, err)
		}

		// A delete already under way only needs polling.
		if e.adapter.Statuses.Phase(op, obs.Status) != resource.PhasePending {
			if _, err := e.adapter.Delete(ctx, m); err != nil {
				if errkind.IsNotFound(e.classify(op, m, err)) {
					e.emit(ctx, op, identity, EventResourceGone, "resource already gone", nil)
					return e.success(zero)
				}
				return e.failOrRetry(ctx, op, m, progress, err)
			}
			e.emit(ctx, op, identity, EventResourceInvoked, "delete accepted", nil)
		}
		progress = &Progress{Stage: StageStabilize}
	}

	return e.stabilizeThen(ctx, op, m, progress, func(stabilize.Observation[M]) Result[M] {
		return e.success(zero)
	})
}

func (e *Engine[M]) list(ctx context.Context, req Request[M]) Result[M] {
	items, next, err := e.adapter.List(ctx, req.Desired, req.NextToken)
	if err != nil {
		return e.failOrRetry(ctx, resource.OperationList, req.Desired, nil, err)
	}
	return Result[M]{Status: StatusSuccess, Models: items, NextToken: next}
}

// invalid classifies a caller input error. Validators may return plain
// errors, those always become InvalidRequest.
func (e *Engine[M]) invalid(op resource.Operation, m M, err error) *errkind.Error {
	if _, ok := errkind.As(err); !ok {
		invalid := errkind.Invalid("%v", err)
		invalid.Err = err
		err = invalid
	}
	return e.classify(op, m, err)
}

func (e *Engine[M]) validateTags(m M) error {
	if e.adapter.Tags == nil {
		return nil
	}
	_, err := tags.Validate(e.adapter.Tags.Desired(m))
	return err
}

// requestedTags validates the tags requested in m. manage is false when m
// omits tags, which leaves the live tags alone.
func (e *Engine[M]) requestedTags(m M) (want map[string]string, manage bool, err error) {
	if e.adapter.Tags == nil {
		return nil, false, nil
	}
	requested := e.adapter.Tags.Desired(m)
	if requested == nil {
		return nil, false, nil
	}
	want, err = tags.Validate(requested)
	if err != nil {
		return nil, false, err
	}
	return want, true, nil
}

// reconcileTags brings the live tags of observed in line with the tag set
// carried by progress. Identical sets cause no provider call at all.
func (e *Engine[M]) reconcileTags(ctx context.Context, desired M, progress *Progress, observed M) error {
	support := e.adapter.Tags
	if support == nil || !progress.ManageTags {
		return nil
	}
	want := progress.Tags
	if want == nil {
		want = map[string]string{}
	}

	target := support.Target(observed)
	current, err := support.API.ListTags(ctx, target)
	if err != nil {
		return err
	}

	delta := tags.Diff(current, want)
	identity := e.adapter.Identify(desired)
	if delta.Empty() {
		e.emit(ctx, resource.OperationUpdate, identity, EventTagsUnchanged, "tags up to date", nil)
		return nil
	}

	if len(delta.ToAdd) > 0 {
		if err := support.API.AddTags(ctx, target, delta.ToAdd); err != nil {
			return err
		}
	}
	if len(delta.ToRemove) > 0 {
		if err := support.API.RemoveTags(ctx, target, delta.ToRemove); err != nil {
			return err
		}
	}

	e.emit(ctx, resource.OperationUpdate, identity, EventTagsReconciled, "tags reconciled", map[string]string{
		"added":   strconv.Itoa(len(delta.ToAdd)),
		"removed": strconv.Itoa(len(delta.ToRemove)),
	})
	return nil
}
