package engine

import (
	"time"

	"github.com/imamik/sagerec/internal/backoff"
	"github.com/imamik/sagerec/internal/errkind"
	"github.com/imamik/sagerec/internal/resource"
)

// Status is the outcome of one Handle call.
type Status string

const (
	StatusSuccess    Status = "SUCCESS"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFailed     Status = "FAILED"
)

// Stage records how far a mutating operation got.
type Stage string

const (
	// StageInvoke means the provider mutation has not been issued yet.
	StageInvoke Stage = ""
	// StageStabilize means the mutation was accepted and only polling remains.
	StageStabilize Stage = "stabilize"
)

// Progress is the callback state the caller persists between invocations.
type Progress struct {
	Stage   Stage         `json:"stage,omitempty"`
	Backoff backoff.State `json:"backoff"`
	// ManageTags is set when an update requested a tag set. Tags then holds
	// it, and an empty Tags removes every tag.
	ManageTags bool              `json:"manageTags,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
}

// advance returns the progress of the next call at stage with state,
// keeping the requested tags.
func (p *Progress) advance(stage Stage, state backoff.State) *Progress {
	next := &Progress{Stage: stage, Backoff: state}
	if p != nil {
		next.ManageTags = p.ManageTags
		next.Tags = p.Tags
	}
	return next
}

func (p *Progress) stage() Stage {
	if p == nil {
		return StageInvoke
	}
	return p.Stage
}

func (p *Progress) backoff() backoff.State {
	if p == nil {
		return backoff.State{}
	}
	return p.Backoff
}

// Request is one engine invocation.
type Request[M any] struct {
	Operation resource.Operation
	// Desired is the desired state, or the model returned by the previous
	// InProgress result when resuming.
	Desired M
	// NextToken continues a list.
	NextToken string
	// Progress is nil on the first call of an operation.
	Progress *Progress
}

// Result is the outcome of one invocation.
type Result[M any] struct {
	Status    Status
	Operation resource.Operation
	// Model is the observed state on success, or the model to send back on
	// the next call while in progress. Zero for delete and list.
	Model M
	// Models and NextToken carry a list page.
	Models    []M
	NextToken string
	// Delay and Progress are set while in progress.
	Delay    time.Duration
	Progress *Progress
	// Kind is the failure kind, or Throttling for a throttled in-progress
	// result.
	Kind errkind.Kind
	Err  *errkind.Error
}

// DelaySeconds returns the delay hint in whole seconds.
func (r Result[M]) DelaySeconds() int {
	return int(r.Delay / time.Second)
}

// Message returns the human readable failure message, if any.
func (r Result[M]) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Done reports whether the operation reached a terminal result.
func (r Result[M]) Done() bool {
	return r.Status != StatusInProgress
}
