package engine

import (
	"context"
	"maps"
	"sync"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/sagerec/internal/resource"
)

// EventType names a reconciliation event.
type EventType string

const (
	// EventOperationStarted is emitted when Handle starts an operation.
	EventOperationStarted EventType = "operation.started"
	// EventOperationCompleted is emitted on a terminal success.
	EventOperationCompleted EventType = "operation.completed"
	// EventOperationFailed is emitted on a terminal failure.
	EventOperationFailed EventType = "operation.failed"

	// EventResourceInvoked means the provider accepted a mutation.
	EventResourceInvoked EventType = "resource.invoked"
	// EventResourceStabilizing means the resource is still pending.
	EventResourceStabilizing EventType = "resource.stabilizing"
	// EventResourceStable means the resource reached its terminal state.
	EventResourceStable EventType = "resource.stable"
	// EventResourceGone means delete found nothing to delete.
	EventResourceGone EventType = "resource.gone"

	// EventThrottled means the provider rate limited a call.
	EventThrottled EventType = "provider.throttled"

	// EventTagsReconciled means tags were added or removed.
	EventTagsReconciled EventType = "tags.reconciled"
	// EventTagsUnchanged means the tag delta was empty and no call was made.
	EventTagsUnchanged EventType = "tags.unchanged"
)

// Event is a structured reconciliation event.
type Event struct {
	Type      EventType
	TypeName  string
	Identity  string
	Operation resource.Operation
	Message   string
	Timestamp time.Time
	Fields    map[string]string
}

// Sink receives engine events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NopSink drops every event.
type NopSink struct{}

// Emit implements Sink.
func (NopSink) Emit(context.Context, Event) {}

// LogSink writes events to the logger carried by the context.
type LogSink struct{}

// Emit implements Sink.
func (LogSink) Emit(ctx context.Context, event Event) {
	kv := []any{
		"event", string(event.Type),
		"type", event.TypeName,
		"operation", string(event.Operation),
	}
	if event.Identity != "" {
		kv = append(kv, "identity", event.Identity)
	}
	for k, v := range event.Fields {
		kv = append(kv, k, v)
	}
	log.FromContext(ctx).Info(event.Message, kv...)
}

// RecordingSink keeps every event in memory. Safe for concurrent use.
type RecordingSink struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements Sink.
func (s *RecordingSink) Emit(_ context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.Fields != nil {
		event.Fields = maps.Clone(event.Fields)
	}
	s.events = append(s.events, event)
}

// Events returns a copy of the recorded events.
func (s *RecordingSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// Types returns the recorded event types in order.
func (s *RecordingSink) Types() []EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}
