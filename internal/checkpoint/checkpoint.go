// Package checkpoint persists the callback state of an unfinished engine
// operation so an interrupted run resumes polling instead of issuing the
// mutation again.
package checkpoint

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/imamik/sagerec/internal/engine"
	"github.com/imamik/sagerec/internal/resource"
)

const suffix = ".json"

// Checkpoint is the state handed back to the engine on the next invocation.
type Checkpoint struct {
	RunID     string             `json:"runId"`
	Operation resource.Operation `json:"operation"`
	TypeName  string             `json:"typeName"`
	// Model is the model returned by the last in-progress result.
	Model       json.RawMessage  `json:"model,omitempty"`
	Progress    *engine.Progress `json:"progress,omitempty"`
	Invocations int              `json:"invocations"`
	SavedAt     time.Time        `json:"savedAt"`
}

// Store persists checkpoints by key.
type Store interface {
	// Save writes cp under key, replacing any previous checkpoint.
	Save(ctx context.Context, key string, cp *Checkpoint) error
	// Load returns the checkpoint under key, or nil when there is none.
	Load(ctx context.Context, key string) (*Checkpoint, error)
	// Clear removes the checkpoint under key. Clearing a missing key is not
	// an error.
	Clear(ctx context.Context, key string) error
	// List returns the keys of all stored checkpoints, sorted.
	List(ctx context.Context) ([]string, error)
}

// Key derives the checkpoint key of an operation on a desired-state
// document. The same document always maps to the same key.
func Key(typeName string, op resource.Operation, document []byte) string {
	h := blake3.New()
	_, _ = h.Write([]byte(typeName))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(op))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(document)
	sum := h.Sum(nil)

	return fmt.Sprintf("%s-%s-%s", strings.ReplaceAll(typeName, "::", "-"), op, hex.EncodeToString(sum[:8]))
}

func encode(cp *Checkpoint) ([]byte, error) {
	data, err := json.Marshal(cp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	return data, nil
}

func decode(key string, data []byte) (*Checkpoint, error) {
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint %s: %w", key, err)
	}
	return &cp, nil
}
