package tags

import (
	"fmt"
	"maps"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/imamik/sagerec/internal/errkind"
	"github.com/imamik/sagerec/internal/resource"
)

// Delta is the change needed to move from a previous tag set to a desired
// one. A key never appears in both ToAdd and ToRemove.
type Delta struct {
	ToAdd    map[string]string
	ToRemove []string
}

// Empty reports whether no provider call is needed.
func (d Delta) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// Apply returns previous with the delta applied. previous is not modified.
func (d Delta) Apply(previous map[string]string) map[string]string {
	out := make(map[string]string, len(previous)+len(d.ToAdd))
	maps.Copy(out, previous)
	for _, k := range d.ToRemove {
		delete(out, k)
	}
	maps.Copy(out, d.ToAdd)
	return out
}

// Diff computes the delta from previous to desired. Keys whose value changed
// are re-added with the new value rather than removed, since adding a tag
// overwrites its value.
func Diff(previous, desired map[string]string) Delta {
	delta := Delta{ToAdd: map[string]string{}}

	for k, v := range desired {
		if old, ok := previous[k]; !ok || old != v {
			delta.ToAdd[k] = v
		}
	}

	removed := sets.KeySet(previous).Difference(sets.KeySet(desired))
	delta.ToRemove = sets.List(removed)

	return delta
}

// Validate converts a tag document into a map. Tags with a missing key or
// value and duplicate keys are rejected as InvalidRequest.
func Validate(tags []resource.Tag) (map[string]string, error) {
	out := make(map[string]string, len(tags))
	seen := sets.New[string]()
	var errs []error

	for i, tag := range tags {
		if tag.Key == nil {
			errs = append(errs, fmt.Errorf("tag %d: key is required", i))
			continue
		}
		if tag.Value == nil {
			errs = append(errs, fmt.Errorf("tag %q: value is required", *tag.Key))
			continue
		}
		if seen.Has(*tag.Key) {
			errs = append(errs, fmt.Errorf("tag %q: duplicate key", *tag.Key))
			continue
		}
		seen.Insert(*tag.Key)
		out[*tag.Key] = *tag.Value
	}

	if agg := utilerrors.NewAggregate(errs); agg != nil {
		invalid := errkind.Invalid("invalid tags: %v", agg)
		invalid.Err = agg
		return nil, invalid
	}
	return out, nil
}
