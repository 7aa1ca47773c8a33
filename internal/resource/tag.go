package resource

import "sort"

// Tag is a key/value label attached to a resource. Both fields are pointers
// so that a document with a missing key or value can be told apart from an
// empty string.
type Tag struct {
	Key   *string `json:"Key,omitempty"`
	Value *string `json:"Value,omitempty"`
}

// NewTag returns a tag with both fields set.
func NewTag(key, value string) Tag {
	return Tag{Key: &key, Value: &value}
}

// TagsFromMap converts a key/value map into a tag list sorted by key.
func TagsFromMap(m map[string]string) []Tag {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Tag, 0, len(m))
	for _, k := range keys {
		out = append(out, NewTag(k, m[k]))
	}
	return out
}
