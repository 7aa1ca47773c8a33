package resource

import (
	"fmt"
	"slices"
)

// Required returns an error when v is nil or empty.
func Required(field string, v *string) error {
	if v == nil || *v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// ReadOnly returns an error when a server assigned field is set by the
// caller.
func ReadOnly(field string, v *string) error {
	if v != nil {
		return fmt.Errorf("%s is read-only and cannot be set", field)
	}
	return nil
}

// Immutable returns an error when a create-only field changes. Both values
// are compared after merging, so nil and empty are the same.
func Immutable(field string, current, desired *string) error {
	if deref(current) != deref(desired) {
		return fmt.Errorf("%s cannot be changed from %q to %q", field, deref(current), deref(desired))
	}
	return nil
}

// ImmutableList is Immutable for string lists. Order is ignored.
func ImmutableList(field string, current, desired []string) error {
	a, b := slices.Clone(current), slices.Clone(desired)
	slices.Sort(a)
	slices.Sort(b)
	if !slices.Equal(a, b) {
		return fmt.Errorf("%s cannot be changed from %v to %v", field, current, desired)
	}
	return nil
}

// Inherit returns desired, or current when desired is nil.
func Inherit[T any](current, desired *T) *T {
	if desired == nil {
		return current
	}
	return desired
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
