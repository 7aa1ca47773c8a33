package resource

import "slices"

// Phase partitions the provider specific status values of a resource.
type Phase int

const (
	// PhaseUnknown is a status the adapter does not know about.
	PhaseUnknown Phase = iota
	// PhasePending means the resource is still transitioning.
	PhasePending
	// PhaseSuccess means the operation converged.
	PhaseSuccess
	// PhaseFailure means the operation failed for good.
	PhaseFailure
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSuccess:
		return "success"
	case PhaseFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// StatusSet groups the status values of one operation by phase.
type StatusSet struct {
	Success []string
	Failure []string
	Pending []string
}

// Phase returns the phase a status belongs to.
func (s StatusSet) Phase(status string) Phase {
	switch {
	case slices.Contains(s.Success, status):
		return PhaseSuccess
	case slices.Contains(s.Failure, status):
		return PhaseFailure
	case slices.Contains(s.Pending, status):
		return PhasePending
	default:
		return PhaseUnknown
	}
}

// StatusTable holds the status partition of every mutating operation of a
// resource type.
type StatusTable map[Operation]StatusSet

// Phase looks up the phase of status for op. Operations without an entry
// classify every status as unknown.
func (t StatusTable) Phase(op Operation, status string) Phase {
	set, ok := t[op]
	if !ok {
		return PhaseUnknown
	}
	return set.Phase(status)
}
