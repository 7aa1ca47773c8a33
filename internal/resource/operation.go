package resource

import (
	"fmt"
	"strings"
)

// Operation is one of the lifecycle operations the engine handles.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationRead   Operation = "read"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationList   Operation = "list"
)

// Operations lists every supported operation in lifecycle order.
var Operations = []Operation{
	OperationCreate,
	OperationRead,
	OperationUpdate,
	OperationDelete,
	OperationList,
}

// ParseOperation converts a user supplied string into an Operation.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Operations {
		if op == known {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q", s)
}

// Mutating reports whether the operation changes provider state and
// therefore needs stabilization.
func (o Operation) Mutating() bool {
	return o == OperationCreate || o == OperationUpdate || o == OperationDelete
}

func (o Operation) String() string {
	return string(o)
}
