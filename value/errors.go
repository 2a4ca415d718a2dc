package value

import "github.com/pkg/errors"

var (
	// ErrCycle is reported when a node is reachable from itself.
	ErrCycle = errors.New("value: graph contains a cycle")

	// ErrNilOperand is reported for a nil root or a nil operand reference.
	ErrNilOperand = errors.New("value: nil operand")

	// ErrMalformed is reported when a node's operand count contradicts its op.
	ErrMalformed = errors.New("value: operand count does not match op")

	// ErrInvalidOperation is returned by Apply for an op it cannot build.
	ErrInvalidOperation = errors.New("value: invalid operation")
)

// StructuralError is a malformed or cyclic graph found while traversing it.
// No gradient has been modified when it is returned.
type StructuralError struct {
	// Node is where the problem was detected, nil for a nil root.
	Node *Value
	Err  error
}

func (e *StructuralError) Error() string {
	if e.Node == nil {
		return e.Err.Error()
	}
	return e.Err.Error() + " (at " + e.Node.op.String() + " node)"
}

// Unwrap returns the underlying sentinel error.
func (e *StructuralError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying sentinel error for errors.Cause.
func (e *StructuralError) Cause() error {
	return e.Err
}
