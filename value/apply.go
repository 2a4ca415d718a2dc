package value

import "github.com/pkg/errors"

// Apply builds the node op(operands...). Add and Mul take two operands, Tanh
// and Exp take one. Pow takes the base and a second node whose data is read
// as the constant exponent; that node is not linked into the graph and never
// receives gradient.
func Apply(op Op, operands ...*Value) (*Value, error) {
	for i, o := range operands {
		if o == nil {
			return nil, errors.Wrapf(ErrInvalidOperation, "%s: operand %d is nil", op, i)
		}
	}
	want := op.arity()
	if op == Pow {
		want = 2
	}
	if want == 0 {
		return nil, errors.Wrapf(ErrInvalidOperation, "%s cannot be applied", op)
	}
	if len(operands) != want {
		return nil, errors.Wrapf(ErrInvalidOperation, "%s takes %d operands, got %d", op, want, len(operands))
	}
	switch op {
	case Add:
		return operands[0].Add(operands[1]), nil
	case Mul:
		return operands[0].Mul(operands[1]), nil
	case Pow:
		return operands[0].Pow(operands[1].data), nil
	case Tanh:
		return operands[0].Tanh(), nil
	case Exp:
		return operands[0].Exp(), nil
	}
	return nil, errors.Wrapf(ErrInvalidOperation, "unknown op %s", op)
}
