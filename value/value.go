// Package value implements a scalar reverse-mode automatic differentiation engine.
//
// A Value is a node of a computational graph. Operators build new nodes eagerly,
// storing shared references to their operands, so a node consumed twice (x*x)
// becomes a diamond in the graph rather than a copy. Backward propagates
// gradients from a root to every reachable node in reverse topological order.
//
// The engine is single threaded. Separate graphs may be used from separate
// goroutines as long as they share no nodes.
package value

import "fmt"

import "github.com/chewxy/math32"

// Value is a node of the computational graph: a float32 scalar plus the
// gradient of the last differentiated root with respect to it.
type Value struct {
	data     float32
	grad     float32
	op       Op
	operands []*Value

	// exponent is the constant k of a Pow node
	exponent float32
}

// New creates a leaf node holding data.
func New(data float32) *Value {
	return &Value{data: data}
}

// Data returns the forward value computed at construction.
func (v *Value) Data() float32 {
	return v.data
}

// Grad returns the accumulated gradient. It reads 0 before any backward pass.
func (v *Value) Grad() float32 {
	return v.grad
}

// Op returns the operation which produced v.
func (v *Value) Op() Op {
	return v.op
}

// Operands returns the nodes consumed to produce v, in order.
// The returned slice is a copy, the nodes themselves are shared.
func (v *Value) Operands() []*Value {
	if len(v.operands) == 0 {
		return nil
	}
	return append([]*Value(nil), v.operands...)
}

// Exponent returns the constant exponent of a Pow node, 0 for other nodes.
func (v *Value) Exponent() float32 {
	return v.exponent
}

// Finite reports whether both data and grad are neither NaN nor infinite.
// NaN and Inf propagate through operators and Backward unchecked.
func (v *Value) Finite() bool {
	return finite(v.data) && finite(v.grad)
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// String formats the node for debugging.
func (v *Value) String() string {
	if v.op == Pow {
		return fmt.Sprintf("Value(data=%g, grad=%g, op=%s%g)", v.data, v.grad, v.op, v.exponent)
	}
	return fmt.Sprintf("Value(data=%g, grad=%g, op=%s)", v.data, v.grad, v.op)
}
