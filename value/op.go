package value

import "strconv"

// Op identifies the operation which produced a node
type Op uint8

const (
	// Leaf is a node created directly from a scalar
	Leaf Op = iota
	Add
	Mul
	// Pow raises its single operand to a constant exponent
	Pow
	Tanh
	Exp
)

var opNames = [...]string{
	Leaf: "leaf",
	Add:  "+",
	Mul:  "*",
	Pow:  "**",
	Tanh: "tanh",
	Exp:  "exp",
}

// String returns the symbol of the operation
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// arity reports the number of operand nodes stored on a node produced by o
func (o Op) arity() int {
	switch o {
	case Add, Mul:
		return 2
	case Pow, Tanh, Exp:
		return 1
	}
	return 0
}
