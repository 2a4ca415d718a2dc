package value

import "github.com/chewxy/math32"

func newNode(data float32, op Op, operands ...*Value) *Value {
	return &Value{
		data:     data,
		op:       op,
		operands: operands,
	}
}

// Add returns v + other.
func (v *Value) Add(other *Value) *Value {
	return newNode(v.data+other.data, Add, v, other)
}

// Mul returns v * other.
func (v *Value) Mul(other *Value) *Value {
	return newNode(v.data*other.data, Mul, v, other)
}

// Pow returns v raised to the constant k. The exponent is not a node and
// receives no gradient. A negative base with a fractional k yields NaN.
func (v *Value) Pow(k float32) *Value {
	out := newNode(math32.Pow(v.data, k), Pow, v)
	out.exponent = k
	return out
}

// Tanh returns the hyperbolic tangent of v. It saturates to ±1 for large |v|.
func (v *Value) Tanh() *Value {
	return newNode(math32.Tanh(v.data), Tanh, v)
}

// Exp returns e raised to v. It overflows to +Inf above roughly 88.7.
func (v *Value) Exp() *Value {
	return newNode(math32.Exp(v.data), Exp, v)
}

// Neg returns -v, built as v * -1.
func (v *Value) Neg() *Value {
	return v.MulScalar(-1)
}

// Sub returns v - other, built as v + (-other).
func (v *Value) Sub(other *Value) *Value {
	return v.Add(other.Neg())
}

// Div returns v / other, built as v * other**-1.
func (v *Value) Div(other *Value) *Value {
	return v.Mul(other.Pow(-1))
}

// AddScalar returns v + c, wrapping c into a fresh leaf.
func (v *Value) AddScalar(c float32) *Value {
	return v.Add(New(c))
}

// MulScalar returns v * c, wrapping c into a fresh leaf.
func (v *Value) MulScalar(c float32) *Value {
	return v.Mul(New(c))
}

// SubScalar returns v - c, wrapping c into a fresh leaf.
func (v *Value) SubScalar(c float32) *Value {
	return v.Sub(New(c))
}

// DivScalar returns v / c, wrapping c into a fresh leaf.
func (v *Value) DivScalar(c float32) *Value {
	return v.Div(New(c))
}

// local returns the partial derivative of v with respect to its i-th operand.
func (v *Value) local(i int) float32 {
	switch v.op {
	case Add:
		return 1
	case Mul:
		return v.operands[1-i].data
	case Pow:
		return v.exponent * math32.Pow(v.operands[0].data, v.exponent-1)
	case Tanh:
		// data is tanh(a) already
		return 1 - v.data*v.data
	case Exp:
		return v.data
	}
	return 0
}
