// Package gradcheck verifies engine gradients against central finite
// differences of an independent float64 evaluation.
package gradcheck

import "math"
import "math/rand"

import "github.com/pkg/errors"

import "github.com/neurlang/micrograd/value"

// Instr computes one slot from earlier slots. B is used by Add and Mul, K is
// the exponent of Pow.
type Instr struct {
	Op   value.Op
	A, B int
	K    float32
}

// Program is a straight-line recipe over Leaves input slots. Instruction i
// writes slot Leaves+i; the last slot is the root.
type Program struct {
	Leaves int
	Instrs []Instr
}

// Len returns the number of slots
func (p Program) Len() int {
	return p.Leaves + len(p.Instrs)
}

// Validate checks that every instruction reads earlier slots only
func (p Program) Validate() error {
	if p.Leaves <= 0 {
		return errors.Errorf("gradcheck: program has %d leaves", p.Leaves)
	}
	for i, in := range p.Instrs {
		slot := p.Leaves + i
		if in.A < 0 || in.A >= slot {
			return errors.Errorf("gradcheck: instruction %d reads slot %d", i, in.A)
		}
		if (in.Op == value.Add || in.Op == value.Mul) && (in.B < 0 || in.B >= slot) {
			return errors.Errorf("gradcheck: instruction %d reads slot %d", i, in.B)
		}
	}
	return nil
}

// Build creates the engine graph for inputs x and returns the root along with
// the leaves, in slot order.
func (p Program) Build(x []float32) (root *value.Value, leaves []*value.Value, err error) {
	if len(x) != p.Leaves {
		return nil, nil, errors.Errorf("gradcheck: %d inputs for %d leaves", len(x), p.Leaves)
	}
	if err = p.Validate(); err != nil {
		return nil, nil, err
	}
	slots := make([]*value.Value, 0, p.Len())
	for _, v := range x {
		slots = append(slots, value.New(v))
	}
	leaves = slots[:p.Leaves:p.Leaves]
	for i, in := range p.Instrs {
		var operands []*value.Value
		switch in.Op {
		case value.Add, value.Mul:
			operands = []*value.Value{slots[in.A], slots[in.B]}
		case value.Pow:
			operands = []*value.Value{slots[in.A], value.New(in.K)}
		default:
			operands = []*value.Value{slots[in.A]}
		}
		v, err := value.Apply(in.Op, operands...)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "gradcheck: instruction %d", i)
		}
		slots = append(slots, v)
	}
	return slots[len(slots)-1], leaves, nil
}

// Eval evaluates the program in float64 without the engine.
func (p Program) Eval(x []float64) float64 {
	slots := make([]float64, 0, p.Len())
	slots = append(slots, x[:p.Leaves]...)
	for _, in := range p.Instrs {
		slots = append(slots, step(in, slots))
	}
	return slots[len(slots)-1]
}

func step(in Instr, slots []float64) float64 {
	a := slots[in.A]
	switch in.Op {
	case value.Add:
		return a + slots[in.B]
	case value.Mul:
		return a * slots[in.B]
	case value.Pow:
		return math.Pow(a, float64(in.K))
	case value.Tanh:
		return math.Tanh(a)
	case value.Exp:
		return math.Exp(a)
	}
	return math.NaN()
}

// limit bounds intermediate magnitudes in random programs
const limit = 8

var ops = [...]value.Op{value.Add, value.Mul, value.Pow, value.Tanh, value.Exp}

// pick favours the most recent slots so that random programs are deep and
// reuse sub-expressions
func pick(rng *rand.Rand, n int) int {
	if n > 4 && rng.Intn(3) != 0 {
		return n - 1 - rng.Intn(4)
	}
	return rng.Intn(n)
}

// Random generates a program of the given size together with an input point.
// Inputs are drawn from [-1.5, 1.5]. Instructions are chosen so that every
// intermediate value stays finite, moderately sized, and away from the
// singular points of Pow.
func Random(rng *rand.Rand, leaves, steps int) (Program, []float32) {
	p := Program{Leaves: leaves, Instrs: make([]Instr, 0, steps)}
	x := make([]float32, leaves)
	vals := make([]float64, leaves, leaves+steps)
	for i := range x {
		x[i] = rng.Float32()*3 - 1.5
		vals[i] = float64(x[i])
	}
	for len(p.Instrs) < steps {
		n := len(vals)
		in := Instr{Op: ops[rng.Intn(len(ops))], A: pick(rng, n), B: pick(rng, n)}
		a := vals[in.A]
		switch in.Op {
		case value.Pow:
			ks := []float32{2, 3}
			if math.Abs(a) >= 0.5 {
				ks = append(ks, -1)
			}
			if a >= 0.25 {
				ks = append(ks, 0.5)
			}
			in.K = ks[rng.Intn(len(ks))]
		case value.Exp:
			if math.Abs(a) > 2 {
				in.Op = value.Tanh
			}
		}
		if in.Op != value.Add && in.Op != value.Mul {
			in.B = 0
		}
		v := step(in, vals)
		if math.Abs(v) > limit {
			in = Instr{Op: value.Tanh, A: in.A}
			v = math.Tanh(a)
		}
		p.Instrs = append(p.Instrs, in)
		vals = append(vals, v)
	}
	return p, x
}
