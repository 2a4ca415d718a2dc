package value

import "testing"

import "github.com/pkg/errors"

// naiveBackward pushes a node's gradient to its operands as soon as it is
// visited, before every consumer of an operand has contributed.
func naiveBackward(v *Value) {
	for j, o := range v.operands {
		o.grad += v.grad * v.local(j)
		naiveBackward(o)
	}
}

func TestNaiveRecursionFailsOnDiamond(t *testing.T) {
	a, b := New(3), New(-1.5)
	c := a.Add(b)
	y := c.Mul(c)
	y.grad = 1
	naiveBackward(y)
	want := 2 * (a.Data() + b.Data())
	if a.Grad() == want {
		t.Fatalf("naive recursion produced the correct gradient %g, the diamond test is too weak", want)
	}

	a2, b2 := New(3), New(-1.5)
	c2 := a2.Add(b2)
	if err := c2.Mul(c2).Backward(); err != nil {
		t.Fatal(err)
	}
	if a2.Grad() != want {
		t.Errorf("Backward: a.Grad() = %g, want %g", a2.Grad(), want)
	}
}

func TestTopoOrder(t *testing.T) {
	a, b := New(1), New(2)
	c := a.Add(b)
	d := c.Mul(a)
	s := d.Add(c)
	e := s.Tanh()
	order, err := Topo(e)
	if err != nil {
		t.Fatal(err)
	}
	// a and c are each reached along two paths but listed once
	want := map[*Value]bool{a: true, b: true, c: true, d: true, s: true, e: true}
	if len(order) != len(want) {
		t.Fatalf("len(Topo) = %d, want %d distinct nodes", len(order), len(want))
	}
	if order[len(order)-1] != e {
		t.Errorf("root is not last")
	}
	pos := make(map[*Value]int)
	for i, v := range order {
		if !want[v] {
			t.Errorf("unexpected node %v", v)
		}
		if _, dup := pos[v]; dup {
			t.Fatalf("node %v listed twice", v)
		}
		pos[v] = i
	}
	for _, v := range order {
		for _, o := range v.operands {
			if pos[o] >= pos[v] {
				t.Errorf("operand %v does not precede %v", o, v)
			}
		}
	}
}

func TestCycleIsStructuralError(t *testing.T) {
	a := New(1)
	b := a.Add(New(2))
	c := b.Tanh()
	// only reachable by editing a node in place
	a.op, a.operands = Tanh, []*Value{c}

	err := c.Backward()
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Backward() = %v, want ErrCycle", err)
	}
	var se *StructuralError
	if !errors.As(err, &se) || se.Node == nil {
		t.Fatalf("Backward() error %T does not carry the node", err)
	}
	for _, v := range []*Value{a, b, c} {
		if v.grad != 0 {
			t.Errorf("gradient modified on failed pass: %v", v)
		}
	}
	if err := c.ZeroGrad(); !errors.Is(err, ErrCycle) {
		t.Errorf("ZeroGrad() = %v, want ErrCycle", err)
	}
	if _, err := Topo(c); !errors.Is(err, ErrCycle) {
		t.Errorf("Topo() = %v, want ErrCycle", err)
	}
}

func TestSelfLoop(t *testing.T) {
	a := New(1)
	a.op, a.operands = Exp, []*Value{a}
	if err := a.Backward(); !errors.Is(err, ErrCycle) {
		t.Errorf("Backward() = %v, want ErrCycle", err)
	}
}

func TestNilAndMalformed(t *testing.T) {
	var root *Value
	if err := root.Backward(); !errors.Is(err, ErrNilOperand) {
		t.Errorf("nil root: %v", err)
	}
	a := New(1)
	b := a.Mul(New(2))
	b.operands[1] = nil
	if err := b.Backward(); !errors.Is(err, ErrNilOperand) {
		t.Errorf("nil operand: %v", err)
	}
	c := New(1).Exp()
	c.operands = append(c.operands, New(2))
	if err := c.Backward(); !errors.Is(err, ErrMalformed) {
		t.Errorf("two operands on exp: %v", err)
	}
}

func TestDeepChain(t *testing.T) {
	const n = 200000
	x := New(0.5)
	y := x
	for i := 0; i < n; i++ {
		y = y.AddScalar(0)
	}
	if err := y.Backward(); err != nil {
		t.Fatal(err)
	}
	if x.Grad() != 1 {
		t.Errorf("x.Grad() = %g, want 1", x.Grad())
	}
}

func TestApply(t *testing.T) {
	a, b := New(2), New(5)
	for _, tc := range []struct {
		op   Op
		args []*Value
		want float32
	}{
		{Add, []*Value{a, b}, 7},
		{Mul, []*Value{a, b}, 10},
		{Pow, []*Value{a, b}, 32},
		{Tanh, []*Value{New(0)}, 0},
		{Exp, []*Value{New(0)}, 1},
	} {
		v, err := Apply(tc.op, tc.args...)
		if err != nil {
			t.Errorf("Apply(%s): %v", tc.op, err)
			continue
		}
		if v.Op() != tc.op || v.Data() != tc.want {
			t.Errorf("Apply(%s) = %v, want data %g", tc.op, v, tc.want)
		}
	}
}

func TestApplyErrors(t *testing.T) {
	a := New(1)
	for _, tc := range []struct {
		op   Op
		args []*Value
	}{
		{Leaf, nil},
		{Leaf, []*Value{a}},
		{Add, []*Value{a}},
		{Mul, []*Value{a, a, a}},
		{Pow, []*Value{a}},
		{Tanh, []*Value{a, a}},
		{Exp, []*Value{nil}},
		{Op(42), []*Value{a}},
	} {
		if _, err := Apply(tc.op, tc.args...); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("Apply(%s, %d operands) = %v, want ErrInvalidOperation", tc.op, len(tc.args), err)
		}
	}
}

func BenchmarkBackward(b *testing.B) {
	x := New(0.1)
	y := x
	for i := 0; i < 1000; i++ {
		y = y.Mul(x).Add(x).Tanh()
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := y.ZeroGrad(); err != nil {
			b.Fatal(err)
		}
		if err := y.Backward(); err != nil {
			b.Fatal(err)
		}
	}
}
