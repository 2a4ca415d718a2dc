package expression

import "testing"

import "github.com/chewxy/math32"
import "github.com/google/go-cmp/cmp"
import "github.com/pkg/errors"

import "github.com/neurlang/micrograd/value"

func build(t *testing.T, src string, vars map[string]float32) *Graph {
	t.Helper()
	e, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	g, err := e.Build(vars)
	if err != nil {
		t.Fatalf("Build(%q): %v", src, err)
	}
	if err := g.Root.Backward(); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestArithmetic(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want float32
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"8 / 2 - 1", 3},
		{"-2 ** 2", -4},
		{"2 ^ 3", 8},
		{"4 ** -1", 0.25},
		{"sqrt(16)", 4},
		{"+3", 3},
		{"exp(0)", 1},
		{"tanh(0)", 0},
		{"let c = 2 + 1; c * c", 9},
	} {
		g := build(t, tc.src, nil)
		if math32.Abs(g.Root.Data()-tc.want) > 1e-6 {
			t.Errorf("%s = %g, want %g", tc.src, g.Root.Data(), tc.want)
		}
	}
}

func TestExample(t *testing.T) {
	g := build(t, "let c = a + b; c * 3 + b", map[string]float32{"a": -4, "b": 2})
	if g.Root.Data() != -4 {
		t.Errorf("root = %g, want -4", g.Root.Data())
	}
	if diff := cmp.Diff([]string{"a", "b"}, g.Names()); diff != "" {
		t.Errorf("Names() (-want +got):\n%s", diff)
	}
	if g.Vars["a"].Grad() != 3 || g.Vars["b"].Grad() != 4 {
		t.Errorf("grads a=%g b=%g, want 3 4", g.Vars["a"].Grad(), g.Vars["b"].Grad())
	}
}

func TestSharedVariable(t *testing.T) {
	g := build(t, "x * x + x", map[string]float32{"x": 3})
	if len(g.Vars) != 1 {
		t.Fatalf("Vars = %v, want one leaf", g.Vars)
	}
	if g.Vars["x"].Grad() != 7 {
		t.Errorf("d(x²+x)/dx = %g, want 7", g.Vars["x"].Grad())
	}
}

func TestLetShadowsVariable(t *testing.T) {
	g := build(t, "let x = y * 2; x + y", map[string]float32{"x": 100, "y": 1})
	if g.Root.Data() != 3 {
		t.Errorf("root = %g, want 3", g.Root.Data())
	}
	if _, ok := g.Vars["x"]; ok {
		t.Errorf("shadowed variable got a leaf")
	}
}

func TestTanh(t *testing.T) {
	g := build(t, "tanh(a + b)", map[string]float32{"a": -1, "b": -1})
	want := 1 - math32.Tanh(-2)*math32.Tanh(-2)
	if math32.Abs(g.Vars["a"].Grad()-want) > 1e-6 {
		t.Errorf("a.grad = %g, want %g", g.Vars["a"].Grad(), want)
	}
}

func TestPowExponentIsConstant(t *testing.T) {
	g := build(t, "a ** 3", map[string]float32{"a": 2})
	if g.Root.Op() != value.Pow || g.Root.Exponent() != 3 {
		t.Errorf("root = %v, want a**3", g.Root)
	}
	if g.Vars["a"].Grad() != 12 {
		t.Errorf("a.grad = %g, want 12", g.Vars["a"].Grad())
	}
}

func TestErrors(t *testing.T) {
	if _, err := Parse("1 +"); err == nil {
		t.Errorf("Parse accepted a dangling operator")
	}
	for src, want := range map[string]error{
		"a ** b":       ErrUnsupported,
		"a % 2":        ErrUnsupported,
		"abs(a)":       ErrUnsupported,
		"sin(a)":       ErrUnsupported,
		"tanh(a, a)":   ErrUnsupported,
		"'text'":       ErrUnsupported,
		"a > 1":        ErrUnsupported,
		"missing + 1":  ErrUnknownVariable,
		"let c = z; c": ErrUnknownVariable,
	} {
		_, err := MustParse(src).Build(map[string]float32{"a": 1, "b": 2})
		if !errors.Is(err, want) {
			t.Errorf("Build(%q) = %v, want %v", src, err, want)
		}
	}
}

func FuzzBuild(f *testing.F) {
	f.Add("let c = a + b; tanh(c * c) / 2")
	f.Add("exp(a) ** -1")
	f.Fuzz(func(t *testing.T, src string) {
		e, err := Parse(src)
		if err != nil {
			return
		}
		g, err := e.Build(map[string]float32{"a": 0.5, "b": -0.25})
		if err != nil {
			return
		}
		if err := g.Root.Backward(); err != nil {
			t.Errorf("Backward(%q): %v", src, err)
		}
	})
}
