package gradcheck

import "math"

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/diff/fd"
import "gonum.org/v1/gonum/floats/scalar"

// Tolerance is how far an engine gradient may stray from the numeric one.
// A gradient passes when it is within Abs or within Rel of it.
type Tolerance struct {
	Abs float64
	Rel float64
}

// DefaultTolerance suits float32 engine arithmetic checked against float64
// central differences.
var DefaultTolerance = Tolerance{Abs: 1e-3, Rel: 1e-2}

// Result is the outcome of checking one program at one point
type Result struct {
	// Value is the engine's root value
	Value float32
	// Grads are the engine gradients of the leaves
	Grads []float32
	// Numeric are the finite difference gradients of the leaves
	Numeric []float64
	// Bad lists the leaves whose gradients disagree
	Bad       []int
	MaxAbsErr float64
}

// OK reports whether every leaf gradient agreed
func (r Result) OK() bool {
	return len(r.Bad) == 0
}

// Check differentiates p at x with the engine and compares each leaf gradient
// with the central difference gradient of p.Eval.
func Check(p Program, x []float32, tol Tolerance) (res Result, err error) {
	root, leaves, err := p.Build(x)
	if err != nil {
		return res, err
	}
	if err = root.Backward(); err != nil {
		return res, errors.Wrap(err, "gradcheck: backward")
	}
	x64 := make([]float64, len(x))
	for i := range x {
		x64[i] = float64(x[i])
	}
	res.Value = root.Data()
	res.Numeric = fd.Gradient(nil, p.Eval, x64, &fd.Settings{Formula: fd.Central})
	res.Grads = make([]float32, len(leaves))
	for i, leaf := range leaves {
		res.Grads[i] = leaf.Grad()
		got, want := float64(res.Grads[i]), res.Numeric[i]
		res.MaxAbsErr = math.Max(res.MaxAbsErr, math.Abs(got-want))
		if !scalar.EqualWithinAbsOrRel(got, want, tol.Abs, tol.Rel) {
			res.Bad = append(res.Bad, i)
		}
	}
	return res, nil
}
