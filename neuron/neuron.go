// Package neuron implements a tanh neuron built from engine operations
package neuron

import "math/rand"

import "github.com/pkg/errors"

import "github.com/neurlang/micrograd/value"

// ErrInputSize is returned when the input length differs from the weight count.
var ErrInputSize = errors.New("neuron: input size mismatch")

// Neuron holds one weight per input and a bias, all of them leaf nodes.
type Neuron struct {
	w []*value.Value
	b *value.Value
}

// uniform draws from [-1, 1)
func uniform(rng *rand.Rand) float32 {
	return rng.Float32()*2 - 1
}

// MustNew creates a new neuron with nin inputs, panics on error
func MustNew(nin int, rng *rand.Rand) *Neuron {
	o, err := New(nin, rng)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new neuron with nin inputs. Weights and bias are drawn
// uniformly from [-1, 1] using rng.
func New(nin int, rng *rand.Rand) (o *Neuron, err error) {
	if nin <= 0 {
		return nil, errors.Errorf("neuron: need at least one input, got %d", nin)
	}
	if rng == nil {
		return nil, errors.New("neuron: nil random source")
	}
	o = new(Neuron)
	o.w = make([]*value.Value, nin)
	for i := range o.w {
		o.w[i] = value.New(uniform(rng))
	}
	o.b = value.New(uniform(rng))
	return
}

// FromWeights creates a neuron with the given weights and bias
func FromWeights(w []float32, b float32) (o *Neuron, err error) {
	if len(w) == 0 {
		return nil, errors.New("neuron: need at least one weight")
	}
	o = new(Neuron)
	o.w = make([]*value.Value, len(w))
	for i := range w {
		o.w[i] = value.New(w[i])
	}
	o.b = value.New(b)
	return
}

// Forward computes tanh(b + Σ w_i·x_i).
func (n *Neuron) Forward(x []*value.Value) (*value.Value, error) {
	if len(x) != len(n.w) {
		return nil, errors.Wrapf(ErrInputSize, "got %d inputs, want %d", len(x), len(n.w))
	}
	act := n.b
	for i, w := range n.w {
		act = act.Add(w.Mul(x[i]))
	}
	return act.Tanh(), nil
}

// Parameters returns the weights followed by the bias
func (n *Neuron) Parameters() []*value.Value {
	return append(append(make([]*value.Value, 0, len(n.w)+1), n.w...), n.b)
}

// Inputs returns the number of inputs
func (n *Neuron) Inputs() int {
	return len(n.w)
}

// Weight returns the i-th weight
func (n *Neuron) Weight(i int) *value.Value {
	return n.w[i]
}

// Bias returns the bias
func (n *Neuron) Bias() *value.Value {
	return n.b
}
