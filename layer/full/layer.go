// Package full implements a fully connected layer of tanh neurons
package full

import "math/rand"

import "github.com/pkg/errors"

import "github.com/neurlang/micrograd/layer"
import "github.com/neurlang/micrograd/neuron"
import "github.com/neurlang/micrograd/value"

var _ layer.Layer = (*FullLayer)(nil)

// FullLayer holds nout neurons, each connected to all nin inputs
type FullLayer struct {
	neurons []*neuron.Neuron
	nin     int
}

// MustNew creates a new full layer with nin inputs and nout outputs, panics on error
func MustNew(nin, nout int, rng *rand.Rand) *FullLayer {
	o, err := New(nin, nout, rng)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new full layer with nin inputs and nout outputs
func New(nin, nout int, rng *rand.Rand) (o *FullLayer, err error) {
	if nout <= 0 {
		return nil, errors.Errorf("full: need at least one output, got %d", nout)
	}
	o = new(FullLayer)
	o.nin = nin
	o.neurons = make([]*neuron.Neuron, nout)
	for i := range o.neurons {
		o.neurons[i], err = neuron.New(nin, rng)
		if err != nil {
			return nil, errors.Wrapf(err, "full: neuron %d", i)
		}
	}
	return
}

// FromWeights creates a full layer from a row of weights and a bias per neuron
func FromWeights(w [][]float32, b []float32) (o *FullLayer, err error) {
	if len(w) == 0 || len(w) != len(b) {
		return nil, errors.Errorf("full: %d weight rows and %d biases", len(w), len(b))
	}
	o = new(FullLayer)
	o.nin = len(w[0])
	o.neurons = make([]*neuron.Neuron, len(w))
	for i := range w {
		if len(w[i]) != o.nin {
			return nil, errors.Errorf("full: row %d has %d weights, want %d", i, len(w[i]), o.nin)
		}
		o.neurons[i], err = neuron.FromWeights(w[i], b[i])
		if err != nil {
			return nil, err
		}
	}
	return
}

// Forward evaluates every neuron on x
func (f *FullLayer) Forward(x []*value.Value) ([]*value.Value, error) {
	if len(x) != f.nin {
		return nil, errors.Wrapf(neuron.ErrInputSize, "full: got %d inputs, want %d", len(x), f.nin)
	}
	out := make([]*value.Value, len(f.neurons))
	for i, n := range f.neurons {
		var err error
		out[i], err = n.Forward(x)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Parameters concatenates the neurons' parameters in neuron order
func (f *FullLayer) Parameters() (o []*value.Value) {
	for _, n := range f.neurons {
		o = append(o, n.Parameters()...)
	}
	return
}

// Inputs reports the fan-in
func (f *FullLayer) Inputs() int {
	return f.nin
}

// Outputs reports the number of neurons
func (f *FullLayer) Outputs() int {
	return len(f.neurons)
}

// Neuron returns the i-th neuron
func (f *FullLayer) Neuron(i int) *neuron.Neuron {
	return f.neurons[i]
}

// Weights returns a copy of the weight rows and biases
func (f *FullLayer) Weights() (w [][]float32, b []float32) {
	w = make([][]float32, len(f.neurons))
	b = make([]float32, len(f.neurons))
	for i, n := range f.neurons {
		w[i] = make([]float32, n.Inputs())
		for j := range w[i] {
			w[i][j] = n.Weight(j).Data()
		}
		b[i] = n.Bias().Data()
	}
	return
}
