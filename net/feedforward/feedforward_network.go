// Package feedforward implements a feedforward network type
package feedforward

import "math/rand"

import "github.com/pkg/errors"

import "github.com/neurlang/micrograd/layer"
import "github.com/neurlang/micrograd/layer/full"
import "github.com/neurlang/micrograd/value"

var (
	// ErrNoLayers is returned when a network without layers is evaluated.
	ErrNoLayers = errors.New("feedforward: network has no layers")

	// ErrFanIn is returned when a layer's input count differs from the previous width.
	ErrFanIn = errors.New("feedforward: layer fan-in mismatch")
)

// Sample is one input vector with its expected output
type Sample struct {
	X []float32
	Y []float32
}

// FeedforwardNetwork is the feedforward network
type FeedforwardNetwork struct {
	layers []layer.Layer
	nin    int
	rng    *rand.Rand
}

// New creates an empty network taking nin inputs. New layers draw their
// initial weights from rng.
func New(nin int, rng *rand.Rand) *FeedforwardNetwork {
	return &FeedforwardNetwork{nin: nin, rng: rng}
}

// Inputs returns the input width of the network
func (f FeedforwardNetwork) Inputs() int {
	return f.nin
}

// Outputs returns the output width of the network, or the input width when
// there are no layers
func (f FeedforwardNetwork) Outputs() int {
	if len(f.layers) == 0 {
		return f.nin
	}
	return f.layers[len(f.layers)-1].Outputs()
}

// Len returns the number of parameters inside the network.
func (f FeedforwardNetwork) Len() (o int) {
	for _, l := range f.layers {
		o += len(l.Parameters())
	}
	return
}

// LenLayers returns the number of layers.
func (f FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// Layer returns the i-th layer
func (f FeedforwardNetwork) Layer(i int) layer.Layer {
	return f.layers[i]
}

// GetLayer gets the layer number of a parameter based on the parameter number. Returns -1 on failure.
func (f FeedforwardNetwork) GetLayer(n int) int {
	if n < 0 {
		return -1
	}
	for i, l := range f.layers {
		size := len(l.Parameters())
		if n < size {
			return i
		}
		n -= size
	}
	return -1
}

// GetParameter gets the n-th parameter leaf in the network, nil when out of range.
func (f FeedforwardNetwork) GetParameter(n int) *value.Value {
	if n < 0 {
		return nil
	}
	for _, l := range f.layers {
		params := l.Parameters()
		if n < len(params) {
			return params[n]
		}
		n -= len(params)
	}
	return nil
}

// NewLayer adds a fully connected layer with n neurons to the end of network.
func (f *FeedforwardNetwork) NewLayer(n int) error {
	if f.rng == nil {
		return errors.New("feedforward: network has no random source")
	}
	l, err := full.New(f.Outputs(), n, f.rng)
	if err != nil {
		return err
	}
	f.layers = append(f.layers, l)
	return nil
}

// AddLayer adds a layer to the end of network. Its input count must match
// the current output width.
func (f *FeedforwardNetwork) AddLayer(l layer.Layer) error {
	if l.Inputs() != f.Outputs() {
		return errors.Wrapf(ErrFanIn, "layer %d takes %d inputs, previous width is %d", len(f.layers), l.Inputs(), f.Outputs())
	}
	f.layers = append(f.layers, l)
	return nil
}

// Parameters returns every parameter leaf, layer by layer.
func (f FeedforwardNetwork) Parameters() (o []*value.Value) {
	for _, l := range f.layers {
		o = append(o, l.Parameters()...)
	}
	return
}

// ZeroGrad resets the gradient of every parameter
func (f FeedforwardNetwork) ZeroGrad() error {
	for _, l := range f.layers {
		for _, p := range l.Parameters() {
			if err := p.ZeroGrad(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Forward wraps x in fresh leaves and evaluates the network.
func (f FeedforwardNetwork) Forward(x []float32) ([]*value.Value, error) {
	in := make([]*value.Value, len(x))
	for i := range x {
		in[i] = value.New(x[i])
	}
	return f.ForwardValues(in)
}

// ForwardValues evaluates the network on existing nodes.
func (f FeedforwardNetwork) ForwardValues(x []*value.Value) (out []*value.Value, err error) {
	if len(f.layers) == 0 {
		return nil, ErrNoLayers
	}
	out = x
	for i, l := range f.layers {
		out, err = l.Forward(out)
		if err != nil {
			return nil, errors.Wrapf(err, "feedforward: layer %d", i)
		}
	}
	return out, nil
}

// SquaredError builds Σ(o−t)² from the outputs and the targets.
func SquaredError(outputs []*value.Value, targets []float32) (*value.Value, error) {
	if len(outputs) != len(targets) || len(outputs) == 0 {
		return nil, errors.Errorf("feedforward: %d outputs and %d targets", len(outputs), len(targets))
	}
	var sum *value.Value
	for i, o := range outputs {
		d := o.SubScalar(targets[i])
		d = d.Mul(d)
		if sum == nil {
			sum = d
		} else {
			sum = sum.Add(d)
		}
	}
	return sum, nil
}

// Loss sums the squared error of the network over samples into one graph.
func (f FeedforwardNetwork) Loss(samples []Sample) (*value.Value, error) {
	if len(samples) == 0 {
		return nil, errors.New("feedforward: no samples")
	}
	var total *value.Value
	for i, s := range samples {
		out, err := f.Forward(s.X)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
		loss, err := SquaredError(out, s.Y)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
		if total == nil {
			total = loss
		} else {
			total = total.Add(loss)
		}
	}
	return total, nil
}
