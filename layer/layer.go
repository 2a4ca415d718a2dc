// Package layer defines the interface shared by network layers
package layer

import "github.com/neurlang/micrograd/value"

// Layer maps a vector of input nodes to a vector of output nodes
type Layer interface {

	// Forward builds the layer's output nodes on top of the input nodes
	Forward(x []*value.Value) ([]*value.Value, error)

	// Parameters returns the layer's trainable leaves in a stable order
	Parameters() []*value.Value

	// Inputs reports the expected input length
	Inputs() int

	// Outputs reports the output length
	Outputs() int
}
