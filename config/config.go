// Package config loads network descriptions from YAML.
//
//	inputs: 3
//	layers: [4, 4, 1]
//	seed: 1337
//	samples:
//	  - {x: [2, 3, -1], y: [1]}
//	  - {x: [3, -1, 0.5], y: [-1]}
package config

import "os"

import "github.com/goccy/go-yaml"
import "github.com/pkg/errors"

// ErrInvalid is returned for a description which cannot be built.
var ErrInvalid = errors.New("config: invalid network description")

// Sample is one training pair
type Sample struct {
	X []float32 `yaml:"x"`
	Y []float32 `yaml:"y"`
}

// Network describes a feedforward network and the samples to evaluate it on
type Network struct {
	Inputs  int      `yaml:"inputs"`
	Layers  []int    `yaml:"layers"`
	Seed    int64    `yaml:"seed"`
	Samples []Sample `yaml:"samples"`
}

// Outputs returns the width of the last layer
func (n *Network) Outputs() int {
	if len(n.Layers) == 0 {
		return n.Inputs
	}
	return n.Layers[len(n.Layers)-1]
}

// Validate checks the layer sizes and that each sample fits the network
func (n *Network) Validate() error {
	if n.Inputs <= 0 {
		return errors.Wrapf(ErrInvalid, "inputs = %d", n.Inputs)
	}
	if len(n.Layers) == 0 {
		return errors.Wrap(ErrInvalid, "no layers")
	}
	for i, size := range n.Layers {
		if size <= 0 {
			return errors.Wrapf(ErrInvalid, "layer %d has %d neurons", i, size)
		}
	}
	for i, s := range n.Samples {
		if len(s.X) != n.Inputs {
			return errors.Wrapf(ErrInvalid, "sample %d has %d inputs, want %d", i, len(s.X), n.Inputs)
		}
		if len(s.Y) != n.Outputs() {
			return errors.Wrapf(ErrInvalid, "sample %d has %d targets, want %d", i, len(s.Y), n.Outputs())
		}
	}
	return nil
}

// Parse decodes and validates a YAML description
func Parse(data []byte) (*Network, error) {
	n := new(Network)
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, errors.Wrap(err, "config: decode")
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Load reads a YAML description from a file
func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read %s", path)
	}
	n, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return n, nil
}
