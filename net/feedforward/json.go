package feedforward

import "compress/lzw"
import "encoding/json"
import "io"
import "os"

import "github.com/pkg/errors"

import "github.com/neurlang/micrograd/layer"
import "github.com/neurlang/micrograd/layer/full"

// ErrUnsupportedLayer is returned when saving a layer whose weights cannot be exported.
var ErrUnsupportedLayer = errors.New("feedforward: layer weights cannot be saved")

type weightsJson struct {
	Inputs int               `json:"inputs"`
	Layers []layerWeightJson `json:"layers"`
}

type layerWeightJson struct {
	Weights [][]float32 `json:"weights"`
	Biases  []float32   `json:"biases"`
}

type weighted interface {
	layer.Layer
	Weights() ([][]float32, []float32)
}

// WriteCompressedWeightsToFile writes model weights to a lzw file
func (f FeedforwardNetwork) WriteCompressedWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = f.WriteCompressedWeights(file)
	cerr := file.Close()
	if err != nil {
		return err
	}
	return cerr
}

// WriteCompressedWeights writes the architecture and parameter values to a writer.
// Computation graphs are never stored.
func (f FeedforwardNetwork) WriteCompressedWeights(w io.Writer) error {
	doc := weightsJson{Inputs: f.nin}
	for i, l := range f.layers {
		wl, ok := l.(weighted)
		if !ok {
			return errors.Wrapf(ErrUnsupportedLayer, "layer %d is %T", i, l)
		}
		weights, biases := wl.Weights()
		doc.Layers = append(doc.Layers, layerWeightJson{Weights: weights, Biases: biases})
	}
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	if err := json.NewEncoder(lw).Encode(&doc); err != nil {
		lw.Close()
		return errors.Wrap(err, "feedforward: encode weights")
	}
	return lw.Close()
}

// ReadCompressedWeightsFromFile reads model weights from a lzw file
func (f *FeedforwardNetwork) ReadCompressedWeightsFromFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	err = f.ReadCompressedWeights(file)
	file.Close()
	return err
}

// ReadCompressedWeights replaces the layers of f with fully connected layers
// holding the weights read from r.
func (f *FeedforwardNetwork) ReadCompressedWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()

	var doc weightsJson
	if err := json.NewDecoder(lr).Decode(&doc); err != nil {
		return errors.Wrap(err, "feedforward: decode weights")
	}
	g := FeedforwardNetwork{nin: doc.Inputs, rng: f.rng}
	for i, lj := range doc.Layers {
		l, err := full.FromWeights(lj.Weights, lj.Biases)
		if err != nil {
			return errors.Wrapf(err, "feedforward: layer %d", i)
		}
		if err := g.AddLayer(l); err != nil {
			return err
		}
	}
	*f = g
	return nil
}
