package main

import "fmt"
import "math"
import "math/rand"

import "github.com/pkg/errors"
import "github.com/scott-cotton/cli"
import "go.uber.org/zap"

import "github.com/neurlang/micrograd/config"
import "github.com/neurlang/micrograd/net/feedforward"

func mlp(cfg *MLPConfig, cc *cli.Context, args []string) error {
	args, err := cfg.MLP.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Config == "" || len(args) != 0 {
		return errors.Wrap(cli.ErrUsage, "need -config and no arguments")
	}
	log, err := cfg.logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	desc, err := config.Load(cfg.Config)
	if err != nil {
		return err
	}
	if len(desc.Samples) == 0 {
		return errors.Wrapf(config.ErrInvalid, "%s has no samples", cfg.Config)
	}
	net := feedforward.New(desc.Inputs, rand.New(rand.NewSource(desc.Seed)))
	if cfg.Load != "" {
		if err := net.ReadCompressedWeightsFromFile(cfg.Load); err != nil {
			return err
		}
		if net.Inputs() != desc.Inputs || net.Outputs() != desc.Outputs() {
			return errors.Errorf("%s holds a %d->%d network, %s describes %d->%d",
				cfg.Load, net.Inputs(), net.Outputs(), cfg.Config, desc.Inputs, desc.Outputs())
		}
	} else {
		for _, n := range desc.Layers {
			if err := net.NewLayer(n); err != nil {
				return err
			}
		}
	}
	log.Debug("network ready", zap.Int("layers", net.LenLayers()), zap.Int("parameters", net.Len()))

	samples := make([]feedforward.Sample, len(desc.Samples))
	for i, s := range desc.Samples {
		samples[i] = feedforward.Sample{X: s.X, Y: s.Y}
	}
	loss, err := net.Loss(samples)
	if err != nil {
		return err
	}
	if err := loss.Backward(); err != nil {
		return err
	}

	p := cfg.palette(cc.Out)
	fmt.Fprintf(cc.Out, "loss = %s\n", p.num("%g", loss.Data()))
	for i := 0; i < net.LenLayers(); i++ {
		var sq float64
		for _, prm := range net.Layer(i).Parameters() {
			sq += float64(prm.Grad()) * float64(prm.Grad())
		}
		fmt.Fprintf(cc.Out, "layer %d: %d parameters, |grad| = %s\n", i, len(net.Layer(i).Parameters()), p.num("%g", math.Sqrt(sq)))
	}
	if cfg.Save != "" {
		if err := net.WriteCompressedWeightsToFile(cfg.Save); err != nil {
			return err
		}
		log.Info("weights saved", zap.String("file", cfg.Save))
	}
	return nil
}
