package main

import "fmt"
import "strings"

import "github.com/pkg/errors"
import "github.com/scott-cotton/cli"
import "go.uber.org/zap"

import "github.com/neurlang/micrograd/expression"
import "github.com/neurlang/micrograd/value"

func grad(cfg *GradConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Grad.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.Wrap(cli.ErrUsage, "missing expression")
	}
	log, err := cfg.logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	e, err := expression.Parse(strings.Join(args, " "))
	if err != nil {
		return err
	}
	g, err := e.Build(cfg.Vars)
	if err != nil {
		return err
	}
	if order, err := value.Topo(g.Root); err == nil {
		log.Debug("graph built", zap.Int("nodes", len(order)), zap.Int("vars", len(g.Vars)))
	}
	if err := g.Root.Backward(); err != nil {
		return err
	}
	p := cfg.palette(cc.Out)
	fmt.Fprintf(cc.Out, "%s = %s\n", p.name("%s", e), p.num("%g", g.Root.Data()))
	if !g.Root.Finite() {
		fmt.Fprintln(cc.Out, p.bad("result is not finite"))
	}
	for _, name := range g.Names() {
		fmt.Fprintf(cc.Out, "d/d%s = %s\n", p.name("%s", name), p.num("%g", g.Vars[name].Grad()))
	}
	return nil
}
