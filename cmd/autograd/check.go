package main

import "fmt"

import "github.com/pkg/errors"
import "github.com/scott-cotton/cli"

import "github.com/neurlang/micrograd/gradcheck"

var errCheckFailed = errors.New("gradient check failed")

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return errors.Wrapf(cli.ErrUsage, "unexpected arguments %v", args)
	}
	log, err := cfg.logger()
	if err != nil {
		return err
	}
	defer log.Sync()

	r := gradcheck.Runner{
		Trials:  cfg.Trials,
		Leaves:  cfg.Leaves,
		Steps:   cfg.Steps,
		Seed:    int64(cfg.Seed),
		Workers: cfg.Workers,
		Logger:  log,
	}
	if cfg.Tol != 0 {
		r.Tolerance = gradcheck.Tolerance{Abs: cfg.Tol, Rel: cfg.Tol}
	}
	p := cfg.palette(cc.Out)
	if cfg.First {
		f, err := r.FindFailure()
		if err != nil {
			return err
		}
		if f == nil {
			fmt.Fprintf(cc.Out, "%s trials passed\n", p.num("%d", r.Trials))
			return nil
		}
		printFailure(cc, p, *f)
		return errCheckFailed
	}
	rep, err := r.Run()
	if err != nil {
		return err
	}
	for _, f := range rep.Failures {
		printFailure(cc, p, f)
	}
	fmt.Fprintf(cc.Out, "run %s: %s of %s trials failed, max abs error %s\n",
		p.name("%s", rep.ID), p.num("%d", len(rep.Failures)), p.num("%d", rep.Trials), p.num("%.3g", rep.MaxAbsErr))
	if len(rep.Failures) > 0 {
		return errCheckFailed
	}
	return nil
}

func printFailure(cc *cli.Context, p palette, f gradcheck.Failure) {
	fmt.Fprintf(cc.Out, "%s at x=%v\n", p.bad("trial %d", f.Trial), f.X)
	for _, i := range f.Result.Bad {
		fmt.Fprintf(cc.Out, "\tleaf %d: engine %s, numeric %s\n", i, p.num("%g", f.Result.Grads[i]), p.num("%g", f.Result.Numeric[i]))
	}
	for i, in := range f.Program.Instrs {
		fmt.Fprintf(cc.Out, "\tv%d = %s(v%d, v%d, %g)\n", f.Program.Leaves+i, in.Op, in.A, in.B, in.K)
	}
}
