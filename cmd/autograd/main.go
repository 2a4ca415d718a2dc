package main

import "context"

import "github.com/scott-cotton/cli"

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "autograd").
		WithSynopsis("autograd [opts] command [opts]").
		WithDescription("autograd differentiates scalar computation graphs.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return autogradMain(cfg, cc, args)
		}).
		WithSubs(
			GradCommand(cfg),
			CheckCommand(cfg),
			MLPCommand(cfg))
}

func GradCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GradConfig{MainConfig: mainCfg, Vars: map[string]float32{}}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts,
		&cli.Opt{
			Name:        "var",
			Description: "set a variable, may be repeated",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(varOptTypeFunc(cfg.Vars)), "(name=val)"),
		})
	return cli.NewCommandAt(&cfg.Grad, "grad").
		WithAliases("g").
		WithSynopsis("grad [-var name=val]... <expression>").
		WithDescription("evaluate an expression and print the gradient of every variable").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return grad(cfg, cc, args)
		})
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg, Trials: 1000, Leaves: 3, Steps: 12, Seed: 1}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithSynopsis("check [-trials N] [-leaves N] [-steps N] [-seed S] [-workers N] [-tol T] [-first]").
		WithDescription("compare engine gradients of random graphs with finite differences").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func MLPCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MLPConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.MLP, "mlp").
		WithAliases("m").
		WithSynopsis("mlp -config file.yaml [-save weights.lzw] [-load weights.lzw]").
		WithDescription("run one forward and backward pass of a network over its samples").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return mlp(cfg, cc, args)
		})
}
