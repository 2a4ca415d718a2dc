package main

import "io"
import "os"
import "strconv"
import "strings"

import "github.com/fatih/color"
import "github.com/mattn/go-isatty"
import "github.com/pkg/errors"
import "github.com/scott-cotton/cli"
import "go.uber.org/zap"

type MainConfig struct {
	Verbose bool `cli:"name=v aliases=verbose desc='log at debug level'"`
	Color   bool `cli:"name=color desc='force colored output'"`

	Main *cli.Command
}

type GradConfig struct {
	*MainConfig
	Vars map[string]float32

	Grad *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Trials  int     `cli:"name=trials desc='number of random graphs'"`
	Leaves  int     `cli:"name=leaves desc='inputs per graph'"`
	Steps   int     `cli:"name=steps desc='operations per graph'"`
	Seed    int     `cli:"name=seed desc='seed of the first trial'"`
	Workers int     `cli:"name=workers desc='concurrent trials, 0 for one per core'"`
	Tol     float64 `cli:"name=tol desc='absolute and relative gradient tolerance, 0 for the default'"`
	First   bool    `cli:"name=first desc='stop at the first failing trial'"`

	Check *cli.Command
}

type MLPConfig struct {
	*MainConfig
	Config string `cli:"name=config desc='network description in yaml'"`
	Save   string `cli:"name=save desc='write weights to a lzw file'"`
	Load   string `cli:"name=load desc='read weights from a lzw file instead of initializing them'"`

	MLP *cli.Command
}

func varOptTypeFunc(vars map[string]float32) func(cc *cli.Context, a string) (any, error) {
	return func(cc *cli.Context, a string) (any, error) {
		name, val, ok := strings.Cut(a, "=")
		if !ok || name == "" {
			return nil, errors.Wrapf(cli.ErrUsage, "expected name=val, got %q", a)
		}
		f, err := strconv.ParseFloat(val, 32)
		if err != nil {
			return nil, errors.Wrapf(cli.ErrUsage, "variable %s: %v", name, err)
		}
		vars[name] = float32(f)
		return 0, nil
	}
}

func (cfg *MainConfig) logger() (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if cfg.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}

// palette colors names and numbers when writing to a terminal
type palette struct {
	name, num, bad func(format string, a ...interface{}) string
}

func (cfg *MainConfig) palette(w io.Writer) palette {
	on := cfg.Color
	if f, ok := w.(*os.File); ok && !on {
		on = isatty.IsTerminal(f.Fd())
	}
	name, num, bad := color.New(color.FgCyan), color.New(color.FgYellow), color.New(color.FgRed, color.Bold)
	for _, c := range []*color.Color{name, num, bad} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return palette{name: name.SprintfFunc(), num: num.SprintfFunc(), bad: bad.SprintfFunc()}
}
