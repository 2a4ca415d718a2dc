package main

import "bytes"
import "testing"

import "github.com/pkg/errors"
import "github.com/scott-cotton/cli"

func TestVarOpt(t *testing.T) {
	vars := map[string]float32{}
	set := varOptTypeFunc(vars)
	for _, a := range []string{"a=-4", "b=2.5", "a=1e-3"} {
		if _, err := set(nil, a); err != nil {
			t.Errorf("%q: %v", a, err)
		}
	}
	if vars["a"] != 1e-3 || vars["b"] != 2.5 {
		t.Errorf("vars = %v", vars)
	}
	for _, a := range []string{"a", "=1", "a=x"} {
		if _, err := set(nil, a); !errors.Is(err, cli.ErrUsage) {
			t.Errorf("%q: err = %v, want ErrUsage", a, err)
		}
	}
}

func TestPaletteIsPlainOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := (&MainConfig{}).palette(&buf)
	if got := p.num("%d", 7); got != "7" {
		t.Errorf("num(7) = %q, want plain text", got)
	}
}
