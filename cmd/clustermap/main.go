package main

import (
	"errors"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/flarebyte/clustermap/cmd/clustermap/root"
)

type exitCoder interface {
	ExitCode() int
}

func main() {
	if err := root.Execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		// Print a short, single-line error to stderr on failures.
		// Do not print usage or stack traces.
		msg := strings.Join(strings.Fields(err.Error()), " ")
		if msg == "" {
			msg = "error"
		}
		c := color.New(color.FgRed)
		if isatty.IsTerminal(os.Stderr.Fd()) {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		_, _ = c.Fprintln(os.Stderr, msg)
		code := 1
		var ec exitCoder
		if errors.As(err, &ec) {
			if c := ec.ExitCode(); c != 0 {
				code = c
			}
		}
		os.Exit(code)
	}
}
