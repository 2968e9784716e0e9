package root

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const pipelineSteps = 5

type progressReporter struct {
	w      io.Writer
	step   int
	prefix *color.Color
}

func newProgressReporter(w io.Writer) *progressReporter {
	prefix := color.New(color.FgCyan, color.Bold)
	if shouldColorize(w) {
		prefix.EnableColor()
	} else {
		prefix.DisableColor()
	}
	return &progressReporter{w: w, prefix: prefix}
}

// begin announces the next pipeline step.
func (p *progressReporter) begin(msg string) {
	if p == nil || p.w == nil {
		return
	}
	p.step++
	_, _ = fmt.Fprintf(p.w, "%s %s\n", p.prefix.Sprintf("[%d/%d]", p.step, pipelineSteps), msg)
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
