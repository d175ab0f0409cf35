// Package tracelog provides optional, human-facing pass-boundary tracing
// for the module compiler. It carries no diagnostic meaning — everything
// that matters to a caller flows through internal/diag instead.
package tracelog

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Tracer prints one colored line per pass per module when non-nil. A nil
// *Tracer is always safe to call methods on (every method is a no-op),
// so the module compiler can hold an optional tracer without nil-checking
// at every call site.
type Tracer struct {
	out io.Writer
}

// New returns a Tracer writing to w.
func New(w io.Writer) *Tracer {
	return &Tracer{out: w}
}

// Stderr returns a Tracer writing to os.Stderr, the common case for a CLI
// collaborator that wants to see pass progress.
func Stderr() *Tracer {
	return New(os.Stderr)
}

// PassStart logs that a pass is about to run over a module.
func (t *Tracer) PassStart(module, pass string) {
	if t == nil {
		return
	}
	fmt.Fprintf(t.out, "%s %s %s\n", dim("->"), cyan(module), pass)
}

// PassOK logs that a pass finished a module with no errors.
func (t *Tracer) PassOK(module, pass string) {
	if t == nil {
		return
	}
	fmt.Fprintf(t.out, "%s %s %s\n", green("ok"), cyan(module), pass)
}

// PassWarn logs that a pass finished with warnings but no errors.
func (t *Tracer) PassWarn(module, pass string, count int) {
	if t == nil {
		return
	}
	fmt.Fprintf(t.out, "%s %s %s (%d warning(s))\n", yellow("warn"), cyan(module), pass, count)
}

// PassFail logs that a pass reported errors, halting the pipeline for this
// module.
func (t *Tracer) PassFail(module, pass string, count int) {
	if t == nil {
		return
	}
	fmt.Fprintf(t.out, "%s %s %s (%d error(s))\n", red("fail"), cyan(module), pass, count)
}
