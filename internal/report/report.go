// Package report emits the root's per-refinement progress: one line per
// refinement with the flatness, the current f and the round wall-time
// spread, plus an optional progress bar over the known f schedule.
package report

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

type Reporter struct {
	out io.Writer
	bar *pb.ProgressBar
}

// TotalRefinements returns how many halvings take f0 down to tolerance.
func TotalRefinements(f0, tolerance float64) int {
	if f0 <= tolerance {
		return 0
	}
	return int(math.Ceil(math.Log2(f0 / tolerance)))
}

// New builds a reporter writing to out. When out is a terminal a progress
// bar tracks the refinement schedule; otherwise only plain lines are
// printed.
func New(out *os.File, f0, tolerance float64) *Reporter {
	r := &Reporter{out: out}
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		r.bar = pb.StartNew(TotalRefinements(f0, tolerance))
	}
	return r
}

// NewPlain builds a reporter without a progress bar, for tests and
// non-terminal sinks.
func NewPlain(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Refinement prints one progress line and advances the bar.
func (r *Reporter) Refinement(refinement int, f, flatness, minSeconds, maxSeconds float64, accepted int64) {
	fmt.Fprintf(r.out, "refinement %d: f=%.6g flatness=%.3f accepted=%s wall=[%.3fs %.3fs]\n",
		refinement, f, flatness, humanize.Comma(accepted), minSeconds, maxSeconds)
	if r.bar != nil {
		r.bar.Increment()
	}
}

// Done finishes the progress bar, if any.
func (r *Reporter) Done() {
	if r.bar != nil {
		r.bar.Finish()
	}
}

// ConfigBanner prints the formatted banner the root emits when a run is
// rejected before sampling.
func ConfigBanner(out io.Writer, err error) {
	fmt.Fprintln(out, "============================================================")
	fmt.Fprintln(out, " WANG-LANDAU CONFIGURATION ERROR")
	fmt.Fprintf(out, "   %v\n", err)
	fmt.Fprintln(out, "============================================================")
}
