package harness

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Report holds one outcome per scenario, in suite order.
type Report struct {
	Outcomes []Outcome
}

// RunAll runs every scenario. A failing scenario does not stop the
// others.
func (h *Harness) RunAll(ctx context.Context, suite *Suite) *Report {
	outcomes := make([]Outcome, len(suite.Scenarios))

	var g errgroup.Group
	g.SetLimit(h.parallelism)
	for i, sc := range suite.Scenarios {
		g.Go(func() error {
			outcomes[i] = h.RunScenario(ctx, sc)
			return nil
		})
	}
	_ = g.Wait()

	return &Report{Outcomes: outcomes}
}

// OK reports whether no scenario failed. Expected failures and skips do
// not count.
func (r *Report) OK() bool {
	return !lo.SomeBy(r.Outcomes, Outcome.Failed)
}

func (r *Report) Count(status Status) int {
	return lo.CountBy(r.Outcomes, func(o Outcome) bool { return o.Status == status })
}

func (r *Report) Failures() []Outcome {
	return lo.Filter(r.Outcomes, func(o Outcome, _ int) bool { return o.Failed() })
}

func (r *Report) Summary() string {
	parts := make([]string, 0, 5)
	for _, s := range []Status{Passed, Failed, XFailed, XPassed, Skipped} {
		if n := r.Count(s); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	if len(parts) == 0 {
		return "no scenarios"
	}
	return strings.Join(parts, ", ")
}

// Write prints one line per scenario followed by the summary.
func (r *Report) Write(w io.Writer) error {
	for _, o := range r.Outcomes {
		line := fmt.Sprintf("%-8s %s", strings.ToUpper(string(o.Status)), o.Scenario)
		if o.Err != nil {
			line += ": " + o.Err.Error()
		}
		if o.KeptAt != "" {
			line += " (kept at " + o.KeptAt + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		for _, s := range o.Skipped {
			if _, err := fmt.Fprintf(w, "         skipped %s\n", s); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, r.Summary())
	return err
}
