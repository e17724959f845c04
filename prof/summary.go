package prof

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/goocl/goocl"
)

// WriteSummary renders a human-readable report with the aggregate times
// per event name and the pairwise overlaps.
func (p *Profiler) WriteSummary(w io.Writer) error {
	if !p.calced {
		return errors.WithMessage(goocl.ErrInvalidArgument, "profiling data not calculated yet")
	}

	fmt.Fprintf(w, "Total events time      : %v\n", time.Duration(p.totalTime))
	fmt.Fprintf(w, "Effective events time  : %v\n", time.Duration(p.effectiveTime))
	if p.elapsed > 0 {
		fmt.Fprintf(w, "Host elapsed time      : %v\n", p.elapsed)
	}

	fmt.Fprintf(w, "\nAggregate times by event:\n")
	aggTable := tablewriter.NewWriter(w)
	aggTable.SetHeader([]string{"Event", "Time", "Relative"})
	for _, agg := range p.Aggregates() {
		aggTable.Append([]string{
			agg.Name,
			time.Duration(agg.Time).String(),
			fmt.Sprintf("%.2f%%", 100*agg.Relative),
		})
	}
	aggTable.Render()

	overlaps := p.Overlaps()
	if len(overlaps) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\nEvent overlaps:\n")
	ovTable := tablewriter.NewWriter(w)
	ovTable.SetHeader([]string{"Event 1", "Event 2", "Overlap"})
	for _, ov := range overlaps {
		ovTable.Append([]string{
			ov.Name1,
			ov.Name2,
			time.Duration(ov.Duration).String(),
		})
	}
	ovTable.Render()
	return nil
}
