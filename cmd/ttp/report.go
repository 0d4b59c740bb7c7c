package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"ttp-solver-service/internal/services"
)

// PrintReport renders the instance summary, one row per heuristic and the
// best-of-all summary.
func PrintReport(w io.Writer, r *services.Report) {
	fmt.Fprintf(w, "Instance: %s\n", r.Instance.Name)
	fmt.Fprintf(w, "Cities: %d  Items: %d  Capacity: %d\n\n", r.Instance.Dimension, r.Instance.NumItems, r.Instance.Capacity)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "HEURISTIC\tOBJECTIVE\tPROFIT\tTIME\tWEIGHT\tVALID\tMS\t")
	for _, res := range r.Results {
		if res.Solution == nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\tno\t%d\t\n", res.Heuristic, res.Elapsed.Milliseconds())
			continue
		}
		sol := res.Solution
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%s\t%d\t\n",
			res.Heuristic,
			num(sol.Objective), num(sol.Profit), num(sol.Time),
			sol.Weight, r.Instance.Capacity,
			yesNo(res.Valid),
			res.Elapsed.Milliseconds(),
		)
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	if r.Best == nil {
		fmt.Fprintln(w, "No valid solution found.")
		return
	}

	best := r.Best.Solution
	fmt.Fprintf(w, "Best: %s\n", r.Best.Heuristic)
	fmt.Fprintf(w, "  Objective: %s\n", num(best.Objective))
	fmt.Fprintf(w, "  Profit:    %s\n", num(best.Profit))
	fmt.Fprintf(w, "  Time:      %s\n", num(best.Time))
	fmt.Fprintf(w, "  Weight:    %d/%d\n", best.Weight, r.Instance.Capacity)
	fmt.Fprintf(w, "  Items:     %d\n", best.SelectedCount())
	fmt.Fprintf(w, "  Tour:      %v\n", best.Tour)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
