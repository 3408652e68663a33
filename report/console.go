package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"ndvi-tools/ndvi"
)

// Preview prints the first n results as a table, noting how many were left out.
func Preview(w io.Writer, results []ndvi.Result, n int) {
	shown := max(0, min(n, len(results)))
	fmt.Fprintf(w, "Plot  NDVI (showing %d/%d)\n", shown, len(results))

	// The line above serves as the header.
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, res := range results[:shown] {
		table.Append([]string{
			res.PlotID,
			fmt.Sprintf("r=%03d", res.Row+1),
			fmt.Sprintf("c=%03d", res.Col+1),
			fmt.Sprintf("%6.3f", res.Value),
		})
	}
	table.Render()

	if shown < len(results) {
		fmt.Fprintf(w, "... %d more plots not shown\n", len(results)-shown)
	}
}

func FieldSummary(w io.Writer, summary ndvi.Summary, stressed []ndvi.Result, threshold float64) {
	fmt.Fprintln(w, "\nField summary:")
	fmt.Fprintf(w, "mean=%.3f  min=%.3f  max=%.3f\n", summary.Mean, summary.Min, summary.Max)
	fmt.Fprintf(w, "std=%.3f  median=%.3f  valid=%d/%d\n", summary.StdDev, summary.Median, summary.Valid, summary.Plots)

	if len(stressed) == 0 {
		fmt.Fprintf(w, "No plots under the %.2f stress threshold.\n", threshold)
		return
	}
	ids := make([]string, len(stressed))
	for i, res := range stressed {
		ids[i] = res.PlotID
	}
	fmt.Fprintf(w, "Potentially stressed plots: %s\n", strings.Join(ids, ", "))
}
