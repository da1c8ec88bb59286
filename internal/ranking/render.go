package ranking

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderCounts writes a ranked markdown table of members on X per group.
func RenderCounts(w io.Writer, title, groupLabel string, rows []GroupCount) {
	fmt.Fprintf(w, "## %s\n\n", title)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Rank", groupLabel, "MEPs on X"})
	for i, row := range rows {
		t.AppendRow(table.Row{i + 1, row.Group, row.Count})
	}
	t.RenderMarkdown()
	fmt.Fprintln(w)
}

// RenderShares writes a ranked markdown table of each group's share of
// members on X.
func RenderShares(w io.Writer, title, groupLabel string, rows []GroupShare) {
	fmt.Fprintf(w, "## %s\n\n", title)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Rank", groupLabel, "MEPs on X", "Total MEPs", "% on X"})
	for i, row := range rows {
		t.AppendRow(table.Row{i + 1, row.Group, row.OnX, row.Total, fmt.Sprintf("%.1f", row.Pct)})
	}
	t.RenderMarkdown()
	fmt.Fprintln(w)
}
