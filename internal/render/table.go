package render

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"coinlens/pkg/model"
)

// WriteTable renders a single-asset report as a terminal table.
func WriteTable(w io.Writer, r *model.Report) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Metric", "Value"}),
	)
	for _, row := range r.Rows {
		table.Append([]string{row.Metric, row.Value.String()})
	}
	table.Render()
}

// WritePeerTable renders a peer report, one column per asset.
func WritePeerTable(w io.Writer, r *model.PeerReport) {
	header := append([]string{"Metric"}, r.Symbols...)
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader(header),
	)
	for i, metric := range r.Metrics {
		record := make([]string, 0, len(r.Symbols)+1)
		record = append(record, metric)
		for _, sym := range r.Symbols {
			col := r.Columns[sym]
			if i >= len(col) {
				record = append(record, model.Undefined().String())
				continue
			}
			record = append(record, col[i].String())
		}
		table.Append(record)
	}
	table.Render()
}
