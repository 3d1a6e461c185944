// Package render serializes reports for the terminal, for files and for
// the LLM prompt. The CSV form is the interchange format: sentinels
// round-trip through their "NaN" and "+Inf" spellings.
package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"coinlens/pkg/model"
)

// WriteCSV writes a single-asset report as Metric,Value rows.
func WriteCSV(w io.Writer, r *model.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Metric", "Value"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range r.Rows {
		if err := cw.Write([]string{row.Metric, row.Value.String()}); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePeerCSV writes a peer report with one column per asset.
func WritePeerCSV(w io.Writer, r *model.PeerReport) error {
	cw := csv.NewWriter(w)
	header := append([]string{"Metric"}, r.Symbols...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
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
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a single-asset report back from its CSV form.
func ReadCSV(r io.Reader) (*model.Report, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 || len(records[0]) != 2 || records[0][0] != "Metric" {
		return nil, fmt.Errorf("not a report csv")
	}
	rows := make([]model.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		v, err := model.ParseValue(rec[1])
		if err != nil {
			return nil, fmt.Errorf("parsing value for %q: %w", rec[0], err)
		}
		rows = append(rows, model.Row{Metric: rec[0], Value: v})
	}
	return &model.Report{Rows: rows}, nil
}
