package model

// Row is a single metric slot in a report.
type Row struct {
	Metric string `json:"metric"`
	Value  Value  `json:"value"`
}

// Report is the ordered metric table produced by one analysis run for one
// asset. Row order is fixed by the analysis profile and deterministic
// across runs; the report is immutable once assembled.
type Report struct {
	RunID   string `json:"run_id"`
	Symbol  string `json:"symbol"`
	Profile string `json:"profile"`
	Rows    []Row  `json:"rows"`
}

// Metrics returns the metric names in declaration order.
func (r *Report) Metrics() []string {
	out := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Metric
	}
	return out
}

// Values returns the values aligned with Metrics.
func (r *Report) Values() []Value {
	out := make([]Value, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Value
	}
	return out
}

// Get looks up a metric by display name.
func (r *Report) Get(metric string) (Value, bool) {
	for _, row := range r.Rows {
		if row.Metric == metric {
			return row.Value, true
		}
	}
	return Value{}, false
}

// PeerReport is the cross-asset comparison table: one row per metric, one
// column per asset symbol. Column order follows Symbols; every column
// holds values aligned with Metrics.
type PeerReport struct {
	RunID   string             `json:"run_id"`
	Metrics []string           `json:"metrics"`
	Symbols []string           `json:"symbols"`
	Columns map[string][]Value `json:"columns"`
}
