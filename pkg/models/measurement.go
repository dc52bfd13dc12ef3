package models

import "time"

// TimeColumn is the header name of the timestamp column in source files.
const TimeColumn = "Time"

// Row is one timestamped record of the measurement table. Values are aligned
// with Table.Servers and expressed in microseconds.
type Row struct {
	Time   time.Time `json:"time"`
	Values []float64 `json:"values"`
}

// Table is the normalized measurement table. It is built once by the loader
// and must be treated as read-only afterwards.
type Table struct {
	Servers []string  `json:"servers"`
	Rows    []Row     `json:"rows"`
	Source  string    `json:"source,omitempty"`
	Loaded  time.Time `json:"loaded_at"`
}

// ServerIndex returns the value column of the named server.
func (t *Table) ServerIndex(server string) (int, bool) {
	for i, s := range t.Servers {
		if s == server {
			return i, true
		}
	}
	return -1, false
}

// Column returns the values of one server in row order.
func (t *Table) Column(server string) ([]float64, bool) {
	idx, ok := t.ServerIndex(server)
	if !ok {
		return nil, false
	}
	values := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		values[i] = r.Values[idx]
	}
	return values, true
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Span returns the first and last timestamps in row order.
func (t *Table) Span() (first, last time.Time, ok bool) {
	if len(t.Rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return t.Rows[0].Time, t.Rows[len(t.Rows)-1].Time, true
}

// View is a date-bounded subsequence of a table's rows. Rows share their
// value slices with the table they were taken from.
type View struct {
	Servers []string `json:"servers"`
	Rows    []Row    `json:"rows"`
}

func (v *View) Len() int {
	return len(v.Rows)
}

func (v *View) Empty() bool {
	return len(v.Rows) == 0
}
