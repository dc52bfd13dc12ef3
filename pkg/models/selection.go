package models

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates. Only the year, month and
// day of Start and End are meaningful.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange truncates both bounds to their calendar dates.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: civil(start), End: civil(end)}
}

// ParseDateRange parses two YYYY-MM-DD dates.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return NewDateRange(s, e), nil
}

// Contains reports whether the date component of t, in t's own location,
// falls within the range. Both ends are inclusive.
func (r DateRange) Contains(t time.Time) bool {
	d := dateKey(t)
	return dateKey(r.Start) <= d && d <= dateKey(r.End)
}

// Ordered reports whether Start is not after End.
func (r DateRange) Ordered() bool {
	return dateKey(r.Start) <= dateKey(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format(dateLayout) + ".." + r.End.Format(dateLayout)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// Selection is the user's current choice of server, period and thresholds.
// It is rebuilt on every interaction and never persisted.
type Selection struct {
	Server       string     `json:"server"`
	Range        *DateRange `json:"range,omitempty"`
	MinThreshold float64    `json:"min_threshold"`
	MaxThreshold float64    `json:"max_threshold"`
}
