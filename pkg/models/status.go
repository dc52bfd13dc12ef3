package models

import "time"

type Status string

const (
	StatusOK      Status = "OK"
	StatusWarning Status = "WARNING"
	StatusFail    Status = "FAIL"
)

func (s Status) Severity() EventSeverity {
	switch s {
	case StatusFail:
		return SeverityCritical
	case StatusWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// StatusCheck records one evaluation of a selection.
type StatusCheck struct {
	ID           int64      `json:"id,omitempty"`
	Server       string     `json:"server"`
	Status       Status     `json:"status"`
	LatestValue  float64    `json:"latest_value"`
	MinThreshold float64    `json:"min_threshold"`
	MaxThreshold float64    `json:"max_threshold"`
	RangeStart   *time.Time `json:"range_start,omitempty"`
	RangeEnd     *time.Time `json:"range_end,omitempty"`
	Rows         int        `json:"rows"`
	EvaluatedAt  time.Time  `json:"evaluated_at"`
	TraceID      string     `json:"trace_id,omitempty"`
}
