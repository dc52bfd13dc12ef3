package models

import "time"

// ChartPoint is one sample of the plotted series.
type ChartPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// ReferenceLine is a horizontal line drawn across the whole chart.
type ReferenceLine struct {
	Label              string  `json:"label"`
	Value              float64 `json:"value"`
	Dash               string  `json:"dash"`
	AnnotationPosition string  `json:"annotation_position"`
}

// ChartSpec describes the line chart independently of any plotting engine.
type ChartSpec struct {
	Title          string          `json:"title"`
	XField         string          `json:"x"`
	YField         string          `json:"y"`
	Points         []ChartPoint    `json:"points"`
	ReferenceLines []ReferenceLine `json:"reference_lines"`
	// Range is the selected date range, used as the x span when there are
	// no points.
	Range *DateRange `json:"range,omitempty"`
}

// ViewModel is everything a UI binding needs to present one selection.
type ViewModel struct {
	Selection   Selection `json:"selection"`
	Rows        int       `json:"rows"`
	Status      Status    `json:"status"`
	LatestValue float64   `json:"latest_value"`
	HasData     bool      `json:"has_data"`
	StatusText  string    `json:"status_text"`
	Chart       ChartSpec `json:"chart"`
	Summary     *Summary  `json:"summary,omitempty"`
	View        *View     `json:"-"`
}

// Check captures the outcome of this view model as a history record.
func (vm *ViewModel) Check(at time.Time, traceID string) *StatusCheck {
	check := &StatusCheck{
		Server:       vm.Selection.Server,
		Status:       vm.Status,
		LatestValue:  vm.LatestValue,
		MinThreshold: vm.Selection.MinThreshold,
		MaxThreshold: vm.Selection.MaxThreshold,
		Rows:         vm.Rows,
		EvaluatedAt:  at,
		TraceID:      traceID,
	}
	if r := vm.Selection.Range; r != nil {
		start, end := r.Start, r.End
		check.RangeStart = &start
		check.RangeEnd = &end
	}
	return check
}
