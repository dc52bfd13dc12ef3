package evaluator

import (
	"errors"
	"fmt"

	"github.com/OldStager01/latency-dashboard/pkg/models"
)

var ErrUnknownServer = errors.New("unknown server")

// KeyError reports a selected server that is not a column of the table.
type KeyError struct {
	Server string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("server %q is not a column of the measurement table", e.Server)
}

func (e *KeyError) Is(target error) bool {
	return target == ErrUnknownServer
}

// Result is the outcome of evaluating one selection.
type Result struct {
	View        *models.View
	Status      models.Status
	LatestValue float64
	HasData     bool
}

// Filter returns the rows whose timestamp date lies within r, both ends
// inclusive. A nil range returns every row of the table without copying.
func Filter(table *models.Table, r *models.DateRange) *models.View {
	if r == nil {
		return &models.View{Servers: table.Servers, Rows: table.Rows}
	}

	rows := make([]models.Row, 0, len(table.Rows))
	for _, row := range table.Rows {
		if r.Contains(row.Time) {
			rows = append(rows, row)
		}
	}
	return &models.View{Servers: table.Servers, Rows: rows}
}

// Classify maps the latest value onto a status. The checks run in order:
// below min is OK, otherwise above max is FAIL, anything else is WARNING.
// A value equal to either threshold is therefore a WARNING.
func Classify(value, minThreshold, maxThreshold float64) models.Status {
	switch {
	case value < minThreshold:
		return models.StatusOK
	case value > maxThreshold:
		return models.StatusFail
	default:
		return models.StatusWarning
	}
}

// LatestValue returns the value in the last row of the view, by row order.
// An empty view yields 0.
func LatestValue(view *models.View, column int) (float64, bool) {
	if view.Empty() {
		return 0, false
	}
	return view.Rows[len(view.Rows)-1].Values[column], true
}

// Evaluate filters the table for the selection and classifies the latest
// value of the selected server.
func Evaluate(table *models.Table, sel models.Selection) (*Result, error) {
	column, ok := table.ServerIndex(sel.Server)
	if !ok {
		return nil, &KeyError{Server: sel.Server}
	}

	view := Filter(table, sel.Range)
	latest, hasData := LatestValue(view, column)

	return &Result{
		View:        view,
		Status:      Classify(latest, sel.MinThreshold, sel.MaxThreshold),
		LatestValue: latest,
		HasData:     hasData,
	}, nil
}
