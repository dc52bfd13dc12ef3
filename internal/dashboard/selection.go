package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OldStager01/latency-dashboard/pkg/models"
)

var ErrInvalidSelection = errors.New("invalid selection")

// Bounds mirrors the threshold slider: the selectable interval and the
// initial handle positions, all in microseconds.
type Bounds struct {
	Min        float64 `json:"min" yaml:"min"`
	Max        float64 `json:"max" yaml:"max"`
	DefaultMin float64 `json:"default_min" yaml:"default_min"`
	DefaultMax float64 `json:"default_max" yaml:"default_max"`
}

func DefaultBounds() Bounds {
	return Bounds{Min: 0, Max: 10000, DefaultMin: 100, DefaultMax: 500}
}

// SelectionInput is the raw state of the controls. Empty fields fall back
// to the defaults.
type SelectionInput struct {
	Server string   `form:"server" json:"server"`
	Start  string   `form:"start" json:"start"`
	End    string   `form:"end" json:"end"`
	Min    *float64 `form:"min" json:"min"`
	Max    *float64 `form:"max" json:"max"`
}

// Resolve turns control state into a selection. The server defaults to the
// first column of the table; it is not checked here, evaluation reports
// unknown servers. A date range needs both dates or neither.
func Resolve(table *models.Table, in SelectionInput, bounds Bounds) (models.Selection, error) {
	sel := models.Selection{
		Server:       strings.TrimSpace(in.Server),
		MinThreshold: bounds.DefaultMin,
		MaxThreshold: bounds.DefaultMax,
	}

	if sel.Server == "" {
		if len(table.Servers) == 0 {
			return sel, fmt.Errorf("%w: table has no server columns", ErrInvalidSelection)
		}
		sel.Server = table.Servers[0]
	}

	start, end := strings.TrimSpace(in.Start), strings.TrimSpace(in.End)
	switch {
	case start == "" && end == "":
	case start == "" || end == "":
		return sel, fmt.Errorf("%w: date range needs both start and end", ErrInvalidSelection)
	default:
		r, err := models.ParseDateRange(start, end)
		if err != nil {
			return sel, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		if !r.Ordered() {
			return sel, fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidSelection, start, end)
		}
		sel.Range = &r
	}

	if in.Min != nil {
		sel.MinThreshold = *in.Min
	}
	if in.Max != nil {
		sel.MaxThreshold = *in.Max
	}
	if err := bounds.Check(sel.MinThreshold, sel.MaxThreshold); err != nil {
		return sel, err
	}

	return sel, nil
}

// Check enforces what the slider guarantees by construction.
func (b Bounds) Check(minThreshold, maxThreshold float64) error {
	if minThreshold < b.Min || maxThreshold > b.Max {
		return fmt.Errorf("%w: thresholds must be within [%g, %g]", ErrInvalidSelection, b.Min, b.Max)
	}
	if minThreshold > maxThreshold {
		return fmt.Errorf("%w: min threshold %g is greater than max threshold %g", ErrInvalidSelection, minThreshold, maxThreshold)
	}
	return nil
}
