package models

import "time"

type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// Summary describes the selected server's values across a filtered view.
// Values are in microseconds.
type Summary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	P95   float64 `json:"p95"`

	Trend        Trend   `json:"trend"`
	HasSpike     bool    `json:"has_spike"`
	SpikePercent float64 `json:"spike_percent,omitempty"`

	// Rows at the end of the view classified like the latest one, and the
	// timestamp of the first of them.
	Streak      int        `json:"streak"`
	StreakSince *time.Time `json:"streak_since,omitempty"`

	// Rows above the maximum threshold.
	Breaches int `json:"breaches"`
}

func (s *Summary) BreachRatio() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Breaches) / float64(s.Count)
}
