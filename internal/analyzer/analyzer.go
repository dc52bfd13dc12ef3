package analyzer

import (
	"math"
	"slices"

	"github.com/OldStager01/latency-dashboard/internal/evaluator"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

type Config struct {
	// TrendThreshold is the percent change between the mean of the first and
	// second half of the view that counts as rising or falling.
	TrendThreshold float64
	// SpikeThreshold is the percent jump of the latest value over the one
	// before it that counts as a spike.
	SpikeThreshold float64
}

type Analyzer struct {
	config Config
}

func New(cfg Config) *Analyzer {
	if cfg.TrendThreshold == 0 {
		cfg.TrendThreshold = 10.0
	}
	if cfg.SpikeThreshold == 0 {
		cfg.SpikeThreshold = 50.0
	}
	return &Analyzer{config: cfg}
}

// Analyze summarizes one column of the view under the selection's
// thresholds. An empty view gives a zero summary with a stable trend.
func (a *Analyzer) Analyze(view *models.View, column int, sel models.Selection) *models.Summary {
	values := make([]float64, len(view.Rows))
	for i, row := range view.Rows {
		values[i] = row.Values[column]
	}

	summary := &models.Summary{Count: len(values), Trend: models.TrendStable}
	if len(values) == 0 {
		return summary
	}

	summary.Min, summary.Max, summary.Mean = stats(values)
	summary.P95 = percentile(values, 95)
	summary.Trend = a.trend(values)
	summary.HasSpike, summary.SpikePercent = a.spike(values)

	for _, v := range values {
		if v > sel.MaxThreshold {
			summary.Breaches++
		}
	}

	latest := evaluator.Classify(values[len(values)-1], sel.MinThreshold, sel.MaxThreshold)
	start := len(values) - 1
	for start > 0 && evaluator.Classify(values[start-1], sel.MinThreshold, sel.MaxThreshold) == latest {
		start--
	}
	since := view.Rows[start].Time
	summary.Streak = len(values) - start
	summary.StreakSince = &since

	return summary
}

func stats(values []float64) (lo, hi, mean float64) {
	lo, hi = values[0], values[0]
	var total float64
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		total += v
	}
	return lo, hi, total / float64(len(values))
}

// percentile uses the nearest-rank method.
func percentile(values []float64, p float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

func (a *Analyzer) trend(values []float64) models.Trend {
	if len(values) < 3 {
		return models.TrendStable
	}

	_, _, firstAvg := stats(values[:len(values)/2])
	_, _, secondAvg := stats(values[len(values)/2:])
	if firstAvg == 0 {
		return models.TrendStable
	}

	change := (secondAvg - firstAvg) / firstAvg * 100
	switch {
	case change > a.config.TrendThreshold:
		return models.TrendRising
	case change < -a.config.TrendThreshold:
		return models.TrendFalling
	default:
		return models.TrendStable
	}
}

func (a *Analyzer) spike(values []float64) (bool, float64) {
	if len(values) < 2 {
		return false, 0
	}

	previous, current := values[len(values)-2], values[len(values)-1]
	if previous == 0 {
		return false, 0
	}

	changePercent := (current - previous) / previous * 100
	return changePercent >= a.config.SpikeThreshold, changePercent
}
