package generator

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Pattern shapes the response time of one server over time. base is the
// nominal response time in microseconds and step the zero-based row index.
type Pattern interface {
	Apply(base float64, at time.Time, step int, rng *rand.Rand) float64
	Name() string
}

var (
	PatternSteady      Pattern = &SteadyPattern{}
	PatternDaily       Pattern = &DailyPattern{}
	PatternWeekly      Pattern = &WeeklyPattern{}
	PatternRandom      Pattern = &RandomPattern{}
	PatternGradualRise Pattern = &GradualRisePattern{PercentPerStep: 2, MaxPercent: 300}
	PatternSpike       Pattern = &SpikePattern{Every: 12, Factor: 8}
	PatternSineWave    Pattern = &SineWavePattern{Period: 24, Amplitude: 0.3}
)

func PatternNames() []string {
	return []string{"steady", "daily", "weekly", "random", "gradual_rise", "spike", "sine_wave"}
}

func ParsePattern(name string) (Pattern, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "steady":
		return PatternSteady, nil
	case "daily":
		return PatternDaily, nil
	case "weekly":
		return PatternWeekly, nil
	case "random":
		return PatternRandom, nil
	case "gradual_rise":
		return PatternGradualRise, nil
	case "spike":
		return PatternSpike, nil
	case "sine_wave":
		return PatternSineWave, nil
	default:
		return nil, fmt.Errorf("unknown pattern %q (valid: %s)", name, strings.Join(PatternNames(), ", "))
	}
}

// SteadyPattern - constant response time
type SteadyPattern struct{}

func (p *SteadyPattern) Apply(base float64, _ time.Time, _ int, _ *rand.Rand) float64 {
	return base
}

func (p *SteadyPattern) Name() string {
	return "steady"
}

// DailyPattern - slower responses during business hours
type DailyPattern struct{}

func (p *DailyPattern) Apply(base float64, at time.Time, _ int, _ *rand.Rand) float64 {
	return base * hourModifier(at.Hour())
}

func (p *DailyPattern) Name() string {
	return "daily"
}

func hourModifier(hour int) float64 {
	switch {
	case hour >= 9 && hour <= 11:
		return 1.8
	case hour >= 14 && hour <= 16:
		return 1.6
	case hour >= 17 && hour <= 20:
		return 1.2
	case hour >= 0 && hour <= 6:
		return 0.6
	default:
		return 1.0
	}
}

// WeeklyPattern - daily cycle on weekdays, quiet weekends
type WeeklyPattern struct{}

func (p *WeeklyPattern) Apply(base float64, at time.Time, _ int, _ *rand.Rand) float64 {
	if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return base * 0.5
	}
	return base * hourModifier(at.Hour())
}

func (p *WeeklyPattern) Name() string {
	return "weekly"
}

// RandomPattern - jitter between half and one and a half times the base
type RandomPattern struct{}

func (p *RandomPattern) Apply(base float64, _ time.Time, _ int, rng *rand.Rand) float64 {
	return base * (0.5 + rng.Float64())
}

func (p *RandomPattern) Name() string {
	return "random"
}

// GradualRisePattern - response time degrading row after row
type GradualRisePattern struct {
	PercentPerStep float64
	MaxPercent     float64
}

func (p *GradualRisePattern) Apply(base float64, _ time.Time, step int, _ *rand.Rand) float64 {
	increase := math.Min(float64(step)*p.PercentPerStep, p.MaxPercent)
	return base * (1 + increase/100)
}

func (p *GradualRisePattern) Name() string {
	return "gradual_rise"
}

// SpikePattern - steady with a periodic outlier
type SpikePattern struct {
	Every  int
	Factor float64
}

func (p *SpikePattern) Apply(base float64, _ time.Time, step int, _ *rand.Rand) float64 {
	if p.Every > 0 && step > 0 && step%p.Every == 0 {
		return base * p.Factor
	}
	return base
}

func (p *SpikePattern) Name() string {
	return "spike"
}

// SineWavePattern - smooth oscillation. Period is in rows, Amplitude a
// fraction of the base.
type SineWavePattern struct {
	Period    int
	Amplitude float64
}

func (p *SineWavePattern) Apply(base float64, _ time.Time, step int, _ *rand.Rand) float64 {
	period := p.Period
	if period <= 0 {
		period = 24
	}
	phase := float64(step) / float64(period) * 2 * math.Pi
	return base * (1 + p.Amplitude*math.Sin(phase))
}

func (p *SineWavePattern) Name() string {
	return "sine_wave"
}
