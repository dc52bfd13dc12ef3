package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/OldStager01/latency-dashboard/pkg/models"
)

var ErrNoData = errors.New("nothing to plot")

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("unsupported chart format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

const (
	DefaultWidth  = 1024
	DefaultHeight = 480
)

var (
	seriesColor = drawing.ColorFromHex("1f77b4")
	maxColor    = drawing.ColorFromHex("d62728")
	minColor    = drawing.ColorFromHex("2ca02c")
	dotted      = []float64{2, 4}
)

// Render draws the spec as a line chart with the reference lines dotted
// across the full time span. A spec without points still draws the
// reference lines over its date range.
func Render(w io.Writer, spec models.ChartSpec, format Format, width, height int) error {
	if len(spec.Points) == 0 && len(spec.ReferenceLines) == 0 {
		return ErrNoData
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	times := make([]time.Time, len(spec.Points))
	values := make([]float64, len(spec.Points))
	for i, p := range spec.Points {
		times[i] = p.Time
		values[i] = p.Value
	}

	var first, last time.Time
	if len(times) > 0 {
		first, last = spanOf(times)
	} else {
		first, last = emptySpan(spec.Range)
	}
	if !last.After(first) {
		// a single instant has no x range to draw on
		last = first.Add(time.Second)
	}
	if len(times) == 1 {
		times = append(times, last)
		values = append(values, values[0])
	}

	var series []gochart.Series
	if len(times) > 0 {
		series = append(series, gochart.TimeSeries{
			Name:    spec.YField,
			XValues: times,
			YValues: values,
			Style:   gochart.Style{StrokeColor: seriesColor, StrokeWidth: 2},
		})
	}

	annotations := make([]gochart.Value2, 0, len(spec.ReferenceLines))
	for _, line := range spec.ReferenceLines {
		color := minColor
		if line.Value >= maxReference(spec.ReferenceLines) {
			color = maxColor
		}
		style := gochart.Style{StrokeColor: color, StrokeWidth: 1.5}
		if line.Dash == "dot" || line.Dash == "dash" {
			style.StrokeDashArray = dotted
		}
		series = append(series, gochart.TimeSeries{
			Name:    line.Label,
			XValues: []time.Time{first, last},
			YValues: []float64{line.Value, line.Value},
			Style:   style,
		})
		annotations = append(annotations, gochart.Value2{
			XValue: gochart.TimeToFloat64(annotationX(line.AnnotationPosition, first, last)),
			YValue: line.Value,
			Label:  line.Label,
		})
	}
	if len(annotations) > 0 {
		series = append(series, gochart.AnnotationSeries{Annotations: annotations})
	}

	lo, hi := yRange(values, spec.ReferenceLines)
	ch := gochart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:           spec.XField,
			ValueFormatter: gochart.TimeValueFormatterWithFormat(timeLabelLayout(first, last)),
		},
		YAxis: gochart.YAxis{
			Name:  "µs",
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	provider := gochart.PNG
	if format == FormatSVG {
		provider = gochart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// emptySpan covers the selected dates, or the current day when no range is
// selected.
func emptySpan(r *models.DateRange) (time.Time, time.Time) {
	if r == nil {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		return today, today.Add(24 * time.Hour)
	}
	return r.Start, r.End.Add(24 * time.Hour)
}

func spanOf(times []time.Time) (first, last time.Time) {
	first, last = times[0], times[0]
	for _, t := range times[1:] {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	return first, last
}

func maxReference(lines []models.ReferenceLine) float64 {
	m := lines[0].Value
	for _, l := range lines[1:] {
		if l.Value > m {
			m = l.Value
		}
	}
	return m
}

func annotationX(position string, first, last time.Time) time.Time {
	if strings.Contains(position, "left") {
		return first
	}
	return last
}

// yRange covers the data and every reference line with a small margin.
func yRange(values []float64, lines []models.ReferenceLine) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	for _, l := range lines {
		lo, hi = min(lo, l.Value), max(hi, l.Value)
	}
	if lo > hi {
		return 0, 1
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

func timeLabelLayout(first, last time.Time) string {
	switch span := last.Sub(first); {
	case span <= time.Hour:
		return "15:04:05"
	case span <= 48*time.Hour:
		return "01-02 15:04"
	default:
		return "2006-01-02"
	}
}
