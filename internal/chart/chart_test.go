package chart

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/latency-dashboard/pkg/models"
)

func spec(n int) models.ChartSpec {
	points := make([]models.ChartPoint, n)
	for i := range points {
		points[i] = models.ChartPoint{
			Time:  time.Date(2024, 1, 1, 0, i, 0, 0, time.UTC),
			Value: float64(50 + i*100),
		}
	}
	return models.ChartSpec{
		Title:  "Tempo de Resposta para o servidor srv1",
		XField: "Time",
		YField: "srv1",
		Points: points,
		ReferenceLines: []models.ReferenceLine{
			{Label: "Threshold Máximo", Value: 500, Dash: "dot", AnnotationPosition: "bottom right"},
			{Label: "Threshold Mínimo", Value: 100, Dash: "dot", AnnotationPosition: "bottom right"},
		},
	}
}

func classify(v float64) models.Status {
	switch {
	case v < 100:
		return models.StatusOK
	case v > 500:
		return models.StatusFail
	default:
		return models.StatusWarning
	}
}

func TestRender_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, spec(8), FormatPNG, 640, 320))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRender_SVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, spec(3), FormatSVG, 0, 0))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRender_SinglePoint(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Render(&buf, spec(1), FormatPNG, 320, 200))
	assert.NotZero(t, buf.Len())
}

func TestRender_EmptyViewDrawsThresholds(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, spec(0), FormatPNG, 0, 0))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	r := models.NewDateRange(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	empty := spec(0)
	empty.Range = &r
	buf.Reset()
	require.NoError(t, Render(&buf, empty, FormatSVG, 320, 200))
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "Threshold")
}

func TestRender_NothingToPlot(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Render(&buf, models.ChartSpec{Title: "x"}, FormatPNG, 320, 200), ErrNoData)
}

func TestEmptySpan(t *testing.T) {
	r := models.NewDateRange(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	first, last := emptySpan(&r)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), last)

	first, last = emptySpan(nil)
	assert.Equal(t, 24*time.Hour, last.Sub(first))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".SVG")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())
	assert.Equal(t, "image/png", FormatPNG.ContentType())

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestYRange(t *testing.T) {
	lo, hi := yRange([]float64{200}, []models.ReferenceLine{{Value: 100}, {Value: 500}})
	assert.Less(t, lo, 100.0)
	assert.Greater(t, hi, 500.0)

	lo, hi = yRange([]float64{7}, nil)
	assert.Equal(t, 6.0, lo)
	assert.Equal(t, 8.0, hi)

	lo, hi = yRange(nil, []models.ReferenceLine{{Value: 100}, {Value: 500}})
	assert.Equal(t, 80.0, lo)
	assert.Equal(t, 520.0, hi)

	lo, hi = yRange(nil, nil)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestTerminal(t *testing.T) {
	out := Terminal(spec(5), 40, 6, classify)
	assert.Contains(t, out, "Tempo de Resposta para o servidor srv1")
	assert.Contains(t, out, "Threshold Máximo: 500 µs")
	assert.Contains(t, out, "2024-01-01 00:04:00")
}

func TestTerminal_TruncatesToWidth(t *testing.T) {
	out := Terminal(spec(100), 20, 4, classify)
	// 10 bars fit, so the oldest visible sample is index 90
	assert.Contains(t, out, "2024-01-01 01:30:00 ->")
}

func TestTerminal_Empty(t *testing.T) {
	out := Terminal(spec(0), 40, 6, classify)
	assert.True(t, strings.Contains(out, "No data in the selected period"))
}
