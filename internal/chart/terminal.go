package chart

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/OldStager01/latency-dashboard/pkg/models"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Background(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Background(lipgloss.Color("208"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Background(lipgloss.Color("196"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Background(lipgloss.Color("240"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// StatusStyle is the foreground color used for a status.
func StatusStyle(status models.Status) lipgloss.Style {
	switch status {
	case models.StatusOK:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	case models.StatusWarning:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	}
}

// Terminal renders the spec as a bar per sample, newest on the right, each
// bar colored by where it falls against the reference lines. Only the most
// recent samples that fit the width are shown.
func Terminal(spec models.ChartSpec, width, height int, classify func(float64) models.Status) string {
	if width < 20 {
		width = 20
	}
	if height < 4 {
		height = 4
	}

	header := titleStyle.Render(spec.Title)
	if len(spec.Points) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, mutedStyle.Render("No data in the selected period"))
	}

	maxBars := width / 2
	points := spec.Points
	padding := 0
	if len(points) > maxBars {
		points = points[len(points)-maxBars:]
	} else {
		padding = maxBars - len(points)
	}

	bc := barchart.New(width, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)

	for i := 0; i < padding; i++ {
		bc.Push(barchart.BarData{
			Values: []barchart.BarValue{{Name: "EMPTY", Value: 0, Style: emptyStyle}},
		})
	}

	lo, hi := points[0].Value, points[0].Value
	for _, p := range points {
		lo, hi = min(lo, p.Value), max(hi, p.Value)
		bc.Push(barchart.BarData{
			Values: []barchart.BarValue{{Name: string(classify(p.Value)), Value: p.Value, Style: barStyle(classify(p.Value))}},
		})
	}

	bc.Draw()

	refs := make([]string, 0, len(spec.ReferenceLines))
	for _, line := range spec.ReferenceLines {
		refs = append(refs, fmt.Sprintf("%s: %g µs", line.Label, line.Value))
	}
	footer := mutedStyle.Render(fmt.Sprintf("%s -> %s  min %g µs  max %g µs  %s",
		points[0].Time.Format("2006-01-02 15:04:05"),
		points[len(points)-1].Time.Format("2006-01-02 15:04:05"),
		lo, hi, strings.Join(refs, "  ")))

	return lipgloss.JoinVertical(lipgloss.Left, header, bc.View(), footer)
}

func barStyle(status models.Status) lipgloss.Style {
	switch status {
	case models.StatusOK:
		return okStyle
	case models.StatusWarning:
		return warningStyle
	default:
		return failStyle
	}
}
