package dashboard

import (
	"fmt"

	"github.com/OldStager01/latency-dashboard/internal/analyzer"
	"github.com/OldStager01/latency-dashboard/internal/evaluator"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

const (
	LabelMaxThreshold = "Threshold Máximo"
	LabelMinThreshold = "Threshold Mínimo"
)

var viewAnalyzer = analyzer.New(analyzer.Config{})

// Render evaluates the selection against the table and builds everything a
// UI needs: the filtered rows, the status and the chart description.
func Render(table *models.Table, sel models.Selection) (*models.ViewModel, error) {
	result, err := evaluator.Evaluate(table, sel)
	if err != nil {
		return nil, err
	}

	vm := &models.ViewModel{
		Selection:   sel,
		Rows:        result.View.Len(),
		Status:      result.Status,
		LatestValue: result.LatestValue,
		HasData:     result.HasData,
		StatusText:  StatusText(result.Status),
		Chart:       BuildChart(result.View, sel),
		View:        result.View,
	}
	if column := columnOf(result.View, sel.Server); column >= 0 {
		vm.Summary = viewAnalyzer.Analyze(result.View, column, sel)
	}
	return vm, nil
}

func StatusText(status models.Status) string {
	return fmt.Sprintf("Status atual: %s", status)
}

func ChartTitle(server string) string {
	return fmt.Sprintf("Tempo de Resposta para o servidor %s", server)
}

// BuildChart describes a line of the selected server over the view with the
// two thresholds as dotted reference lines. The server must be a column of
// the view.
func BuildChart(view *models.View, sel models.Selection) models.ChartSpec {
	column := columnOf(view, sel.Server)

	points := make([]models.ChartPoint, 0, len(view.Rows))
	if column >= 0 {
		for _, row := range view.Rows {
			points = append(points, models.ChartPoint{Time: row.Time, Value: row.Values[column]})
		}
	}

	return models.ChartSpec{
		Title:  ChartTitle(sel.Server),
		XField: models.TimeColumn,
		YField: sel.Server,
		Points: points,
		ReferenceLines: []models.ReferenceLine{
			{Label: LabelMaxThreshold, Value: sel.MaxThreshold, Dash: "dot", AnnotationPosition: "bottom right"},
			{Label: LabelMinThreshold, Value: sel.MinThreshold, Dash: "dot", AnnotationPosition: "bottom right"},
		},
		Range: sel.Range,
	}
}

func columnOf(view *models.View, server string) int {
	for i, s := range view.Servers {
		if s == server {
			return i
		}
	}
	return -1
}
