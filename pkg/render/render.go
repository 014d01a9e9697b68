// Package render maps chart suggestions onto concrete, type-specific charts.
// Rendering is pure: it never mutates the suggestion and never fails.
package render

import (
	"github.com/StudioSol/set"
	"github.com/raykavin/chartwise/pkg/core"
)

const (
	// PieNameField labels each pie slice
	PieNameField = "name"
	// PieValueField sizes each pie slice
	PieValueField = "value"

	// DenseCategories is the distinct label count above which bar labels are rotated
	DenseCategories = 6

	areaFillOpacity = 0.6
)

// Render dispatches a suggestion to its chart family.
// colorIndex is the suggestion's position on the page.
func Render(suggestion core.ChartSuggestion, colorIndex int) Chart {
	meta := Meta{
		Type:        suggestion.Type,
		Kind:        suggestion.Kind(),
		Title:       suggestion.Title,
		Explanation: suggestion.Explanation,
		PointCount:  len(suggestion.Data),
	}

	color := ColorAt(colorIndex)

	switch meta.Kind {
	case core.KindBar:
		return renderBar(meta, suggestion, color)
	case core.KindLine:
		return renderLine(meta, suggestion, color)
	case core.KindPie:
		return renderPie(meta, suggestion)
	case core.KindScatter:
		return renderScatter(meta, suggestion, color)
	case core.KindArea:
		return renderArea(meta, suggestion, color)
	default:
		return &Unsupported{Meta: meta, Omitted: len(suggestion.Data)}
	}
}

// RenderAll renders suggestions in order, using each position as the color index
func RenderAll(suggestions []core.ChartSuggestion) []Chart {
	charts := make([]Chart, len(suggestions))
	for i, suggestion := range suggestions {
		charts[i] = Render(suggestion, i)
	}
	return charts
}

func renderBar(meta Meta, s core.ChartSuggestion, color string) *BarChart {
	points := bindPoints(s.Data, s.XAxis, s.YAxis)

	labels := set.NewLinkedHashSetString()
	for _, point := range points {
		labels.Add(point.Label)
	}

	return &BarChart{
		Meta:         meta,
		XField:       s.XAxis,
		YField:       s.YAxis,
		Color:        color,
		RotateLabels: labels.Length() > DenseCategories,
		Points:       points,
	}
}

func renderLine(meta Meta, s core.ChartSuggestion, color string) *LineChart {
	return &LineChart{
		Meta:   meta,
		XField: s.XAxis,
		YField: s.YAxis,
		Color:  color,
		Smooth: true,
		Points: bindPoints(s.Data, s.XAxis, s.YAxis),
	}
}

func renderArea(meta Meta, s core.ChartSuggestion, color string) *AreaChart {
	return &AreaChart{
		Meta:        meta,
		XField:      s.XAxis,
		YField:      s.YAxis,
		Stroke:      color,
		Fill:        color,
		FillOpacity: areaFillOpacity,
		Points:      bindPoints(s.Data, s.XAxis, s.YAxis),
	}
}

func renderScatter(meta Meta, s core.ChartSuggestion, color string) *ScatterChart {
	points := make([]XY, len(s.Data))
	for i, record := range s.Data {
		x, xOK := number(record, s.XAxis)
		y, yOK := number(record, s.YAxis)
		points[i] = XY{X: x, Y: y, Valid: xOK && yOK}
	}

	return &ScatterChart{
		Meta:   meta,
		XField: s.XAxis,
		YField: s.YAxis,
		Color:  color,
		Points: points,
	}
}

// renderPie colors slices by their own position, not by the suggestion's
func renderPie(meta Meta, s core.ChartSuggestion) *PieChart {
	slices := make([]Slice, len(s.Data))
	for i, record := range s.Data {
		value, ok := number(record, PieValueField)
		slices[i] = Slice{
			Name:  label(record, PieNameField),
			Value: value,
			Valid: ok,
			Color: ColorAt(i),
		}
	}

	return &PieChart{
		Meta:       meta,
		NameField:  PieNameField,
		ValueField: PieValueField,
		Slices:     slices,
	}
}

func bindPoints(data []core.Record, xField, yField string) []Point {
	points := make([]Point, len(data))
	for i, record := range data {
		value, ok := number(record, yField)
		points[i] = Point{
			Label: label(record, xField),
			Value: value,
			Valid: ok,
		}
	}
	return points
}

// label reads a categorical binding; missing fields read as empty
func label(record core.Record, field string) string {
	value, ok := record.Get(field)
	if !ok {
		return ""
	}
	return value.String()
}

// number reads a numeric binding; missing or non-numeric fields are invalid
func number(record core.Record, field string) (float64, bool) {
	value, ok := record.Get(field)
	if !ok {
		return 0, false
	}
	return value.Float64()
}
