// Package draw rasterizes rendered charts to PNG or SVG.
package draw

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/raykavin/chartwise/pkg/render"
	"github.com/samber/lo"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format selects the output encoding
type Format int

const (
	PNG Format = iota
	SVG
)

// Extension returns the file extension for the format
func (f Format) Extension() string {
	if f == SVG {
		return ".svg"
	}
	return ".png"
}

// text prepares chart text for the format. go-chart writes SVG text nodes
// verbatim, so markup in titles and labels is escaped there.
func (f Format) text(s string) string {
	if f == SVG {
		return html.EscapeString(s)
	}
	return s
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Options sets the canvas size
type Options struct {
	Width  int
	Height int
}

// DefaultOptions is the size used by the web view
var DefaultOptions = Options{Width: 640, Height: 360}

const (
	curveSamples = 8
	dotWidth     = 4
	strokeWidth  = 2
)

// Draw writes c to w. Unsupported charts and charts without drawable points
// produce a text placeholder instead of an error.
func Draw(w io.Writer, c render.Chart, format Format, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions
	}

	switch ch := c.(type) {
	case *render.BarChart:
		return drawBar(w, ch, format, opts)
	case *render.LineChart:
		return drawLine(w, ch, format, opts)
	case *render.AreaChart:
		return drawArea(w, ch, format, opts)
	case *render.ScatterChart:
		return drawScatter(w, ch, format, opts)
	case *render.PieChart:
		return drawPie(w, ch, format, opts)
	case *render.Unsupported:
		return Placeholder(w, format, opts, fmt.Sprintf("Unsupported chart type: %s", ch.Type))
	default:
		return Placeholder(w, format, opts, "Unsupported chart")
	}
}

// Bytes draws c into memory
func Bytes(c render.Chart, format Format, opts Options) ([]byte, error) {
	buffer := bytes.NewBuffer(nil)
	if err := Draw(buffer, c, format, opts); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func drawBar(w io.Writer, c *render.BarChart, format Format, opts Options) error {
	color := hexColor(c.Color)
	bars := make([]chart.Value, 0, len(c.Points))
	for _, p := range c.Points {
		if !p.Valid {
			continue
		}
		bars = append(bars, chart.Value{
			Label: format.text(p.Label),
			Value: p.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	if len(bars) == 0 {
		return noData(w, format, opts)
	}

	lower, upper := valueRange(lo.Map(bars, func(v chart.Value, _ int) float64 { return v.Value }), true)

	graph := chart.BarChart{
		Title:      format.text(c.Title),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		BarWidth:   barWidth(len(bars), opts.Width),
		YAxis:      chart.YAxis{Name: format.text(c.YField), Range: &chart.ContinuousRange{Min: lower, Max: upper}},
		Bars:       bars,
	}
	if c.RotateLabels {
		graph.XAxis = chart.Style{TextRotationDegrees: 45}
	}

	return graph.Render(format.provider(), w)
}

func drawLine(w io.Writer, c *render.LineChart, format Format, opts Options) error {
	runs := c.Curve(curveSamples)
	if len(runs) == 0 {
		return noData(w, format, opts)
	}

	style := chart.Style{StrokeColor: hexColor(c.Color), StrokeWidth: strokeWidth}
	series := make([]chart.Series, 0, len(runs))
	values := make([]float64, 0)
	for _, run := range runs {
		xs, ys := split(run)
		values = append(values, ys...)
		series = append(series, chart.ContinuousSeries{XValues: xs, YValues: ys, Style: runStyle(style, run)})
	}

	return categorical(w, c.Title, c.YField, labels(c.Points), values, series, format, opts)
}

// runStyle marks isolated points with a dot since they have no segment to stroke
func runStyle(style chart.Style, run []render.CurvePoint) chart.Style {
	if len(run) == 1 {
		style.DotWidth = dotWidth
		style.DotColor = style.StrokeColor
	}
	return style
}

func drawArea(w io.Writer, c *render.AreaChart, format Format, opts Options) error {
	line := &render.LineChart{Points: c.Points}
	runs := line.Curve(1)
	if len(runs) == 0 {
		return noData(w, format, opts)
	}

	stroke := hexColor(c.Stroke)
	style := chart.Style{
		StrokeColor: stroke,
		StrokeWidth: strokeWidth,
		FillColor:   hexColor(c.Fill).WithAlpha(uint8(c.FillOpacity * 255)),
	}

	series := make([]chart.Series, 0, len(runs))
	values := make([]float64, 0)
	for _, run := range runs {
		xs, ys := split(run)
		values = append(values, ys...)
		series = append(series, chart.ContinuousSeries{XValues: xs, YValues: ys, Style: runStyle(style, run)})
	}

	return categorical(w, c.Title, c.YField, labels(c.Points), values, series, format, opts)
}

func drawScatter(w io.Writer, c *render.ScatterChart, format Format, opts Options) error {
	points := lo.Filter(c.Points, func(p render.XY, _ int) bool { return p.Valid })
	if len(points) == 0 {
		return noData(w, format, opts)
	}

	xs := lo.Map(points, func(p render.XY, _ int) float64 { return p.X })
	ys := lo.Map(points, func(p render.XY, _ int) float64 { return p.Y })
	xMin, xMax := valueRange(xs, false)
	yMin, yMax := valueRange(ys, false)

	graph := chart.Chart{
		Title:      format.text(c.Title),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		XAxis:      chart.XAxis{Name: format.text(c.XField), Range: &chart.ContinuousRange{Min: xMin, Max: xMax}},
		YAxis:      chart.YAxis{Name: format.text(c.YField), Range: &chart.ContinuousRange{Min: yMin, Max: yMax}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    dotWidth,
					DotColor:    hexColor(c.Color),
				},
			},
		},
	}

	return graph.Render(format.provider(), w)
}

func drawPie(w io.Writer, c *render.PieChart, format Format, opts Options) error {
	values := make([]chart.Value, 0, len(c.Slices))
	for _, slice := range c.Slices {
		if !slice.Valid || slice.Value <= 0 {
			continue
		}
		color := hexColor(slice.Color)
		values = append(values, chart.Value{
			Label: format.text(slice.Name),
			Value: slice.Value,
			Style: chart.Style{FillColor: color, StrokeColor: drawing.ColorWhite},
		})
	}
	if len(values) == 0 {
		return noData(w, format, opts)
	}

	graph := chart.PieChart{
		Title:  format.text(c.Title),
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}

	return graph.Render(format.provider(), w)
}

// categorical draws series laid out on point positions, labelled with the x values
func categorical(w io.Writer, title, yName string, ticks []string, values []float64, series []chart.Series, format Format, opts Options) error {
	yMin, yMax := valueRange(values, false)

	xMin, xMax := 0.0, float64(len(ticks)-1)
	if xMax <= xMin {
		xMin, xMax = -0.5, 0.5
	}

	graph := chart.Chart{
		Title:      format.text(title),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: lo.Map(ticks, func(label string, i int) chart.Tick {
				return chart.Tick{Value: float64(i), Label: format.text(label)}
			}),
		},
		YAxis:  chart.YAxis{Name: format.text(yName), Range: &chart.ContinuousRange{Min: yMin, Max: yMax}},
		Series: series,
	}

	return graph.Render(format.provider(), w)
}

func noData(w io.Writer, format Format, opts Options) error {
	return Placeholder(w, format, opts, "No data to display")
}

// Placeholder draws a centered message on a blank canvas
func Placeholder(w io.Writer, format Format, opts Options, message string) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions
	}

	renderer, err := format.provider()(opts.Width, opts.Height)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}

	renderer.SetDPI(chart.DefaultDPI)

	renderer.SetFillColor(drawing.ColorWhite)
	renderer.SetStrokeColor(drawing.ColorFromHex("cccccc"))
	renderer.SetStrokeWidth(1)
	renderer.MoveTo(0, 0)
	renderer.LineTo(opts.Width, 0)
	renderer.LineTo(opts.Width, opts.Height)
	renderer.LineTo(0, opts.Height)
	renderer.LineTo(0, 0)
	renderer.Close()
	renderer.FillStroke()

	renderer.SetFont(font)
	renderer.SetFontSize(12)
	renderer.SetFontColor(drawing.ColorFromHex("666666"))
	box := renderer.MeasureText(message)
	renderer.Text(format.text(message), (opts.Width-box.Width())/2, (opts.Height+box.Height())/2)

	return renderer.Save(w)
}

func labels(points []render.Point) []string {
	return lo.Map(points, func(p render.Point, _ int) string { return p.Label })
}

func split(run []render.CurvePoint) ([]float64, []float64) {
	xs := make([]float64, len(run))
	ys := make([]float64, len(run))
	for i, p := range run {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

// valueRange returns padded axis bounds that never collapse to zero width
func valueRange(values []float64, includeZero bool) (float64, float64) {
	lower, upper := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lower = math.Min(lower, v)
		upper = math.Max(upper, v)
	}
	if includeZero {
		lower = math.Min(lower, 0)
		upper = math.Max(upper, 0)
	}
	if upper <= lower {
		return lower - 1, upper + 1
	}

	pad := (upper - lower) * 0.05
	if includeZero && lower == 0 {
		return 0, upper + pad
	}
	return lower - pad, upper + pad
}

func barWidth(count, width int) int {
	if count == 0 {
		return 0
	}
	return lo.Clamp(width/(count*2), 8, 60)
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
