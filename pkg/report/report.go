// Package report prints upload results and rendered charts to a terminal.
package report

import (
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/chartwise/pkg/core"
	"github.com/raykavin/chartwise/pkg/metric"
	"github.com/raykavin/chartwise/pkg/render"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	histogramBins  = 8
	histogramWidth = 30

	bootstrapResamples  = 1000
	bootstrapConfidence = 0.95
	bootstrapSeed       = 1
)

var (
	headingStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	explanationStyle = lipgloss.NewStyle().Italic(true).Faint(true)
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8042")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Faint(true)
)

// Report writes a textual view of an upload result
type Report struct {
	out io.Writer
}

func New(out io.Writer) *Report {
	return &Report{out: out}
}

// Result prints the dataset panel followed by every suggestion, in order
func (r *Report) Result(result *core.UploadResult) {
	r.DataInfo(result.DataInfo)

	for _, c := range render.RenderAll(result.ChartSuggestions) {
		fmt.Fprintln(r.out)
		r.Chart(c)
	}
}

// DataInfo prints the dataset overview and its sample rows
func (r *Report) DataInfo(info core.DataInfo) {
	fmt.Fprintln(r.out, headingStyle.Render("Dataset"))
	fmt.Fprintf(r.out, "Rows: %d  Columns: %d\n", info.RowCount, info.ColumnCount)

	columns := tablewriter.NewWriter(r.out)
	columns.SetHeader([]string{"Column", "Type"})
	for _, column := range info.Columns {
		columns.Append([]string{column, info.ColumnTypes[column]})
	}
	columns.Render()

	if len(info.SampleData) == 0 {
		return
	}

	fmt.Fprintln(r.out, headingStyle.Render("Sample"))
	sample := tablewriter.NewWriter(r.out)
	sample.SetHeader(info.Columns)
	for _, record := range info.SampleData {
		sample.Append(lo.Map(info.Columns, func(column string, _ int) string {
			return record[column].String()
		}))
	}
	sample.Render()
}

// Chart prints one rendered chart with its data table and point-count footer
func (r *Report) Chart(c render.Chart) {
	meta := c.Describe()

	switch ch := c.(type) {
	case *render.BarChart:
		r.title(meta, ch.Color)
		r.points(ch.XField, ch.YField, ch.Points)
	case *render.LineChart:
		r.title(meta, ch.Color)
		r.points(ch.XField, ch.YField, ch.Points)
	case *render.AreaChart:
		r.title(meta, ch.Stroke)
		r.points(ch.XField, ch.YField, ch.Points)
	case *render.ScatterChart:
		r.title(meta, ch.Color)
		r.scatter(ch)
	case *render.PieChart:
		r.title(meta, "")
		r.pie(ch)
	case *render.Unsupported:
		r.title(meta, "")
		fmt.Fprintln(r.out, placeholderStyle.Render(fmt.Sprintf("Unsupported chart type: %s", ch.Type)))
		fmt.Fprintf(r.out, "%d data points not rendered\n", ch.Omitted)
	}

	fmt.Fprintln(r.out, footerStyle.Render(pointCount(meta.PointCount)))
}

func (r *Report) title(meta render.Meta, color string) {
	style := headingStyle
	if color != "" {
		style = style.Foreground(lipgloss.Color(color))
	}

	fmt.Fprintf(r.out, "%s [%s]\n", style.Render(meta.Title), meta.Kind)
	if meta.Explanation != "" {
		fmt.Fprintln(r.out, explanationStyle.Render(meta.Explanation))
	}
}

func (r *Report) points(xField, yField string, points []render.Point) {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{header(xField, "x"), header(yField, "y")})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	values := make([]float64, 0, len(points))
	for _, p := range points {
		table.Append([]string{p.Label, number(p.Value, p.Valid)})
		if p.Valid {
			values = append(values, p.Value)
		}
	}
	table.Render()

	r.summary(values)
}

func (r *Report) scatter(c *render.ScatterChart) {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{header(c.XField, "x"), header(c.YField, "y")})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	values := make([]float64, 0, len(c.Points))
	for _, p := range c.Points {
		table.Append([]string{number(p.X, p.Valid), number(p.Y, p.Valid)})
		if p.Valid {
			values = append(values, p.Y)
		}
	}
	table.Render()

	r.summary(values)
}

func (r *Report) pie(c *render.PieChart) {
	total := lo.SumBy(c.Slices, func(s render.Slice) float64 {
		if !s.Valid {
			return 0
		}
		return s.Value
	})

	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{c.NameField, c.ValueField, "share"})
	for _, slice := range c.Slices {
		share := ""
		if slice.Valid && total > 0 {
			share = fmt.Sprintf("%.1f %%", slice.Value/total*100)
		}
		table.Append([]string{
			lipgloss.NewStyle().Foreground(lipgloss.Color(slice.Color)).Render(slice.Name),
			number(slice.Value, slice.Valid),
			share,
		})
	}
	table.Render()
}

// summary prints basic statistics and a histogram of the plotted values
func (r *Report) summary(values []float64) {
	if len(values) < 2 {
		return
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	fmt.Fprintf(r.out, "min %.4g  max %.4g  mean %.4g  median %.4g  stddev %.4g\n",
		floats.Min(values),
		floats.Max(values),
		stat.Mean(values, nil),
		stat.Quantile(0.5, stat.Empirical, sorted, nil),
		stat.StdDev(values, nil),
	)

	interval := metric.Bootstrap(values, metric.MeanOf, bootstrapResamples, bootstrapConfidence,
		rand.New(rand.NewSource(bootstrapSeed)))
	fmt.Fprintf(r.out, "mean %.0f%% CI [%.4g, %.4g]\n", bootstrapConfidence*100, interval.Lower, interval.Upper)

	if floats.Max(values) > floats.Min(values) {
		hist := histogram.Hist(histogramBins, values)
		histogram.Fprint(r.out, hist, histogram.Linear(histogramWidth))
	}
}

func pointCount(n int) string {
	if n == 1 {
		return "1 data point"
	}
	return fmt.Sprintf("%d data points", n)
}

func header(field, fallback string) string {
	if field == "" {
		return fallback
	}
	return field
}

func number(v float64, valid bool) string {
	if !valid {
		return ""
	}
	return format(v)
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
