package report

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/raykavin/chartwise/pkg/core"
	"github.com/raykavin/chartwise/pkg/render"
	"github.com/stretchr/testify/assert"
)

func result() *core.UploadResult {
	data := []core.Record{
		{"a": core.NewString("x"), "b": core.NewInt(1)},
		{"a": core.NewString("y"), "b": core.NewInt(2)},
	}

	return &core.UploadResult{
		Status: "ok",
		DataInfo: core.DataInfo{
			Columns:     []string{"a", "b"},
			RowCount:    2,
			ColumnCount: 2,
			SampleData:  data,
			ColumnTypes: map[string]string{"a": "string", "b": "number"},
		},
		ChartSuggestions: []core.ChartSuggestion{
			{Type: "bar", Title: "B by A", XAxis: "a", YAxis: "b", Explanation: "why", Data: data},
			{Type: "sankey", Title: "Flows", Data: data},
		},
	}
}

func TestReport_Result(t *testing.T) {
	buffer := bytes.NewBuffer(nil)
	New(buffer).Result(result())

	out := buffer.String()
	assert.Contains(t, out, "Rows: 2  Columns: 2")
	assert.Contains(t, out, "B by A")
	assert.Contains(t, out, "why")
	assert.Contains(t, out, "Unsupported chart type: sankey")
	assert.Contains(t, out, "2 data points not rendered")
	assert.Contains(t, out, "2 data points")
	assert.Contains(t, out, "mean 1.5")
	assert.Contains(t, out, "mean 95% CI [")
}

func TestReport_EmptyCharts(t *testing.T) {
	for _, kind := range []string{"bar", "line", "area", "scatter", "pie", "unknown"} {
		buffer := bytes.NewBuffer(nil)
		c := render.Render(core.ChartSuggestion{Type: kind, Title: "Empty", Data: []core.Record{}}, 0)

		assert.NotPanics(t, func() { New(buffer).Chart(c) }, kind)
		assert.Contains(t, buffer.String(), "0 data points", kind)
	}
}

func TestReport_Pie(t *testing.T) {
	c := render.Render(core.ChartSuggestion{
		Type:  "pie",
		Title: "Share",
		Data: []core.Record{
			{"name": core.NewString("A"), "value": core.NewInt(3)},
			{"name": core.NewString("B"), "value": core.NewInt(1)},
		},
	}, 0)

	buffer := bytes.NewBuffer(nil)
	New(buffer).Chart(c)
	assert.Contains(t, buffer.String(), "75.0 %")
	assert.Contains(t, buffer.String(), "25.0 %")
}

func TestReport_NonFiniteValues(t *testing.T) {
	columns := [][]string{
		{"1", "NaN", "3"},
		{"1", "Inf", "3"},
		{"1", "-Infinity"},
	}

	for _, kind := range []string{"bar", "line", "area", "scatter"} {
		for _, values := range columns {
			data := make([]core.Record, len(values))
			for i, v := range values {
				data[i] = core.Record{"a": core.NewString(fmt.Sprintf("p%d", i)), "b": core.NewString(v)}
			}
			x := "a"
			if kind == "scatter" {
				x = "b"
			}
			c := render.Render(core.ChartSuggestion{Type: kind, Title: "T", XAxis: x, YAxis: "b", Data: data}, 0)

			buffer := bytes.NewBuffer(nil)
			assert.NotPanics(t, func() { New(buffer).Chart(c) }, "%s %v", kind, values)
			assert.Contains(t, buffer.String(), pointCount(len(values)))
			assert.NotContains(t, buffer.String(), "NaN")
			assert.NotContains(t, buffer.String(), "Inf")
		}
	}
}

func TestPointCount(t *testing.T) {
	assert.Equal(t, "1 data point", pointCount(1))
	assert.Equal(t, "0 data points", pointCount(0))
}
