package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = `{
	"status": "ok",
	"data_info": {
		"columns": ["a", "b"],
		"row_count": 2,
		"column_count": 2,
		"sample_data": [{"a": "x", "b": 1}, {"a": "y", "b": 2}],
		"column_types": {"a": "string", "b": "number"}
	},
	"chart_suggestions": [
		{"type": "bar", "title": "T", "x_axis": "a", "y_axis": "b", "explanation": "E",
		 "data": [{"a": "x", "b": 1}, {"a": "y", "b": 2}]}
	]
}`

func TestParseUploadResult(t *testing.T) {
	result, err := ParseUploadResult([]byte(validBody))
	require.NoError(t, err)

	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, []string{"a", "b"}, result.DataInfo.Columns)
	assert.Equal(t, 2, result.DataInfo.RowCount)
	assert.Equal(t, 2, result.DataInfo.ColumnCount)
	assert.Equal(t, "number", result.DataInfo.ColumnTypes["b"])
	require.Len(t, result.ChartSuggestions, 1)

	suggestion := result.ChartSuggestions[0]
	assert.Equal(t, KindBar, suggestion.Kind())
	assert.Equal(t, "a", suggestion.XAxis)
	assert.Equal(t, "b", suggestion.YAxis)
	require.Len(t, suggestion.Data, 2)
	assert.Equal(t, "x", suggestion.Data[0]["a"].String())

	value, ok := suggestion.Data[1]["b"].Float64()
	require.True(t, ok)
	assert.Equal(t, 2.0, value)
}

func TestParseUploadResult_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing suggestions", `{"status":"ok","data_info":{}}`},
		{"null suggestions", `{"status":"ok","data_info":{},"chart_suggestions":null}`},
		{"missing data info", `{"status":"ok","chart_suggestions":[]}`},
		{"suggestions not array", `{"data_info":{},"chart_suggestions":{}}`},
		{"missing data", `{"data_info":{},"chart_suggestions":[{"type":"bar","title":"T"}]}`},
		{"null data", `{"data_info":{},"chart_suggestions":[{"type":"bar","title":"T","data":null}]}`},
		{"null record", `{"data_info":{},"chart_suggestions":[{"type":"bar","title":"T","data":[null]}]}`},
		{"missing type", `{"data_info":{},"chart_suggestions":[{"title":"T","data":[]}]}`},
		{"empty title", `{"data_info":{},"chart_suggestions":[{"type":"bar","title":"","data":[]}]}`},
		{"nested value", `{"data_info":{},"chart_suggestions":[{"type":"bar","title":"T","data":[{"a":[1]}]}]}`},
		{"wrong row count type", `{"data_info":{"row_count":"2"},"chart_suggestions":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUploadResult([]byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedResult)
		})
	}
}

func TestParseUploadResult_FieldPath(t *testing.T) {
	body := `{"data_info":{},"chart_suggestions":[
		{"type":"pie","title":"ok","data":[]},
		{"type":"bar","title":"T"}
	]}`

	_, err := ParseUploadResult([]byte(body))
	require.Error(t, err)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "chart_suggestions[1].data", fieldErr.Path)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestParseUploadResult_EmptyDataAndUnknownType(t *testing.T) {
	body := `{"data_info":{},"chart_suggestions":[{"type":"Heatmap","title":"H","data":[]}]}`

	result, err := ParseUploadResult([]byte(body))
	require.NoError(t, err)
	require.Len(t, result.ChartSuggestions, 1)
	assert.Equal(t, KindUnsupported, result.ChartSuggestions[0].Kind())
	assert.Equal(t, "Heatmap", result.ChartSuggestions[0].Type)
	assert.NotNil(t, result.ChartSuggestions[0].Data)
	assert.Empty(t, result.ChartSuggestions[0].Data)
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"bar":     KindBar,
		"BAR":     KindBar,
		"Line":    KindLine,
		"pIe":     KindPie,
		"scatter": KindScatter,
		"AREA":    KindArea,
		"heatmap": KindUnsupported,
		"":        KindUnsupported,
		" bar":    KindUnsupported,
	}

	for tag, expected := range tests {
		assert.Equal(t, expected, ParseKind(tag), "tag %q", tag)
	}
}

func TestChartSuggestion_MarshalRoundTrip(t *testing.T) {
	suggestion := ChartSuggestion{
		Type:  "pie",
		Title: "Share",
		Data: []Record{
			{"name": NewString("A"), "value": NewInt(3)},
		},
	}

	content, err := json.Marshal(suggestion)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pie","title":"Share","explanation":"","data":[{"name":"A","value":3}]}`, string(content))

	empty, err := json.Marshal(ChartSuggestion{Type: "bar", Title: "T"})
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"data":[]`)
}
