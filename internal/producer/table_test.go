package producer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/raykavin/chartwise/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const salesCSV = `region,units,price,active
North,10,2.5,true
South,4,3.0,false
North,6,1.5,true
East,1,4.0,false
South,3,2.0,true
North,2,5.5,false
`

func TestReadTable_CSV(t *testing.T) {
	table, err := ReadTable("sales.csv", strings.NewReader(salesCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "units", "price", "active"}, table.Columns)
	assert.Equal(t, map[string]string{
		"region": TypeObject,
		"units":  TypeInt,
		"price":  TypeFloat,
		"active": TypeBool,
	}, table.Types)
	require.Len(t, table.Rows, 6)

	units, ok := table.Rows[0]["units"].Float64()
	require.True(t, ok)
	assert.Equal(t, 10.0, units)
	assert.Equal(t, "North", table.Rows[0]["region"].String())
	assert.Equal(t, true, table.Rows[0]["active"].Interface())
}

func TestReadTable_XLSX(t *testing.T) {
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"product", "qty"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]any{"pen", 3}))
	require.NoError(t, book.SetSheetRow(sheet, "A3", &[]any{"ink", 7}))

	content, err := book.WriteToBuffer()
	require.NoError(t, err)

	table, err := ReadTable("stock.XLSX", content)
	require.NoError(t, err)

	assert.Equal(t, []string{"product", "qty"}, table.Columns)
	assert.Equal(t, TypeInt, table.Types["qty"])
	assert.Len(t, table.Rows, 2)
}

func TestReadTable_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		expected error
	}{
		{"text file", "notes.txt", "a,b\n1,2\n", ErrUnsupportedFile},
		{"legacy excel", "old.xls", "", ErrUnsupportedFile},
		{"no extension", "data", "a\n1\n", ErrUnsupportedFile},
		{"empty file", "empty.csv", "", ErrEmptyFile},
		{"header only", "header.csv", "a,b\n", ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(tt.file, strings.NewReader(tt.content))
			assert.ErrorIs(t, err, tt.expected)
		})
	}

	_, err := ReadTable("broken.xlsx", bytes.NewReader([]byte("not a zip")))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFile)
}

func TestReadTable_GapsAndRaggedRows(t *testing.T) {
	table, err := ReadTable("gaps.csv", strings.NewReader("a,b,a\n1,x\n,y,z\n3\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "a.1"}, table.Columns)
	assert.Equal(t, TypeFloat, table.Types["a"])
	assert.True(t, table.Rows[1]["a"].IsNull())
	assert.True(t, table.Rows[2]["b"].IsNull())
}

func TestInferType(t *testing.T) {
	tests := []struct {
		cells    []string
		expected string
	}{
		{[]string{"1", "2", "-3"}, TypeInt},
		{[]string{"1", "2.5"}, TypeFloat},
		{[]string{"1", ""}, TypeFloat},
		{[]string{"", ""}, TypeFloat},
		{[]string{"TRUE", "false"}, TypeBool},
		{[]string{"true", ""}, TypeObject},
		{[]string{"1", "a"}, TypeObject},
		{[]string{"NaN", "1"}, TypeObject},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, inferType(tt.cells), "%v", tt.cells)
	}
}

func TestTable_DataInfo(t *testing.T) {
	table, err := ReadTable("sales.csv", strings.NewReader(salesCSV))
	require.NoError(t, err)

	info := table.DataInfo(5)
	assert.Equal(t, 6, info.RowCount)
	assert.Equal(t, 4, info.ColumnCount)
	assert.Len(t, info.SampleData, 5)
	assert.Equal(t, "int64", info.ColumnTypes["units"])

	info.SampleData[0]["region"] = core.NewString("changed")
	assert.Equal(t, "North", table.Rows[0]["region"].String())

	assert.Len(t, table.DataInfo(50).SampleData, 6)
}

func TestTable_Suggest(t *testing.T) {
	table, err := ReadTable("sales.csv", strings.NewReader(salesCSV))
	require.NoError(t, err)

	suggestions := table.Suggest(10)
	require.Len(t, suggestions, 3)

	bar := suggestions[0]
	assert.Equal(t, "bar", bar.Type)
	assert.Equal(t, "units by region", bar.Title)
	assert.Equal(t, "region", bar.XAxis)
	assert.Equal(t, "units", bar.YAxis)
	require.Len(t, bar.Data, 3)
	assert.Equal(t, "East", bar.Data[0]["region"].String())
	assert.Equal(t, "North", bar.Data[1]["region"].String())
	assert.Equal(t, "18", bar.Data[1]["units"].String())

	line := suggestions[1]
	assert.Equal(t, "line", line.Type)
	assert.Equal(t, "units vs price", line.Title)
	assert.Equal(t, "price", line.XAxis)
	assert.Equal(t, "units", line.YAxis)
	assert.Len(t, line.Data, 6)

	pie := suggestions[2]
	assert.Equal(t, "pie", pie.Type)
	assert.Equal(t, "Distribution of region", pie.Title)
	require.Len(t, pie.Data, 3)
	assert.Equal(t, "North", pie.Data[0]["name"].String())
	assert.Equal(t, "3", pie.Data[0]["value"].String())
	assert.Equal(t, "South", pie.Data[1]["name"].String())
	assert.Equal(t, "East", pie.Data[2]["name"].String())
}

func TestTable_SuggestLimits(t *testing.T) {
	var b strings.Builder
	b.WriteString("city,n\n")
	for i := 0; i < 30; i++ {
		b.WriteString(string(rune('A'+i%26)) + "x," + "1\n")
	}

	table, err := ReadTable("cities.csv", strings.NewReader(b.String()))
	require.NoError(t, err)

	suggestions := table.Suggest(10)
	require.Len(t, suggestions, 2)
	assert.Len(t, suggestions[0].Data, 10)
	assert.Len(t, suggestions[1].Data, 5)
	assert.Equal(t, "Ax", suggestions[1].Data[0]["name"].String())
}

func TestTable_SuggestNumericOnly(t *testing.T) {
	table, err := ReadTable("n.csv", strings.NewReader("a,b\n1,2\n3,4\n"))
	require.NoError(t, err)

	suggestions := table.Suggest(10)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "line", suggestions[0].Type)
}
