package producer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/raykavin/chartwise/pkg/core"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

// Column types, named after the dtypes clients already display
const (
	TypeInt    = "int64"
	TypeFloat  = "float64"
	TypeBool   = "bool"
	TypeObject = "object"
)

// Messages are returned verbatim as response details
var (
	ErrUnsupportedFile = errors.New("Only CSV and Excel files are supported")
	ErrEmptyFile       = errors.New("The uploaded file is empty")
	ErrNoColumns       = errors.New("No columns found in the file")
)

// Table is a parsed dataset with one inferred type per column
type Table struct {
	Columns []string
	Types   map[string]string
	Rows    []core.Record
}

// ReadTable parses a CSV or XLSX file chosen by the extension of name
func ReadTable(name string, r io.Reader) (*Table, error) {
	var (
		cells [][]string
		err   error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		cells, err = readCSV(r)
	case ".xlsx":
		cells, err = readXLSX(r)
	default:
		return nil, ErrUnsupportedFile
	}
	if err != nil {
		return nil, err
	}

	return newTable(cells)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	cells, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return cells, nil
}

// readXLSX reads the first sheet of the workbook
func readXLSX(r io.Reader) ([][]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	cells, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return cells, nil
}

func newTable(cells [][]string) (*Table, error) {
	// skip blank leading lines before the header
	for len(cells) > 0 && lo.EveryBy(cells[0], func(cell string) bool { return strings.TrimSpace(cell) == "" }) {
		cells = cells[1:]
	}
	if len(cells) == 0 {
		return nil, ErrEmptyFile
	}

	columns := headers(cells[0])
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	body := cells[1:]
	if len(body) == 0 {
		return nil, ErrEmptyFile
	}

	table := &Table{
		Columns: columns,
		Types:   make(map[string]string, len(columns)),
		Rows:    make([]core.Record, len(body)),
	}
	for i := range table.Rows {
		table.Rows[i] = make(core.Record, len(columns))
	}

	for col, name := range columns {
		raw := lo.Map(body, func(row []string, _ int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		})

		kind := inferType(raw)
		table.Types[name] = kind
		for i, cell := range raw {
			table.Rows[i][name] = convert(cell, kind)
		}
	}

	return table, nil
}

// headers names every column, filling blanks and suffixing duplicates
func headers(row []string) []string {
	seen := make(map[string]int, len(row))
	return lo.Map(row, func(cell string, i int) string {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n := seen[name]; n > 0 {
			seen[name]++
			return fmt.Sprintf("%s.%d", name, n)
		}
		seen[name]++
		return name
	})
}

// inferType picks the narrowest type holding every non-empty cell.
// Integer columns with gaps widen to float64 so gaps can be null.
func inferType(cells []string) string {
	present := lo.Filter(cells, func(cell string, _ int) bool { return cell != "" })
	if len(present) == 0 {
		return TypeFloat
	}

	switch {
	case lo.EveryBy(present, isInt):
		if len(present) < len(cells) {
			return TypeFloat
		}
		return TypeInt
	case lo.EveryBy(present, isFloat):
		return TypeFloat
	case lo.EveryBy(present, isBool) && len(present) == len(cells):
		return TypeBool
	default:
		return TypeObject
	}
}

func convert(cell, kind string) core.Value {
	if cell == "" {
		return core.Null()
	}

	switch kind {
	case TypeInt:
		i, _ := strconv.ParseInt(cell, 10, 64)
		return core.NewInt(i)
	case TypeFloat:
		f, _ := strconv.ParseFloat(cell, 64)
		return core.NewNumber(f)
	case TypeBool:
		return core.NewBool(strings.EqualFold(cell, "true"))
	default:
		return core.NewString(cell)
	}
}

func isInt(cell string) bool {
	_, err := strconv.ParseInt(cell, 10, 64)
	return err == nil
}

// isFloat accepts finite decimals only, since NaN and Inf have no JSON form
func isFloat(cell string) bool {
	f, err := strconv.ParseFloat(cell, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isBool(cell string) bool {
	return strings.EqualFold(cell, "true") || strings.EqualFold(cell, "false")
}
