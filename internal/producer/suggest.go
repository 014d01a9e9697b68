package producer

import (
	"fmt"
	"sort"

	"github.com/raykavin/chartwise/pkg/core"
	"github.com/samber/lo"
)

const pieSlices = 5

// DataInfo summarizes the table, sampling its first sampleRows rows
func (t *Table) DataInfo(sampleRows int) core.DataInfo {
	sample := lo.Map(lo.Subset(t.Rows, 0, uint(max(sampleRows, 0))), func(r core.Record, _ int) core.Record {
		return r.Clone()
	})

	return core.DataInfo{
		Columns:     append([]string(nil), t.Columns...),
		RowCount:    len(t.Rows),
		ColumnCount: len(t.Columns),
		SampleData:  sample,
		ColumnTypes: lo.Assign(t.Types),
	}
}

// NumericColumns returns int64 and float64 columns in table order
func (t *Table) NumericColumns() []string {
	return lo.Filter(t.Columns, func(c string, _ int) bool {
		return t.Types[c] == TypeInt || t.Types[c] == TypeFloat
	})
}

// CategoricalColumns returns object columns in table order
func (t *Table) CategoricalColumns() []string {
	return lo.Filter(t.Columns, func(c string, _ int) bool {
		return t.Types[c] == TypeObject
	})
}

// Suggest builds the rule-based suggestions: a bar of the first numeric
// column summed per category, a line of the first two numeric columns and
// a pie of the most frequent categories. Each is emitted only when the
// table has the columns it needs.
func (t *Table) Suggest(maxPoints int) []core.ChartSuggestion {
	numeric := t.NumericColumns()
	categorical := t.CategoricalColumns()
	suggestions := make([]core.ChartSuggestion, 0, 3)

	if len(categorical) > 0 && len(numeric) > 0 {
		suggestions = append(suggestions, t.barSuggestion(categorical[0], numeric[0], maxPoints))
	}
	if len(numeric) >= 2 {
		suggestions = append(suggestions, t.lineSuggestion(numeric[1], numeric[0], maxPoints))
	}
	if len(categorical) > 0 {
		suggestions = append(suggestions, t.pieSuggestion(categorical[0]))
	}

	return suggestions
}

func (t *Table) barSuggestion(category, measure string, limit int) core.ChartSuggestion {
	sums := make(map[string]float64)
	for _, row := range t.Rows {
		key := row[category]
		if key.IsNull() {
			continue
		}
		value, _ := row[measure].Float64()
		sums[key.String()] += value
	}

	keys := lo.Keys(sums)
	sort.Strings(keys)
	keys = lo.Subset(keys, 0, uint(max(limit, 0)))

	data := lo.Map(keys, func(key string, _ int) core.Record {
		return core.Record{
			category: core.NewString(key),
			measure:  t.number(measure, sums[key]),
		}
	})

	return core.ChartSuggestion{
		Type:        core.KindBar.String(),
		Title:       fmt.Sprintf("%s by %s", measure, category),
		XAxis:       category,
		YAxis:       measure,
		Explanation: fmt.Sprintf("Bar chart showing %s values across different %s categories", measure, category),
		Data:        data,
	}
}

func (t *Table) lineSuggestion(x, y string, limit int) core.ChartSuggestion {
	rows := lo.Subset(t.Rows, 0, uint(max(limit, 0)))
	data := lo.Map(rows, func(row core.Record, _ int) core.Record {
		return core.Record{x: row[x], y: row[y]}
	})

	return core.ChartSuggestion{
		Type:        core.KindLine.String(),
		Title:       fmt.Sprintf("%s vs %s", y, x),
		XAxis:       x,
		YAxis:       y,
		Explanation: fmt.Sprintf("Line chart showing the relationship between %s and %s", y, x),
		Data:        data,
	}
}

func (t *Table) pieSuggestion(category string) core.ChartSuggestion {
	counts := lo.CountValues(lo.FilterMap(t.Rows, func(row core.Record, _ int) (string, bool) {
		return row[category].String(), !row[category].IsNull()
	}))

	// most frequent first, ties in order of first appearance
	order := lo.Uniq(lo.FilterMap(t.Rows, func(row core.Record, _ int) (string, bool) {
		return row[category].String(), !row[category].IsNull()
	}))
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	data := lo.Map(lo.Subset(order, 0, pieSlices), func(name string, _ int) core.Record {
		return core.Record{
			"name":  core.NewString(name),
			"value": core.NewInt(int64(counts[name])),
		}
	})

	return core.ChartSuggestion{
		Type:        core.KindPie.String(),
		Title:       fmt.Sprintf("Distribution of %s", category),
		Explanation: fmt.Sprintf("Pie chart showing the distribution of different %s categories", category),
		Data:        data,
	}
}

// number keeps integer sums integral for int64 columns
func (t *Table) number(column string, value float64) core.Value {
	if t.Types[column] == TypeInt {
		return core.NewInt(int64(value))
	}
	return core.NewNumber(value)
}
