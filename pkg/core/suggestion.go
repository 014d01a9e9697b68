package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the chart family a suggestion declares
type Kind uint8

const (
	KindUnsupported Kind = iota // KindUnsupported covers every tag outside the known families.
	KindBar                     // KindBar is a categorical bar chart.
	KindLine                    // KindLine is a smoothed, connected line chart.
	KindPie                     // KindPie is a pie chart over name/value records.
	KindScatter                 // KindScatter is an unconnected numeric point cloud.
	KindArea                    // KindArea is a filled line chart.
)

var kindNames = map[Kind]string{
	KindUnsupported: "unsupported",
	KindBar:         "bar",
	KindLine:        "line",
	KindPie:         "pie",
	KindScatter:     "scatter",
	KindArea:        "area",
}

// ParseKind maps a suggestion type tag onto a Kind, ignoring case.
// Unknown tags map to KindUnsupported.
func ParseKind(tag string) Kind {
	switch strings.ToLower(tag) {
	case "bar":
		return KindBar
	case "line":
		return KindLine
	case "pie":
		return KindPie
	case "scatter":
		return KindScatter
	case "area":
		return KindArea
	default:
		return KindUnsupported
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnsupported]
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ChartSuggestion is one recommended visualization of the uploaded dataset
type ChartSuggestion struct {
	Type        string   `json:"type" yaml:"type"`
	Title       string   `json:"title" yaml:"title"`
	XAxis       string   `json:"x_axis,omitempty" yaml:"x_axis,omitempty"`
	YAxis       string   `json:"y_axis,omitempty" yaml:"y_axis,omitempty"`
	Explanation string   `json:"explanation" yaml:"explanation"`
	Data        []Record `json:"data" yaml:"data"`
}

// Kind returns the chart family of the suggestion
func (s ChartSuggestion) Kind() Kind {
	return ParseKind(s.Type)
}

// MarshalJSON keeps data as an array even when it is empty
func (s ChartSuggestion) MarshalJSON() ([]byte, error) {
	type plain ChartSuggestion
	if s.Data == nil {
		s.Data = []Record{}
	}
	return json.Marshal(plain(s))
}

// UnmarshalJSON implements json.Unmarshaler.
// The type tag and data are required, the title must be non-empty.
func (s *ChartSuggestion) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type        *string   `json:"type"`
		Title       string    `json:"title"`
		XAxis       *string   `json:"x_axis"`
		YAxis       *string   `json:"y_axis"`
		Explanation *string   `json:"explanation"`
		Data        *[]Record `json:"data"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Type == nil {
		return fieldError("type", ErrMissingField)
	}
	if strings.TrimSpace(raw.Title) == "" {
		return fieldError("title", ErrEmptyTitle)
	}
	if raw.Data == nil {
		return fieldError("data", ErrMissingField)
	}

	*s = ChartSuggestion{
		Type:        *raw.Type,
		Title:       raw.Title,
		XAxis:       deref(raw.XAxis),
		YAxis:       deref(raw.YAxis),
		Explanation: deref(raw.Explanation),
		Data:        *raw.Data,
	}

	for i, record := range s.Data {
		if record == nil {
			return fieldError(fmt.Sprintf("data[%d]", i), ErrMissingField)
		}
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
