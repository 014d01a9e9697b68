package core

import (
	"encoding/json"
	"fmt"
)

// DataInfo describes the parsed dataset
type DataInfo struct {
	Columns     []string          `json:"columns" yaml:"columns"`
	RowCount    int               `json:"row_count" yaml:"row_count"`
	ColumnCount int               `json:"column_count" yaml:"column_count"`
	SampleData  []Record          `json:"sample_data" yaml:"sample_data"`
	ColumnTypes map[string]string `json:"column_types" yaml:"column_types"`
}

// UploadResult is the producer's full answer to one file submission
type UploadResult struct {
	Status           string            `json:"status" yaml:"status"`
	DataInfo         DataInfo          `json:"data_info" yaml:"data_info"`
	ChartSuggestions []ChartSuggestion `json:"chart_suggestions" yaml:"chart_suggestions"`
}

// UnmarshalJSON implements json.Unmarshaler.
// data_info and chart_suggestions must be present.
func (r *UploadResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status           string             `json:"status"`
		DataInfo         *DataInfo          `json:"data_info"`
		ChartSuggestions *[]json.RawMessage `json:"chart_suggestions"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.DataInfo == nil {
		return fieldError("data_info", ErrMissingField)
	}
	if raw.ChartSuggestions == nil {
		return fieldError("chart_suggestions", ErrMissingField)
	}

	suggestions := make([]ChartSuggestion, len(*raw.ChartSuggestions))
	for i, message := range *raw.ChartSuggestions {
		if err := json.Unmarshal(message, &suggestions[i]); err != nil {
			return fieldError(fmt.Sprintf("chart_suggestions[%d]", i), err)
		}
	}

	*r = UploadResult{
		Status:           raw.Status,
		DataInfo:         *raw.DataInfo,
		ChartSuggestions: suggestions,
	}

	return nil
}

// ParseUploadResult decodes and validates a producer response body.
// Every failure wraps ErrMalformedResult.
func ParseUploadResult(body []byte) (*UploadResult, error) {
	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResult, err)
	}
	return &result, nil
}
