package render

import "github.com/raykavin/chartwise/pkg/core"

// Meta is shared by every rendered chart
type Meta struct {
	Type        string    `json:"type" yaml:"type"`
	Kind        core.Kind `json:"kind" yaml:"kind"`
	Title       string    `json:"title" yaml:"title"`
	Explanation string    `json:"explanation" yaml:"explanation"`
	PointCount  int       `json:"point_count" yaml:"point_count"`
}

// Describe returns the chart metadata
func (m Meta) Describe() Meta {
	return m
}

// Chart is a rendered suggestion. The set of implementations is closed:
// *BarChart, *LineChart, *PieChart, *ScatterChart, *AreaChart and *Unsupported.
type Chart interface {
	Describe() Meta
	isChart()
}

// Point is a value bound to a categorical position
type Point struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
	Valid bool    `json:"valid" yaml:"valid"`
}

// XY is a point on two numeric axes
type XY struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Valid bool    `json:"valid" yaml:"valid"`
}

// Slice is one pie segment
type Slice struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Valid bool    `json:"valid" yaml:"valid"`
	Color string  `json:"color" yaml:"color"`
}

// BarChart is one bar per record, in data order
type BarChart struct {
	Meta         `yaml:",inline"`
	XField       string  `json:"x_field" yaml:"x_field"`
	YField       string  `json:"y_field" yaml:"y_field"`
	Color        string  `json:"color" yaml:"color"`
	RotateLabels bool    `json:"rotate_labels" yaml:"rotate_labels"`
	Points       []Point `json:"points" yaml:"points"`
}

// LineChart joins records in data order
type LineChart struct {
	Meta   `yaml:",inline"`
	XField string  `json:"x_field" yaml:"x_field"`
	YField string  `json:"y_field" yaml:"y_field"`
	Color  string  `json:"color" yaml:"color"`
	Smooth bool    `json:"smooth" yaml:"smooth"`
	Points []Point `json:"points" yaml:"points"`
}

// AreaChart is a line with a translucent fill down to the axis
type AreaChart struct {
	Meta        `yaml:",inline"`
	XField      string  `json:"x_field" yaml:"x_field"`
	YField      string  `json:"y_field" yaml:"y_field"`
	Stroke      string  `json:"stroke" yaml:"stroke"`
	Fill        string  `json:"fill" yaml:"fill"`
	FillOpacity float64 `json:"fill_opacity" yaml:"fill_opacity"`
	Points      []Point `json:"points" yaml:"points"`
}

// ScatterChart plots one (x, y) point per record
type ScatterChart struct {
	Meta   `yaml:",inline"`
	XField string `json:"x_field" yaml:"x_field"`
	YField string `json:"y_field" yaml:"y_field"`
	Color  string `json:"color" yaml:"color"`
	Points []XY   `json:"points" yaml:"points"`
}

// PieChart has one slice per record, colored by slice position
type PieChart struct {
	Meta       `yaml:",inline"`
	NameField  string  `json:"name_field" yaml:"name_field"`
	ValueField string  `json:"value_field" yaml:"value_field"`
	Slices     []Slice `json:"slices" yaml:"slices"`
}

// Unsupported is the placeholder for a suggestion whose type is outside the known families
type Unsupported struct {
	Meta    `yaml:",inline"`
	Omitted int `json:"omitted" yaml:"omitted"`
}

func (*BarChart) isChart()     {}
func (*LineChart) isChart()    {}
func (*AreaChart) isChart()    {}
func (*ScatterChart) isChart() {}
func (*PieChart) isChart()     {}
func (*Unsupported) isChart()  {}
