package plot

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"github.com/raykavin/chartwise/pkg/core"
	"github.com/raykavin/chartwise/pkg/draw"
	"github.com/raykavin/chartwise/pkg/render"
	"github.com/raykavin/chartwise/pkg/upload"
)

// card is one chart on the index page
type card struct {
	render.Meta
	Color       string
	Image       template.URL
	DrawError   bool
	Unsupported bool
	Footer      string
}

// page is the index template data
type page struct {
	Phase    string
	File     string
	Message  string
	DataInfo *core.DataInfo
	Cards    []card
}

// stateView is the JSON body of GET /state and of JSON upload responses
type stateView struct {
	Phase    upload.Phase   `json:"phase"`
	Seq      uint64         `json:"seq"`
	File     string         `json:"file,omitempty"`
	Message  string         `json:"message,omitempty"`
	DataInfo *core.DataInfo `json:"data_info,omitempty"`
	Charts   []render.Chart `json:"charts"`
}

var templateFuncs = template.FuncMap{
	"cell": func(record core.Record, column string) string {
		value, _ := record.Get(column)
		return value.String()
	},
	"lower": strings.ToLower,
}

func newStateView(state upload.State) stateView {
	view := stateView{
		Phase:   state.Phase,
		Seq:     state.Seq,
		File:    state.File,
		Message: state.Message,
		Charts:  []render.Chart{},
	}

	if state.Result != nil {
		view.DataInfo = &state.Result.DataInfo
		view.Charts = render.RenderAll(state.Result.ChartSuggestions)
	}

	return view
}

func (b *Board) newPage(state upload.State) page {
	p := page{
		Phase:   state.Phase.String(),
		File:    state.File,
		Message: state.Message,
	}

	if state.Result == nil {
		return p
	}

	p.DataInfo = &state.Result.DataInfo
	for _, c := range render.RenderAll(state.Result.ChartSuggestions) {
		p.Cards = append(p.Cards, b.newCard(c))
	}

	return p
}

func (b *Board) newCard(c render.Chart) card {
	meta := c.Describe()
	item := card{
		Meta:   meta,
		Footer: pointCount(meta.PointCount),
	}

	switch ch := c.(type) {
	case *render.BarChart:
		item.Color = ch.Color
	case *render.LineChart:
		item.Color = ch.Color
	case *render.AreaChart:
		item.Color = ch.Stroke
	case *render.ScatterChart:
		item.Color = ch.Color
	case *render.Unsupported:
		item.Unsupported = true
	}

	svg, err := draw.Bytes(c, draw.SVG, b.drawOptions)
	if err != nil {
		b.log.WithError(err).Errorf("failed to draw chart %q", meta.Title)
		item.DrawError = true
		return item
	}

	// embedded as an image so chart text never becomes page markup
	item.Image = template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg))
	return item
}

func pointCount(n int) string {
	if n == 1 {
		return "1 data point"
	}
	return fmt.Sprintf("%d data points", n)
}
