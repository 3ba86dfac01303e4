package chart

import (
	"errors"
	"fmt"

	"fundview/pkg/contracts/domain"
)

// ErrUnknownMetric is returned for a metric outside domain.Metrics.
var ErrUnknownMetric = errors.New("unknown metric")

const (
	BarColor = "#0000FF"
	BarName  = "Amount Closed ($ millions)"

	barHoverTemplate = "Year %{x}<br>Amount Closed: $%{y:,.0f}M<extra></extra>"

	gridColor     = "rgba(0,0,0,0.15)"
	zeroLineColor = "rgba(0,0,0,0.2)"

	// Default x window; it widens when the data falls outside it.
	firstTickYear = 2006
	lastTickYear  = 2025
)

// LineColors maps each metric to its line color.
var LineColors = map[domain.Metric]string{
	domain.MetricNumberOfFunds:   "#00A651",
	domain.MetricAverageFundSize: "#A16CFF",
}

// Figure is a Plotly figure as accepted by Plotly.newPlot / Plotly.react.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type          string     `json:"type"`
	X             []int      `json:"x"`
	Y             []*float64 `json:"y"`
	Name          string     `json:"name"`
	Mode          string     `json:"mode,omitempty"`
	YAxis         string     `json:"yaxis,omitempty"`
	Marker        *Marker    `json:"marker,omitempty"`
	Line          *Line      `json:"line,omitempty"`
	HoverTemplate string     `json:"hovertemplate"`
}

type Marker struct {
	Color string `json:"color"`
	Size  int    `json:"size,omitempty"`
}

type Line struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

type Font struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}

type Title struct {
	Text string `json:"text"`
	Font *Font  `json:"font,omitempty"`
}

type Margin struct {
	T int `json:"t"`
	B int `json:"b"`
	L int `json:"l"`
	R int `json:"r"`
}

type Legend struct {
	Orientation string  `json:"orientation"`
	YAnchor     string  `json:"yanchor"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor"`
	X           float64 `json:"x"`
	Font        Font    `json:"font"`
}

// Axis covers the attributes used on the x, y and y2 axes. Pointer fields
// are ones where the zero value is meaningful to Plotly.
type Axis struct {
	Title             Title     `json:"title"`
	TickMode          string    `json:"tickmode,omitempty"`
	Tick0             *float64  `json:"tick0,omitempty"`
	DTick             *float64  `json:"dtick,omitempty"`
	Range             []float64 `json:"range,omitempty"`
	TickAngle         *int      `json:"tickangle,omitempty"`
	TickFont          *Font     `json:"tickfont,omitempty"`
	TickPrefix        string    `json:"tickprefix"`
	TickFormat        string    `json:"tickformat,omitempty"`
	SeparateThousands bool      `json:"separatethousands,omitempty"`
	ShowGrid          *bool     `json:"showgrid,omitempty"`
	GridColor         string    `json:"gridcolor,omitempty"`
	ZeroLineColor     string    `json:"zerolinecolor,omitempty"`
	Overlaying        string    `json:"overlaying,omitempty"`
	Side              string    `json:"side,omitempty"`
	ShowLine          *bool     `json:"showline,omitempty"`
	LineColor         string    `json:"linecolor,omitempty"`
	Ticks             string    `json:"ticks,omitempty"`
	ZeroLine          *bool     `json:"zeroline,omitempty"`
}

// Template is the subset of a Plotly layout template the figure needs.
// plotly.js has no named templates, so "simple_white" is spelled out.
type Template struct {
	Layout TemplateLayout `json:"layout"`
}

type TemplateLayout struct {
	PaperBGColor string `json:"paper_bgcolor"`
	PlotBGColor  string `json:"plot_bgcolor"`
	XAxis        Axis   `json:"xaxis"`
	YAxis        Axis   `json:"yaxis"`
}

type Layout struct {
	Title    Title    `json:"title"`
	Template Template `json:"template"`
	Font     Font     `json:"font"`
	BarGap   float64  `json:"bargap"`
	Margin   Margin   `json:"margin"`
	Legend   Legend   `json:"legend"`
	XAxis    Axis     `json:"xaxis"`
	YAxis    Axis     `json:"yaxis"`
	YAxis2   Axis     `json:"yaxis2"`
}

// SimpleWhite mirrors plotly.py's simple_white template: white background,
// outside ticks, axis lines and no grid unless an axis asks for one.
func SimpleWhite() Template {
	axis := Axis{
		ShowLine:  boolPtr(true),
		LineColor: "rgb(36,36,36)",
		Ticks:     "outside",
		ShowGrid:  boolPtr(false),
		ZeroLine:  boolPtr(false),
	}
	return Template{Layout: TemplateLayout{
		PaperBGColor: "white",
		PlotBGColor:  "white",
		XAxis:        axis,
		YAxis:        axis,
	}}
}

// LineName is the legend entry for the metric's line trace.
func LineName(metric domain.Metric) string {
	if metric.IsMillions() {
		return string(metric) + " ($ millions)"
	}
	return string(metric)
}

// RightAxisTitle is the secondary axis title for metric.
func RightAxisTitle(metric domain.Metric) string {
	if metric == domain.MetricNumberOfFunds {
		return "Number of Funds Closed"
	}
	return "Average Fund Size ($ millions)"
}

func linePrefix(metric domain.Metric) string {
	if metric.IsMillions() {
		return "$"
	}
	return ""
}

func lineHoverTemplate(metric domain.Metric) string {
	suffix := ""
	if metric.IsMillions() {
		suffix = "M"
	}
	return fmt.Sprintf("Year %%{x}<br>%s: %s%%{y:,.0f}%s<extra></extra>", metric, linePrefix(metric), suffix)
}

// XRange returns the x axis window and first tick. It is [2005.5, 2025.5]
// from 2006 unless the table has years outside that span.
func XRange(table *domain.FundraisingTable) (start, end float64, tick0 int) {
	first, last := firstTickYear, lastTickYear
	if lo, hi, ok := table.YearRange(); ok {
		if lo < first {
			first = lo
		}
		if hi > last {
			last = hi
		}
	}
	return float64(first) - 0.5, float64(last) + 0.5, first
}

// MakeFigure builds the dual-axis figure for metric.
func MakeFigure(table *domain.FundraisingTable, metric domain.Metric) (Figure, error) {
	lineColor, ok := LineColors[metric]
	if !ok {
		return Figure{}, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	if table == nil {
		table = &domain.FundraisingTable{}
	}

	years := table.Years()

	bar := Trace{
		Type:          "bar",
		X:             years,
		Y:             table.Series(domain.ColumnAmountClosed),
		Name:          BarName,
		Marker:        &Marker{Color: BarColor},
		HoverTemplate: barHoverTemplate,
	}

	line := Trace{
		Type:          "scatter",
		X:             years,
		Y:             table.Series(string(metric)),
		Name:          LineName(metric),
		Mode:          "lines+markers",
		YAxis:         "y2",
		Line:          &Line{Color: lineColor, Width: 3},
		Marker:        &Marker{Color: lineColor, Size: 7},
		HoverTemplate: lineHoverTemplate(metric),
	}

	lo, hi, tick0 := XRange(table)

	layout := Layout{
		Title:    Title{Text: ""},
		Template: SimpleWhite(),
		Font:     Font{Family: "Georgia", Size: 12},
		BarGap:   0.35,
		Margin:   Margin{T: 30, B: 20, L: 20, R: 20},
		Legend: Legend{
			Orientation: "h",
			YAnchor:     "bottom",
			Y:           1.02,
			XAnchor:     "left",
			X:           0,
			Font:        Font{Size: 12},
		},
		XAxis: Axis{
			Title:     Title{Text: ""},
			TickMode:  "linear",
			Tick0:     floatPtr(float64(tick0)),
			DTick:     floatPtr(1),
			Range:     []float64{lo, hi},
			TickAngle: intPtr(0),
			TickFont:  &Font{Size: 10},
			ShowGrid:  boolPtr(false),
		},
		YAxis: Axis{
			Title:             Title{Text: BarName, Font: &Font{Color: BarColor}},
			TickPrefix:        "$",
			SeparateThousands: true,
			TickFormat:        ",d",
			TickFont:          &Font{Color: BarColor},
			GridColor:         gridColor,
			ZeroLineColor:     zeroLineColor,
		},
		YAxis2: Axis{
			Title:             Title{Text: RightAxisTitle(metric), Font: &Font{Color: lineColor}},
			Overlaying:        "y",
			Side:              "right",
			TickPrefix:        linePrefix(metric),
			SeparateThousands: true,
			TickFormat:        ",d",
			TickFont:          &Font{Color: lineColor},
			ShowGrid:          boolPtr(false),
		},
	}

	return Figure{Data: []Trace{bar, line}, Layout: layout}, nil
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
