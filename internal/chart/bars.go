package chart

import (
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// barFraction is the share of a year each bar occupies; bargap 0.35.
const barFraction = 0.65

// barSeries draws one bar per x value on a continuous x axis. go-chart's
// own bar chart has a categorical x axis and no secondary y axis.
type barSeries struct {
	Name    string
	Style   gochart.Style
	YAxis   gochart.YAxisType
	XValues []float64
	YValues []float64
}

func (bs barSeries) GetName() string { return bs.Name }

func (bs barSeries) GetStyle() gochart.Style { return bs.Style }

func (bs barSeries) GetYAxis() gochart.YAxisType { return bs.YAxis }

func (bs barSeries) Len() int { return len(bs.XValues) }

func (bs barSeries) GetValues(index int) (x, y float64) {
	return bs.XValues[index], bs.YValues[index]
}

func (bs barSeries) Validate() error {
	if len(bs.XValues) == 0 {
		return fmt.Errorf("bar series %q has no values", bs.Name)
	}
	if len(bs.XValues) != len(bs.YValues) {
		return fmt.Errorf("bar series %q has %d x values and %d y values", bs.Name, len(bs.XValues), len(bs.YValues))
	}
	return nil
}

func (bs barSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, defaults gochart.Style) {
	style := bs.Style.InheritFrom(defaults)
	half := barFraction / 2
	base := canvasBox.Bottom - yrange.Translate(0)

	for i, x := range bs.XValues {
		left := canvasBox.Left + xrange.Translate(x-half)
		right := canvasBox.Left + xrange.Translate(x+half)
		top := canvasBox.Bottom - yrange.Translate(bs.YValues[i])
		bottom := base
		if top > bottom {
			top, bottom = bottom, top
		}

		style.WriteToRenderer(r)
		r.MoveTo(left, top)
		r.LineTo(right, top)
		r.LineTo(right, bottom)
		r.LineTo(left, bottom)
		r.LineTo(left, top)
		r.Close()
		r.FillStroke()
	}
}
