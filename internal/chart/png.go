package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fundview/pkg/contracts/domain"
)

// PNG size limits in pixels.
const (
	DefaultWidth  = 1200
	DefaultHeight = 600
	MinSize       = 200
	MaxSize       = 4000
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to plot")

// RenderPNG draws the figure for metric as a PNG image. Zero width or
// height selects the default.
func RenderPNG(w io.Writer, table *domain.FundraisingTable, metric domain.Metric, width, height int) error {
	lineHex, ok := LineColors[metric]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	if width < MinSize || width > MaxSize || height < MinSize || height > MaxSize {
		return fmt.Errorf("image size %dx%d outside %d..%d", width, height, MinSize, MaxSize)
	}
	if table == nil || len(table.Rows) == 0 {
		return ErrNoData
	}

	barColor := hexColor(BarColor)
	lineColor := hexColor(lineHex)

	amountX, amountY := points(table, domain.ColumnAmountClosed)
	metricX, metricY := points(table, string(metric))
	if len(amountX) == 0 && len(metricX) == 0 {
		return ErrNoData
	}

	var series []gochart.Series
	if len(amountX) > 0 {
		series = append(series, barSeries{
			Name: BarName,
			Style: gochart.Style{
				StrokeColor: barColor,
				FillColor:   barColor,
				StrokeWidth: 1,
			},
			XValues: amountX,
			YValues: amountY,
		})
	}
	if len(metricX) > 0 {
		series = append(series, gochart.ContinuousSeries{
			Name:  LineName(metric),
			YAxis: gochart.YAxisSecondary,
			Style: gochart.Style{
				StrokeColor: lineColor,
				StrokeWidth: 3,
				DotColor:    lineColor,
				DotWidth:    3.5,
			},
			XValues: metricX,
			YValues: metricY,
		})
	}

	start, end, tick0 := XRange(table)

	ch := gochart.Chart{
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: start, Max: end},
			Ticks: yearTicks(tick0, int(end-0.5)),
		},
		YAxis: gochart.YAxis{
			Name:           BarName,
			NameStyle:      gochart.Style{FontColor: barColor},
			Style:          gochart.Style{FontColor: barColor},
			Range:          &gochart.ContinuousRange{Min: 0, Max: headroom(amountY)},
			ValueFormatter: moneyFormatter("$"),
			GridMajorStyle: gochart.Style{StrokeColor: drawing.Color{R: 0, G: 0, B: 0, A: 38}, StrokeWidth: 1},
		},
		YAxisSecondary: gochart.YAxis{
			Name:           RightAxisTitle(metric),
			NameStyle:      gochart.Style{FontColor: lineColor},
			Style:          gochart.Style{FontColor: lineColor},
			Range:          &gochart.ContinuousRange{Min: 0, Max: headroom(metricY)},
			ValueFormatter: moneyFormatter(linePrefix(metric)),
			GridMajorStyle: gochart.Style{Hidden: true},
			GridMinorStyle: gochart.Style{Hidden: true},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	return ch.Render(gochart.PNG, w)
}

// points returns the years and values of column where the value is present.
func points(table *domain.FundraisingTable, column string) (xs, ys []float64) {
	for _, row := range table.Rows {
		v := row.Value(column)
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		xs = append(xs, float64(row.Year))
		ys = append(ys, *v)
	}
	return xs, ys
}

// headroom returns an axis maximum 10% above the largest value, so a
// single point or a flat series still has a non-zero range.
func headroom(values []float64) float64 {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return 1
	}
	return max * 1.1
}

// maxYearTicks bounds the labels on the year axis; wider spans are stepped.
const maxYearTicks = 40

func yearTicks(first, last int) []gochart.Tick {
	if last < first {
		return nil
	}
	step := 1
	if span := last - first + 1; span > maxYearTicks {
		step = (span + maxYearTicks - 1) / maxYearTicks
	}
	ticks := make([]gochart.Tick, 0, (last-first)/step+1)
	for y := first; y <= last; y += step {
		ticks = append(ticks, gochart.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	return ticks
}

// moneyFormatter formats axis values as whole numbers with thousands
// separators, like Plotly's ",d".
func moneyFormatter(prefix string) gochart.ValueFormatter {
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return ""
		}
		return prefix + groupThousands(int64(math.Round(f)))
	}
}

func groupThousands(n int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
