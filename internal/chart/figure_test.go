package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundview/pkg/contracts/domain"
)

func f64(v float64) *float64 { return &v }

func testTable() *domain.FundraisingTable {
	return &domain.FundraisingTable{
		Rows: []domain.FundraisingRow{
			{Year: 2006, NumberOfFunds: f64(10), AmountClosed: f64(1234), AverageFundSize: f64(123.4)},
			{Year: 2007, NumberOfFunds: f64(15), AmountClosed: nil, AverageFundSize: f64(133.3)},
			{Year: 2008, NumberOfFunds: f64(12), AmountClosed: f64(1500), AverageFundSize: f64(125)},
		},
	}
}

func TestMakeFigure_NumberOfFunds(t *testing.T) {
	fig, err := MakeFigure(testTable(), domain.MetricNumberOfFunds)
	require.NoError(t, err)
	require.Len(t, fig.Data, 2)

	bar := fig.Data[0]
	assert.Equal(t, "bar", bar.Type)
	assert.Equal(t, []int{2006, 2007, 2008}, bar.X)
	assert.Equal(t, "Amount Closed ($ millions)", bar.Name)
	assert.Equal(t, "#0000FF", bar.Marker.Color)
	assert.Equal(t, "Year %{x}<br>Amount Closed: $%{y:,.0f}M<extra></extra>", bar.HoverTemplate)
	assert.Nil(t, bar.Y[1], "missing amount stays missing")

	line := fig.Data[1]
	assert.Equal(t, "scatter", line.Type)
	assert.Equal(t, "lines+markers", line.Mode)
	assert.Equal(t, "y2", line.YAxis)
	assert.Equal(t, "Number of Funds", line.Name)
	assert.Equal(t, "#00A651", line.Line.Color)
	assert.Equal(t, 3, line.Line.Width)
	assert.Equal(t, 7, line.Marker.Size)
	assert.Equal(t, "Year %{x}<br>Number of Funds: %{y:,.0f}<extra></extra>", line.HoverTemplate)

	assert.Equal(t, "Number of Funds Closed", fig.Layout.YAxis2.Title.Text)
	assert.Equal(t, "", fig.Layout.YAxis2.TickPrefix)
	assert.Equal(t, "#00A651", fig.Layout.YAxis2.Title.Font.Color)
}

func TestMakeFigure_AverageFundSize(t *testing.T) {
	fig, err := MakeFigure(testTable(), domain.MetricAverageFundSize)
	require.NoError(t, err)

	line := fig.Data[1]
	assert.Equal(t, "Average Fund Size ($ millions)", line.Name)
	assert.Equal(t, "#A16CFF", line.Line.Color)
	assert.Equal(t, "Year %{x}<br>Average Fund Size: $%{y:,.0f}M<extra></extra>", line.HoverTemplate)
	require.NotNil(t, line.Y[0])
	assert.InDelta(t, 123.4, *line.Y[0], 1e-9)

	assert.Equal(t, "Average Fund Size ($ millions)", fig.Layout.YAxis2.Title.Text)
	assert.Equal(t, "$", fig.Layout.YAxis2.TickPrefix)
}

func TestMakeFigure_Layout(t *testing.T) {
	fig, err := MakeFigure(testTable(), domain.DefaultMetric)
	require.NoError(t, err)
	l := fig.Layout

	assert.Equal(t, Font{Family: "Georgia", Size: 12}, l.Font)
	assert.Equal(t, 0.35, l.BarGap)
	assert.Equal(t, Margin{T: 30, B: 20, L: 20, R: 20}, l.Margin)
	assert.Equal(t, "h", l.Legend.Orientation)
	assert.Equal(t, 1.02, l.Legend.Y)
	assert.Equal(t, "white", l.Template.Layout.PlotBGColor)

	assert.Equal(t, "linear", l.XAxis.TickMode)
	assert.Equal(t, []float64{2005.5, 2025.5}, l.XAxis.Range)
	assert.Equal(t, 2006.0, *l.XAxis.Tick0)
	assert.Equal(t, 1.0, *l.XAxis.DTick)
	assert.Equal(t, 0, *l.XAxis.TickAngle)
	assert.Equal(t, 10, l.XAxis.TickFont.Size)
	assert.False(t, *l.XAxis.ShowGrid)

	assert.Equal(t, "Amount Closed ($ millions)", l.YAxis.Title.Text)
	assert.Equal(t, "$", l.YAxis.TickPrefix)
	assert.Equal(t, ",d", l.YAxis.TickFormat)
	assert.Equal(t, "rgba(0,0,0,0.15)", l.YAxis.GridColor)

	assert.Equal(t, "y", l.YAxis2.Overlaying)
	assert.Equal(t, "right", l.YAxis2.Side)
	assert.False(t, *l.YAxis2.ShowGrid)
}

func TestMakeFigure_UnknownMetric(t *testing.T) {
	_, err := MakeFigure(testTable(), domain.Metric("Amount Closed"))
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestMakeFigure_EmptyTable(t *testing.T) {
	fig, err := MakeFigure(nil, domain.DefaultMetric)
	require.NoError(t, err)
	assert.Empty(t, fig.Data[0].X)
	assert.Equal(t, []float64{2005.5, 2025.5}, fig.Layout.XAxis.Range)
}

func TestXRange(t *testing.T) {
	tests := []struct {
		name      string
		years     []int
		wantStart float64
		wantEnd   float64
		wantTick0 int
	}{
		{"inside default window", []int{2010, 2012}, 2005.5, 2025.5, 2006},
		{"earlier data", []int{2001, 2010}, 2000.5, 2025.5, 2001},
		{"later data", []int{2010, 2027}, 2005.5, 2027.5, 2006},
		{"no data", nil, 2005.5, 2025.5, 2006},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &domain.FundraisingTable{}
			for _, y := range tt.years {
				table.Rows = append(table.Rows, domain.FundraisingRow{Year: y})
			}
			start, end, tick0 := XRange(table)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, tt.wantTick0, tick0)
		})
	}
}

func TestFigure_JSON(t *testing.T) {
	fig, err := MakeFigure(testTable(), domain.DefaultMetric)
	require.NoError(t, err)

	data, err := json.Marshal(fig)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	traces := decoded["data"].([]any)
	bar := traces[0].(map[string]any)
	assert.Equal(t, []any{1234.0, nil, 1500.0}, bar["y"], "missing values serialize as null")

	layout := decoded["layout"].(map[string]any)
	xaxis := layout["xaxis"].(map[string]any)
	assert.Equal(t, 0.0, xaxis["tickangle"], "zero tick angle is emitted")
	assert.Equal(t, false, xaxis["showgrid"])

	yaxis2 := layout["yaxis2"].(map[string]any)
	assert.Equal(t, "", yaxis2["tickprefix"])
}
