package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundview/pkg/contracts/domain"
)

func TestRenderPNG(t *testing.T) {
	for _, metric := range domain.Metrics {
		t.Run(string(metric), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderPNG(&buf, testTable(), metric, 800, 400))

			img, err := png.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, 800, img.Bounds().Dx())
			assert.Equal(t, 400, img.Bounds().Dy())
		})
	}
}

func TestRenderPNG_DefaultSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, testTable(), domain.DefaultMetric, 0, 0))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, cfg.Width)
	assert.Equal(t, DefaultHeight, cfg.Height)
}

func TestRenderPNG_SingleYear(t *testing.T) {
	table := &domain.FundraisingTable{Rows: []domain.FundraisingRow{
		{Year: 2015, NumberOfFunds: f64(4), AmountClosed: f64(400), AverageFundSize: f64(100)},
	}}

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, table, domain.DefaultMetric, 400, 300))
	assert.NotZero(t, buf.Len())
}

func TestRenderPNG_Errors(t *testing.T) {
	var buf bytes.Buffer

	err := RenderPNG(&buf, testTable(), domain.Metric("Year"), 400, 300)
	assert.ErrorIs(t, err, ErrUnknownMetric)

	err = RenderPNG(&buf, &domain.FundraisingTable{}, domain.DefaultMetric, 400, 300)
	assert.ErrorIs(t, err, ErrNoData)

	onlyYears := &domain.FundraisingTable{Rows: []domain.FundraisingRow{{Year: 2010}}}
	err = RenderPNG(&buf, onlyYears, domain.DefaultMetric, 400, 300)
	assert.ErrorIs(t, err, ErrNoData)

	err = RenderPNG(&buf, testTable(), domain.DefaultMetric, 50, 300)
	assert.Error(t, err)

	err = RenderPNG(&buf, testTable(), domain.DefaultMetric, 400, MaxSize+1)
	assert.Error(t, err)

	assert.Zero(t, buf.Len())
}

func TestGroupThousands(t *testing.T) {
	tests := map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		1234567: "1,234,567",
		-25000:  "-25,000",
		100000:  "100,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, groupThousands(in))
	}
}

func TestMoneyFormatter(t *testing.T) {
	assert.Equal(t, "$1,500", moneyFormatter("$")(1499.6))
	assert.Equal(t, "12", moneyFormatter("")(12.0))
	assert.Equal(t, "", moneyFormatter("$")("x"))
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks(2006, 2025)
	require.Len(t, ticks, 20)
	assert.Equal(t, "2006", ticks[0].Label)
	assert.Equal(t, 2025.0, ticks[19].Value)

	wide := yearTicks(2006, 20015)
	assert.LessOrEqual(t, len(wide), maxYearTicks)
	assert.Equal(t, 2006.0, wide[0].Value)

	assert.Empty(t, yearTicks(2010, 2009))
}

func TestRenderPNG_WideYearSpan(t *testing.T) {
	table := &domain.FundraisingTable{Rows: []domain.FundraisingRow{
		{Year: 2006, NumberOfFunds: f64(10), AmountClosed: f64(1234), AverageFundSize: f64(123.4)},
		{Year: 20015, NumberOfFunds: f64(12), AmountClosed: f64(1500), AverageFundSize: f64(125)},
	}}

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, table, domain.DefaultMetric, 400, 300))
	_, err := png.DecodeConfig(&buf)
	assert.NoError(t, err)
}
