package domain

import (
	"fmt"
	"time"
)

// Column names used across the loader, the chart and the exports.
const (
	ColumnYear            = "Year"
	ColumnNumberOfFunds   = "Number of Funds"
	ColumnAmountClosed    = "Amount Closed"
	ColumnAverageFundSize = "Average Fund Size"
)

// Columns lists the normalized table columns in output order.
var Columns = []string{ColumnYear, ColumnNumberOfFunds, ColumnAmountClosed, ColumnAverageFundSize}

// FundraisingRow is one year of high-yield fundraising statistics.
// Year is always set; the measures are nil when the source cell could not be coerced.
type FundraisingRow struct {
	Year            int      `json:"year" validate:"required,gt=0"`
	NumberOfFunds   *float64 `json:"number_of_funds"`
	AmountClosed    *float64 `json:"amount_closed"`
	AverageFundSize *float64 `json:"average_fund_size"`
}

// Value returns the measure named by column, or nil for an unknown column.
func (r FundraisingRow) Value(column string) *float64 {
	switch column {
	case ColumnNumberOfFunds:
		return r.NumberOfFunds
	case ColumnAmountClosed:
		return r.AmountClosed
	case ColumnAverageFundSize:
		return r.AverageFundSize
	case ColumnYear:
		y := float64(r.Year)
		return &y
	}
	return nil
}

// MappingStrategy records how the source columns were matched to the table columns.
type MappingStrategy string

const (
	MappingExact      MappingStrategy = "exact"
	MappingFuzzy      MappingStrategy = "fuzzy"
	MappingPositional MappingStrategy = "positional"
)

// FundraisingTable is the normalized, year-ordered dataset. It is never mutated after load.
type FundraisingTable struct {
	Rows          []FundraisingRow  `json:"rows"`
	SourcePath    string            `json:"source_path,omitempty"`
	SheetName     string            `json:"sheet_name"`
	Strategy      MappingStrategy   `json:"strategy"`
	SourceColumns map[string]string `json:"source_columns"`
	DroppedRows   int               `json:"dropped_rows"`
	LoadedAt      time.Time         `json:"loaded_at"`
}

// Years returns the year of every row in table order.
func (t *FundraisingTable) Years() []int {
	years := make([]int, len(t.Rows))
	for i, r := range t.Rows {
		years[i] = r.Year
	}
	return years
}

// Series returns the values of column in table order. Missing values are nil.
func (t *FundraisingTable) Series(column string) []*float64 {
	values := make([]*float64, len(t.Rows))
	for i, r := range t.Rows {
		values[i] = r.Value(column)
	}
	return values
}

// YearRange returns the first and last year, or ok=false for an empty table.
func (t *FundraisingTable) YearRange() (first, last int, ok bool) {
	if t == nil || len(t.Rows) == 0 {
		return 0, 0, false
	}
	return t.Rows[0].Year, t.Rows[len(t.Rows)-1].Year, true
}

// Metric is a measure that can be plotted on the secondary axis.
type Metric string

const (
	MetricNumberOfFunds   Metric = ColumnNumberOfFunds
	MetricAverageFundSize Metric = ColumnAverageFundSize
)

// DefaultMetric is the dropdown's initial selection.
const DefaultMetric = MetricNumberOfFunds

// Metrics lists the selectable metrics in dropdown order.
var Metrics = []Metric{MetricNumberOfFunds, MetricAverageFundSize}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// IsMillions reports whether the metric is denominated in $ millions.
func (m Metric) IsMillions() bool {
	return m == MetricAverageFundSize
}

// MetricOption is a dropdown entry.
type MetricOption struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Default bool   `json:"default,omitempty"`
}

// MetricOptions returns the dropdown entries.
func MetricOptions() []MetricOption {
	opts := make([]MetricOption, len(Metrics))
	for i, m := range Metrics {
		opts[i] = MetricOption{Label: string(m), Value: string(m), Default: m == DefaultMetric}
	}
	return opts
}
