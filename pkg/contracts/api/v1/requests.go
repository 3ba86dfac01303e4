// Package api contains the request and response contracts of the dashboard's
// HTTP API. Version v1 is the current stable API version.
//
// Query parameters are bound by name from the `query` tag and checked with
// the `validate` tag; "metric" is a custom rule accepting the selectable
// line metrics.
package api

import (
	"fundview/pkg/contracts/domain"
)

// Chart size bounds accepted by ChartRequest.
const (
	MinChartSize = 200
	MaxChartSize = 4000
)

// FigureRequest is the query string of GET /api/figure
type FigureRequest struct {
	Metric string `json:"metric" query:"metric" validate:"omitempty,metric"`
}

// ChartRequest is the query string of GET /api/chart.png. Zero sizes select
// the default chart size.
type ChartRequest struct {
	Metric string `json:"metric" query:"metric" validate:"omitempty,metric"`
	Width  int    `json:"width" query:"width" validate:"omitempty,min=200,max=4000"`
	Height int    `json:"height" query:"height" validate:"omitempty,min=200,max=4000"`
}

// ExportRequest is the query string of GET /api/data.csv
type ExportRequest struct {
	BOM bool `json:"bom" query:"bom"`
}

// ClientLogRequest is the body of POST /api/client-log
type ClientLogRequest struct {
	Level   string                 `json:"level"` // unknown levels log at info
	Message string                 `json:"message" validate:"required,max=2000"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Source  string                 `json:"source,omitempty" validate:"max=100"`
}

// DataResponse is the body of GET /api/data
type DataResponse struct {
	Columns []string `json:"columns"`
	Count   int      `json:"count"`
	*domain.FundraisingTable
}

// MetricsResponse is the body of GET /api/metrics
type MetricsResponse struct {
	Metrics []domain.MetricOption `json:"metrics"`
	Default domain.Metric         `json:"default"`
}
