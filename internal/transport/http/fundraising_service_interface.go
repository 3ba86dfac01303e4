package http

import (
	"context"
	"io"

	"fundview/internal/chart"
	"fundview/pkg/contracts/domain"
)

// FundraisingServiceInterface defines the operations behind the dashboard API
type FundraisingServiceInterface interface {
	Table(ctx context.Context) (*domain.FundraisingTable, error)
	Metrics() []domain.MetricOption
	ParseMetric(name string) (domain.Metric, error)
	Figure(ctx context.Context, metric domain.Metric) (chart.Figure, error)
	WritePNG(ctx context.Context, w io.Writer, metric domain.Metric, width, height int) error
	WriteCSV(ctx context.Context, w io.Writer, bom bool) error
}
