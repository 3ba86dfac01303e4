package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"fundview/internal/chart"
	"fundview/internal/dataset"
	apierrors "fundview/internal/errors"
	"fundview/internal/exporter"
	"fundview/internal/infrastructure"
	"fundview/pkg/contracts/domain"
)

var tracer = otel.Tracer("fundview/services")

// TableSource supplies the current fundraising table. *dataset.Store
// implements it.
type TableSource interface {
	Table(ctx context.Context) (*domain.FundraisingTable, error)
	Status() dataset.Status
}

// FundraisingService turns the loaded table into the dashboard's outputs.
type FundraisingService struct {
	source  TableSource
	csv     *exporter.CSVWriter
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewFundraisingService creates the service. Metrics may be nil.
func NewFundraisingService(source TableSource, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *FundraisingService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "fundraising_service"))
	return &FundraisingService{
		source:  source,
		csv:     exporter.NewCSVWriter(logger),
		metrics: metrics,
		logger:  logger,
	}
}

// Table returns the current table.
func (s *FundraisingService) Table(ctx context.Context) (*domain.FundraisingTable, error) {
	table, err := s.source.Table(ctx)
	if err != nil {
		if !apierrors.IsType(err, apierrors.ErrTypeUnavailable) {
			err = apierrors.NewUnavailableError("fundraising data unavailable", err)
		}
		return nil, err
	}
	return table, nil
}

// Metrics lists the metrics the chart can plot.
func (s *FundraisingService) Metrics() []domain.MetricOption {
	return domain.MetricOptions()
}

// ParseMetric resolves a metric name, defaulting to domain.DefaultMetric
// when name is empty.
func (s *FundraisingService) ParseMetric(name string) (domain.Metric, error) {
	if name == "" {
		return domain.DefaultMetric, nil
	}
	m, err := domain.ParseMetric(name)
	if err != nil {
		return "", apierrors.NewValidationAppError(
			fmt.Sprintf("Unknown metric %q.", name),
			fmt.Errorf("%w: %v", ErrInvalidMetric, err),
		).WithContext("metric", name)
	}
	return m, nil
}

// Figure builds the Plotly figure for metric.
func (s *FundraisingService) Figure(ctx context.Context, metric domain.Metric) (chart.Figure, error) {
	ctx, span := tracer.Start(ctx, "fundraising.figure")
	defer span.End()
	span.SetAttributes(attribute.String("chart.metric", string(metric)))

	table, err := s.Table(ctx)
	if err != nil {
		return chart.Figure{}, err
	}

	fig, err := chart.MakeFigure(table, metric)
	if err != nil {
		return chart.Figure{}, s.metricError(metric, err)
	}

	s.metrics.RecordFigureRender(ctx, string(metric), "json")
	return fig, nil
}

// WritePNG renders the chart for metric as a PNG into w.
func (s *FundraisingService) WritePNG(ctx context.Context, w io.Writer, metric domain.Metric, width, height int) error {
	ctx, span := tracer.Start(ctx, "fundraising.png")
	defer span.End()
	span.SetAttributes(
		attribute.String("chart.metric", string(metric)),
		attribute.Int("chart.width", width),
		attribute.Int("chart.height", height),
	)

	table, err := s.Table(ctx)
	if err != nil {
		return err
	}

	if err := chart.RenderPNG(w, table, metric, width, height); err != nil {
		switch {
		case errors.Is(err, chart.ErrUnknownMetric):
			return s.metricError(metric, err)
		case errors.Is(err, chart.ErrNoData):
			return apierrors.NewUnavailableError(
				"The data file has no values to plot.",
				fmt.Errorf("%w: %v", ErrNoPlotData, err),
			)
		}
		infrastructure.RecordError(ctx, err)
		logServiceError(ctx, s.logger, "render_png", err,
			slog.String("metric", string(metric)),
			slog.Int("width", width),
			slog.Int("height", height))
		return fmt.Errorf("render chart: %w", err)
	}

	s.metrics.RecordFigureRender(ctx, string(metric), "png")
	return nil
}

// WriteCSV writes the table as CSV into w.
func (s *FundraisingService) WriteCSV(ctx context.Context, w io.Writer, bom bool) error {
	table, err := s.Table(ctx)
	if err != nil {
		return err
	}
	if err := s.csv.WriteTable(w, table, bom); err != nil {
		logServiceError(ctx, s.logger, "write_csv", err)
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Status reports what the data source is serving.
func (s *FundraisingService) Status() dataset.Status {
	return s.source.Status()
}

func (s *FundraisingService) metricError(metric domain.Metric, err error) error {
	return apierrors.NewValidationAppError(
		fmt.Sprintf("Unknown metric %q.", metric),
		fmt.Errorf("%w: %v", ErrInvalidMetric, err),
	).WithContext("metric", string(metric))
}
