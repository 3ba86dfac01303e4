package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"fundview/internal/chart"
	apierrors "fundview/internal/errors"
	fvmiddleware "fundview/internal/middleware"
	api "fundview/pkg/contracts/api/v1"
	"fundview/pkg/contracts/domain"
)

// CSVFilename is the download name offered for the table export.
const CSVFilename = "fundraising_data.csv"

// FundraisingHandler serves the chart, table and export endpoints
type FundraisingHandler struct {
	service      FundraisingServiceInterface
	validator    *fvmiddleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFundraisingHandler creates a new fundraising handler
func NewFundraisingHandler(service FundraisingServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FundraisingHandler {
	return &FundraisingHandler{
		service:      service,
		validator:    fvmiddleware.NewQueryValidator(),
		logger:       logger.With(slog.String("handler", "fundraising")),
		errorHandler: errorHandler,
	}
}

// Register adds the handler's routes to r
func (h *FundraisingHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/figure", h.GetFigure)
		r.Get("/data", h.GetData)
		r.Get("/metrics", h.GetMetrics)
	})
	r.Get("/data.csv", h.GetCSV)
	r.Get("/chart.png", h.GetPNG)
}

// GetFigure handles GET /api/figure?metric=
func (h *FundraisingHandler) GetFigure(w http.ResponseWriter, r *http.Request) {
	q := api.FigureRequest{Metric: r.URL.Query().Get("metric")}
	if err := h.validator.Validate(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	metric, err := h.service.ParseMetric(q.Metric)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "building figure",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("metric", string(metric)),
	)

	fig, err := h.service.Figure(r.Context(), metric)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, fig)
}

// GetData handles GET /api/data
func (h *FundraisingHandler) GetData(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Table(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.DataResponse{
		Columns:          domain.Columns,
		Count:            len(table.Rows),
		FundraisingTable: table,
	})
}

// GetMetrics handles GET /api/metrics
func (h *FundraisingHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.MetricsResponse{
		Metrics: h.service.Metrics(),
		Default: domain.DefaultMetric,
	})
}

// GetCSV handles GET /api/data.csv. bom=true prefixes a UTF-8 byte order
// mark for spreadsheet programs.
func (h *FundraisingHandler) GetCSV(w http.ResponseWriter, r *http.Request) {
	var q api.ExportRequest
	var err error
	if q.BOM, err = parseBool(r, "bom"); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.WriteCSV(r.Context(), &buf, q.BOM); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+CSVFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// GetPNG handles GET /api/chart.png?metric=&width=&height=
func (h *FundraisingHandler) GetPNG(w http.ResponseWriter, r *http.Request) {
	q := api.ChartRequest{Metric: r.URL.Query().Get("metric")}

	var err error
	if q.Width, err = parseInt(r, "width"); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if q.Height, err = parseInt(r, "height"); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.validator.Validate(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	metric, err := h.service.ParseMetric(q.Metric)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	width, height := q.Width, q.Height
	if width == 0 {
		width = chart.DefaultWidth
	}
	if height == 0 {
		height = chart.DefaultHeight
	}

	var buf bytes.Buffer
	if err := h.service.WritePNG(r.Context(), &buf, metric, width, height); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// parseInt reads an optional integer query parameter. Absent means 0.
func parseInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.ErrValidation(name, name+" must be an integer")
	}
	return v, nil
}

func parseBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apierrors.ErrValidation(name, name+" must be true or false")
	}
	return v, nil
}
