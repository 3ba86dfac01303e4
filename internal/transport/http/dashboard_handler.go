package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	apierrors "fundview/internal/errors"
	"fundview/pkg/contracts/domain"
)

// PlotlyURL is the plotly.js bundle the dashboard page loads.
const PlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// DashboardOptions configures the dashboard page
type DashboardOptions struct {
	Title     string
	WebSocket bool
}

type dashboardPage struct {
	Title         string
	PlotlyURL     string
	Metrics       []domain.MetricOption
	DefaultMetric string
	WebSocket     bool
}

// DashboardHandler serves the single dashboard page: the metric dropdown
// and the chart the page fills from /api/figure
type DashboardHandler struct {
	page   dashboardPage
	logger *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(opts DashboardOptions, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		page: dashboardPage{
			Title:         opts.Title,
			PlotlyURL:     PlotlyURL,
			Metrics:       domain.MetricOptions(),
			DefaultMetric: string(domain.DefaultMetric),
			WebSocket:     opts.WebSocket,
		},
		logger: logger.With(slog.String("handler", "dashboard")),
	}
}

// ServeHTTP handles GET /
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, h.page); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render dashboard",
			slog.String("error", err.Error()))
		apierrors.WriteError(w, r, apierrors.ErrInternalServer)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
