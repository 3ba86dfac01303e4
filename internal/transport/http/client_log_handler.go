package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	apierrors "fundview/internal/errors"
	fvmiddleware "fundview/internal/middleware"
	api "fundview/pkg/contracts/api/v1"
)

// maxClientLogBody bounds what a page may post to the log endpoint
const maxClientLogBody = 16 << 10

// ClientLogHandler records problems the dashboard page runs into, such as a
// figure request failing or the notification socket dropping
type ClientLogHandler struct {
	validator *fvmiddleware.QueryValidator
	logger    *slog.Logger
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(logger *slog.Logger) *ClientLogHandler {
	return &ClientLogHandler{
		validator: fvmiddleware.NewQueryValidator(),
		logger:    logger.With(slog.String("handler", "client_log")),
	}
}

// Handle processes POST /api/client-log
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxClientLogBody)

	var req api.ClientLogRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidRequest)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := h.validator.Validate(req); err != nil {
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) {
			apierrors.WriteError(w, r, apiErr)
			return
		}
		apierrors.WriteError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	attrs := []slog.Attr{
		slog.String("client_source", req.Source),
		slog.String("user_agent", r.UserAgent()),
	}
	if req.Data != nil {
		attrs = append(attrs, slog.Any("data", req.Data))
	}

	h.logger.LogAttrs(r.Context(), clientLevel(req.Level), req.Message, attrs...)

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]interface{}{"success": true})
}

// clientLevel maps a page-supplied level name, defaulting to info
func clientLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
