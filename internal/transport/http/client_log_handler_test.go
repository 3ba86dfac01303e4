package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"fundview/internal/shared/testutil"
)

func TestClientLogHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLevel  slog.Level
		wantMsg    string
	}{
		{
			name:       "error entry",
			body:       `{"level":"error","message":"figure request failed","source":"dashboard","data":{"metric":"Number of Funds"}}`,
			wantStatus: http.StatusAccepted,
			wantLevel:  slog.LevelError,
			wantMsg:    "figure request failed",
		},
		{
			name:       "unknown level falls back to info",
			body:       `{"level":"trace","message":"socket reconnected"}`,
			wantStatus: http.StatusAccepted,
			wantLevel:  slog.LevelInfo,
			wantMsg:    "socket reconnected",
		},
		{
			name:       "warning alias",
			body:       `{"level":"WARNING","message":"slow render"}`,
			wantStatus: http.StatusAccepted,
			wantLevel:  slog.LevelWarn,
			wantMsg:    "slow render",
		},
		{
			name:       "invalid json",
			body:       `{"level":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing message",
			body:       `{"level":"info"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "oversized body",
			body:       `{"message":"` + strings.Repeat("x", maxClientLogBody) + `"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, capture := testutil.NewTestLogger(t)
			h := NewClientLogHandler(logger)

			req := httptest.NewRequest(http.MethodPost, "/api/client-log", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			h.Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				testutil.AssertLogContains(t, capture, tt.wantLevel, tt.wantMsg)
			} else {
				assert.Empty(t, capture.Records())
			}
		})
	}
}
