package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_PARAMETER", "metric is invalid")

	assert.Equal(t, "metric is invalid", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Nil(t, err.Details)

	withDetails := NewWithDetails(http.StatusNotFound, "NOT_FOUND", "missing", "figure")
	assert.Equal(t, "figure", withDetails.Details)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("metric", "must be one of [Number of Funds Average Fund Size]")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

	details, ok := err.Details.([]ValidationError)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "metric", details[0].Field)
}

func TestDataUnavailable(t *testing.T) {
	err := DataUnavailable(errors.New("data file not found: Fundraising Data.xlsx"))

	assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)
	assert.Equal(t, "DATA_UNAVAILABLE", err.ErrorCode)
	assert.Equal(t, "data file not found: Fundraising Data.xlsx", err.Message)
}

func TestErrPanic(t *testing.T) {
	err := ErrPanic("boom")
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, map[string]string{"message": "boom"}, err.Details)
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/figure", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, ErrRateLimitExceeded)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, ProblemContentType, rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeRateLimit, body["type"])
	assert.Equal(t, "Too Many Requests", body["title"])
	assert.Equal(t, "/api/figure", body["instance"])
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["error_code"])
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		problem *ProblemDetails
		want    map[string]interface{}
		absent  []string
	}{
		{
			name:    "standard members",
			problem: NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "gone", "/x"),
			want: map[string]interface{}{
				"type": TypeNotFound, "title": "Not Found", "status": float64(404),
				"detail": "gone", "instance": "/x",
			},
		},
		{
			name:    "empty optional members are omitted",
			problem: NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error", "", ""),
			want:    map[string]interface{}{"status": float64(500)},
			absent:  []string{"detail", "instance"},
		},
		{
			name: "extensions are flattened",
			problem: NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "bad", "").
				WithExtension("trace_id", "abc").
				WithExtension("error_code", "VALIDATION_FAILED"),
			want: map[string]interface{}{"trace_id": "abc", "error_code": "VALIDATION_FAILED"},
		},
		{
			name: "extensions cannot override standard members",
			problem: NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "").
				WithExtension("status", 200),
			want: map[string]interface{}{"status": float64(400)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.problem)
			require.NoError(t, err)

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &got))

			for k, v := range tt.want {
				assert.Equal(t, v, got[k], k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, got, k)
			}
		})
	}
}

func TestWithExtension_NilMap(t *testing.T) {
	pd := &ProblemDetails{Status: 400}
	pd.WithExtension("k", "v")
	assert.Equal(t, "v", pd.Extensions["k"])
}

func TestAppError(t *testing.T) {
	sentinel := errors.New("data file not found")
	err := NewNotFoundError("data file not found: /tmp/x.xlsx", sentinel).WithContext("path", "/tmp/x.xlsx")

	assert.Equal(t, "[NOT_FOUND] data file not found: /tmp/x.xlsx: data file not found", err.Error())
	assert.True(t, errors.Is(err, sentinel))
	assert.Equal(t, "/tmp/x.xlsx", err.Context["path"])

	bare := &AppError{Type: ErrTypeConfig, Message: "bad"}
	assert.Equal(t, "[CONFIG] bad", bare.Error())
	bare.WithContext("k", 1)
	assert.Equal(t, 1, bare.Context["k"])
}

func TestIsType(t *testing.T) {
	inner := NewParsingError("expected at least 4 columns in the data file", nil)
	outer := NewUnavailableError("fundraising data unavailable", inner)
	wrapped := fmt.Errorf("figure: %w", outer)

	assert.True(t, IsType(wrapped, ErrTypeUnavailable))
	assert.True(t, IsType(wrapped, ErrTypeParsing))
	assert.False(t, IsType(wrapped, ErrTypeNotFound))
	assert.False(t, IsType(errors.New("plain"), ErrTypeParsing))
	assert.False(t, IsType(nil, ErrTypeParsing))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), "boom"},
		{"single app error", NewParsingError("no header row", errors.New("eof")), "no header row"},
		{
			name: "innermost app error wins",
			err:  fmt.Errorf("load: %w", NewUnavailableError("data unavailable", NewParsingError("expected at least 4 columns in the data file", nil))),
			want: "expected at least 4 columns in the data file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
