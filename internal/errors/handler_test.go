package errors

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestErrorHandler() *ErrorHandler {
	return NewErrorHandler(slog.Default(), false)
}

func TestErrorToProblem_AppErrorMapping(t *testing.T) {
	handler := newTestErrorHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/snapshot", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "load error is 503",
			err:        NewLoadError("cannot open members table file", nil),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetLoad,
		},
		{
			name:       "schema mismatch is 422",
			err:        NewSchemaError("members", "msuccess"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeSchemaMismatch,
		},
		{
			name:       "validation error is 400",
			err:        NewAppValidationError("selected year is not present"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "not found is 404",
			err:        NewNotFoundError("dataset table bogus"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown app error type is 500",
			err:        NewStorageError("disk full", nil),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := handler.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/dashboard/snapshot", problem.Instance)
		})
	}
}

func TestErrorToProblem_APIError(t *testing.T) {
	handler := newTestErrorHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/preview/bogus", nil)

	problem := handler.ErrorToProblem(ErrValidation("table", "Unknown dataset table"), req)
	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.Equal(t, TypeValidation, problem.Type)
}

func TestErrorToProblem_ContextDeadline(t *testing.T) {
	handler := newTestErrorHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/snapshot", nil)

	problem := handler.ErrorToProblem(context.DeadlineExceeded, req)
	assert.Equal(t, http.StatusGatewayTimeout, problem.Status)
	assert.Equal(t, TypeTimeout, problem.Type)
}

func TestErrorToProblem_UnknownError(t *testing.T) {
	handler := newTestErrorHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)

	problem := handler.ErrorToProblem(assert.AnError, req)
	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.Equal(t, TypeInternal, problem.Type)
}

func TestHandleError_WritesProblemResponse(t *testing.T) {
	handler := newTestErrorHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/snapshot", nil)
	rec := httptest.NewRecorder()

	handler.HandleError(rec, req, NewSchemaError("members", "peakid"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeSchemaMismatch, body["type"])
	assert.Equal(t, "members", body["table"], "schema error context surfaces as extension")
	assert.Equal(t, "peakid", body["column"])
}

func TestProblemDetails_MarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(400, TypeValidation, "Validation Failed", "bad year", "/api/x").
		WithExtension("year", 1875)

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(1875), body["year"])
	assert.Equal(t, "bad year", body["detail"])
}

func TestAppError_WrappingAndType(t *testing.T) {
	cause := assert.AnError
	err := NewLoadError("cannot open peaks table file", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsType(err, ErrTypeLoad))
	assert.False(t, IsType(err, ErrTypeSchema))
	assert.Contains(t, err.Error(), "LOAD")
}
