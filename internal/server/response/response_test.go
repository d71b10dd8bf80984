package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digestiflow/flowsheet/pkg/errors"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestOKEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"lanes": "1-3"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"lanes":"1-3"},"error":null}`, rec.Body.String())
}

func TestFail(t *testing.T) {
	resp := Fail("BAD_LANES", "Lane range rejected", "dangling dash")
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, Error{Code: "BAD_LANES", Message: "Lane range rejected", Details: "dangling dash"}, *resp.Error)
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "Invalid body", "missing rows") }, http.StatusBadRequest, "BAD_REQUEST"},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "API key required", "") }, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "Project not found", "") }, http.StatusNotFound, "NOT_FOUND"},
		{"too large", func(w http.ResponseWriter) { TooLarge(w, 4<<20) }, http.StatusRequestEntityTooLarge, "TOO_LARGE"},
		{"rate limited", func(w http.ResponseWriter) { RateLimited(w, "60 requests per minute") }, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"internal", func(w http.ResponseWriter) { InternalError(w, errors.New("boom")) }, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"unavailable", func(w http.ResponseWriter) { ServiceUnavailable(w, "no catalog") }, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"timeout", func(w http.ResponseWriter) { GatewayTimeout(w, "catalog slow") }, http.StatusGatewayTimeout, "TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)
			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.Nil(t, resp.Data)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestErrorFromType(t *testing.T) {
	const endpoint = "/api/barcodesets/p/"
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", errors.NewNotFoundError("project", "p1"), http.StatusNotFound, "NOT_FOUND"},
		{"validation", errors.NewValidationError("field", "x", "unknown field"), http.StatusBadRequest, "BAD_REQUEST"},
		{"parse", errors.NewParseError("multirange", "1-x", "bad bound", nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"catalog 404", errors.NewAPIError(endpoint, 404, "missing"), http.StatusNotFound, "NOT_FOUND"},
		{"catalog 403", errors.NewAPIError(endpoint, 403, "forbidden"), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"catalog 503", errors.NewAPIError(endpoint, 503, "down"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"timeout", fmt.Errorf("%w: deadline", errors.ErrTimeout), http.StatusGatewayTimeout, "TIMEOUT"},
		{"other", errors.New("generic error"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ErrorFromType(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decode(t, rec).Error.Code)
		})
	}
}

func TestParseErrorMessageNamesFormat(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorFromType(rec, errors.NewParseError("bases-mask", "151Q", "unknown segment type", nil))
	assert.Equal(t, "Malformed bases-mask", decode(t, rec).Error.Message)
}

func TestInternalErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	InternalError(rec, errors.New("secret connection string"))
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "4 MiB", humanBytes(4<<20))
	assert.Equal(t, "2 KiB", humanBytes(2048))
	assert.Equal(t, "1500 bytes", humanBytes(1500))
}
