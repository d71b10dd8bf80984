// Package response writes the JSON envelope shared by all API endpoints.
// Exactly one of data and error is non-null:
//
//	{"data": {...}, "error": null}
//	{"data": null, "error": {"code": "BAD_REQUEST", "message": "...", "details": "..."}}
package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/digestiflow/flowsheet/pkg/errors"
)

// Response is the envelope.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error is the failure half of the envelope. Code is a stable machine
// readable string; Message and Details are for people.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func Success(data any) Response { return Response{Data: data} }

func Fail(code, message, details string) Response {
	return Response{Error: &Error{Code: code, Message: message, Details: details}}
}

// JSON sends resp with status.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func OK(w http.ResponseWriter, data any) { JSON(w, http.StatusOK, Success(data)) }

func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", message, details))
}

func Unauthorized(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusUnauthorized, Fail("UNAUTHORIZED", message, details))
}

func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail("NOT_FOUND", message, details))
}

// TooLarge rejects a request body above limit bytes.
func TooLarge(w http.ResponseWriter, limit int64) {
	JSON(w, http.StatusRequestEntityTooLarge,
		Fail("TOO_LARGE", "Request body too large", "Bodies are limited to "+humanBytes(limit)))
}

func RateLimited(w http.ResponseWriter, details string) {
	JSON(w, http.StatusTooManyRequests, Fail("RATE_LIMITED", "Rate limit exceeded", details))
}

// InternalError answers 500. err is deliberately not echoed to the client;
// callers log it.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError,
		Fail("INTERNAL_ERROR", "Internal server error", "An unexpected error occurred"))
}

// ServiceUnavailable is used when no barcode catalog is configured or the
// configured one is down.
func ServiceUnavailable(w http.ResponseWriter, details string) {
	JSON(w, http.StatusServiceUnavailable, Fail("SERVICE_UNAVAILABLE", "Service unavailable", details))
}

func GatewayTimeout(w http.ResponseWriter, details string) {
	JSON(w, http.StatusGatewayTimeout, Fail("TIMEOUT", "Upstream timed out", details))
}

// ErrorFromType picks the status for err from the sentinel it matches.
// Parse errors keep their format in the message so a client can tell a
// bad lane range from a bad sheet.
func ErrorFromType(w http.ResponseWriter, err error) {
	var (
		pe *errors.ParseError
		ae *errors.APIError
	)
	switch {
	case errors.IsNotFound(err):
		NotFound(w, err.Error(), "")
	case errors.As(err, &pe):
		BadRequest(w, "Malformed "+pe.Format, pe.Error())
	case errors.IsValidationError(err):
		BadRequest(w, err.Error(), "")
	case errors.IsTimeout(err):
		GatewayTimeout(w, err.Error())
	case errors.IsUnavailable(err):
		ServiceUnavailable(w, err.Error())
	case errors.As(err, &ae) && ae.StatusCode >= 400 && ae.StatusCode < 500:
		// the catalog refused us, typically a bad token
		JSON(w, http.StatusBadGateway, Fail("UPSTREAM_ERROR", "Catalog request rejected", ae.Error()))
	default:
		InternalError(w, err)
	}
}

func humanBytes(n int64) string {
	for _, u := range []struct {
		shift uint
		name  string
	}{{20, " MiB"}, {10, " KiB"}} {
		if n >= 1<<u.shift && n%(1<<u.shift) == 0 {
			return strconv.FormatInt(n>>u.shift, 10) + u.name
		}
	}
	return strconv.FormatInt(n, 10) + " bytes"
}
