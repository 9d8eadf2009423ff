package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"document-portal/internal/domain"
	apperrors "document-portal/pkg/errors"
)

type contextKey string

const requestIDContextKey contextKey = "request_id"

const maxJSONBodyBytes = 10 << 20

// GetRequestID returns the request id set by RequestLogger.
func GetRequestID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(requestIDContextKey).(string)
	return id, ok
}

// writeJSON writes data as a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError maps err to a status code and client message and logs it.
func writeAppError(w http.ResponseWriter, r *http.Request, logger domain.Logger, err error) {
	status := apperrors.GetStatusCode(err)
	message := apperrors.Message(err, "Internal server error")

	requestID, _ := GetRequestID(r)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, "path", r.URL.Path, "status", status, "request_id", requestID)
	} else {
		logger.Warn("Request rejected", "path", r.URL.Path, "status", status, "error", err, "request_id", requestID)
	}

	writeError(w, status, message)
}

// decodeJSON decodes the request body into v. An empty body leaves v
// untouched when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		return apperrors.NewValidationError("Invalid request body", err.Error())
	}
	return nil
}
