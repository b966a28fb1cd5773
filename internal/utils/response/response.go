package response

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

const genericInternalMessage = "An unexpected error occurred"

var debug atomic.Bool

// SetDebug controls whether the causes of 5xx errors are exposed to clients.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// interface {} == any
func WriteJson(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data) //struct to json
}

// Success writes the resource itself as the body.
func Success(w http.ResponseWriter, statusCode int, data any) {
	_ = WriteJson(w, statusCode, data)
}

func Error(w http.ResponseWriter, err error) {
	var statusCode int
	var errorResponse *ErrorResponse

	if appErr, ok := errors.IsAppError(err); ok {
		statusCode = appErr.StatusCode
		errorResponse = &ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: append([]string(nil), appErr.Details...),
		}

		if statusCode >= http.StatusInternalServerError && !debug.Load() {
			errorResponse.Message = genericInternalMessage
			errorResponse.Details = nil
		} else if statusCode >= http.StatusInternalServerError && appErr.Err != nil {
			errorResponse.Details = append(errorResponse.Details, appErr.Err.Error())
		}
	} else {
		statusCode = http.StatusInternalServerError
		errorResponse = &ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: genericInternalMessage,
		}

		if debug.Load() && err != nil {
			errorResponse.Details = []string{err.Error()}
		}
	}

	_ = WriteJson(w, statusCode, errorResponse)
}
