package utils

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// ParseAndValidate decodes the body into dest, sanitises free text and validates it.
// On failure the error response has already been written.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {
	if err := DecodeJSONBody(r, dest); err != nil {
		middleware.LoggerFromContext(r.Context()).Warn("Invalid request", slog.String("error", err.Error()))
		response.Error(w, appErrors.BadRequestError("Invalid request body").WithDetail(err.Error()))

		return false
	}

	if s, ok := dest.(Sanitizer); ok {
		s.Sanitize(CleanText)
	}

	if err := ValidateStruct(validate, dest); err != nil {
		middleware.LoggerFromContext(r.Context()).Warn("Validation failed", slog.String("error", err.Error()))
		response.Error(w, err)

		return false
	}

	return true
}
