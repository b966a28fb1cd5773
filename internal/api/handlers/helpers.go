package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

// requireUser fetches the authenticated user or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		logger.Warn("Missing authenticated user in context")
		response.Error(w, errors.UnauthorizedError("Authentication required"))

		return nil, false
	}

	return user, true
}
