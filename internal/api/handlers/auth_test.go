package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(b)
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Success - User Registered", func(t *testing.T) {
		// Arrange
		userService := new(mocks.UserService)
		handler := handlers.NewAuthHandler(userService)

		reqBody := models.RegisterRequest{Name: "Jane <b>Buyer</b>", Email: "jane@example.com", Password: "secret1"}
		expected := &models.AuthResponse{ID: uuid.New(), Name: "Jane Buyer", Email: reqBody.Email, Role: models.RoleCustomer, Token: "jwt"}

		userService.On("Register", mock.Anything, mock.MatchedBy(func(r *models.RegisterRequest) bool {
			return r.Name == "Jane Buyer" && r.Email == "jane@example.com"
		})).Return(expected, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/auth/register", jsonBody(t, reqBody), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Register().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp models.AuthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, expected.ID, resp.ID)
		assert.Equal(t, "jwt", resp.Token)
		userService.AssertExpectations(t)
	})

	t.Run("Failure - Bad JSON", func(t *testing.T) {
		userService := new(mocks.UserService)
		handler := handlers.NewAuthHandler(userService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("{invalid")), nil)
		rr := httptest.NewRecorder()

		handler.Register().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeBadRequest, testutils.DecodeErrorResponse(t, rr).Code)
		userService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Validation Error", func(t *testing.T) {
		// Arrange
		userService := new(mocks.UserService)
		handler := handlers.NewAuthHandler(userService)

		reqBody := models.RegisterRequest{Email: "not-an-email", Password: "123"}
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/auth/register", jsonBody(t, reqBody), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Register().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		body := testutils.DecodeErrorResponse(t, rr)
		assert.Equal(t, appErrors.ErrCodeValidation, body.Code)
		assert.Len(t, body.Details, 3)
		userService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Password too long", func(t *testing.T) {
		userService := new(mocks.UserService)
		handler := handlers.NewAuthHandler(userService)

		reqBody := models.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: strings.Repeat("x", 80)}
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/auth/register", jsonBody(t, reqBody), nil)
		rr := httptest.NewRecorder()

		handler.Register().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeValidation, testutils.DecodeErrorResponse(t, rr).Code)
		userService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Duplicate Email", func(t *testing.T) {
		userService := new(mocks.UserService)
		handler := handlers.NewAuthHandler(userService)

		userService.On("Register", mock.Anything, mock.Anything).Return(nil, appErrors.DuplicateEntryError("Email already registered")).Once()

		reqBody := models.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret1"}
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/auth/register", jsonBody(t, reqBody), nil)
		rr := httptest.NewRecorder()

		handler.Register().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		body := testutils.DecodeErrorResponse(t, rr)
		assert.Equal(t, "Email already registered", body.Message)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, body.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		serviceResp    *models.AuthResponse
		serviceErr     error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Success - Logged in",
			serviceResp:    &models.AuthResponse{ID: uuid.New(), Token: "jwt"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Failure - Invalid credentials",
			serviceErr:     appErrors.UnauthorizedError("Invalid email or password"),
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   appErrors.ErrCodeUnauthorized,
		},
		{
			name:           "Failure - Rate limited",
			serviceErr:     appErrors.TooManyRequestsError("Too many login attempts. Please try again later."),
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   appErrors.ErrCodeTooManyRequests,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			userService := new(mocks.UserService)
			handler := handlers.NewAuthHandler(userService)

			reqBody := models.LoginRequest{Email: "jane@example.com", Password: "secret1"}

			if tc.serviceErr != nil {
				userService.On("Login", mock.Anything, &reqBody).Return(nil, tc.serviceErr).Once()
			} else {
				userService.On("Login", mock.Anything, &reqBody).Return(tc.serviceResp, nil).Once()
			}

			req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/auth/login", jsonBody(t, reqBody), nil)
			rr := httptest.NewRecorder()

			// Act
			handler.Login().ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedCode != "" {
				assert.Equal(t, tc.expectedCode, testutils.DecodeErrorResponse(t, rr).Code)
			}

			userService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("Success - Returns user without password", func(t *testing.T) {
		handler := handlers.NewAuthHandler(new(mocks.UserService))
		user := &models.User{ID: uuid.New(), Name: "Jane", Email: "jane@example.com", Password: "hash", Role: models.RoleCustomer}

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/auth/me", nil, user, nil)
		rr := httptest.NewRecorder()

		handler.Me().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), user.ID.String())
		assert.NotContains(t, rr.Body.String(), "hash")
	})

	t.Run("Failure - No user in context", func(t *testing.T) {
		handler := handlers.NewAuthHandler(new(mocks.UserService))

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/auth/me", nil, nil)
		rr := httptest.NewRecorder()

		handler.Me().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
