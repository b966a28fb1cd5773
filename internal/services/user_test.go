package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/auth"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testJWTKey = []byte("test-secret-key-123456789012345")

func requireAppError(t *testing.T, err error, code string) *appErrors.AppError {
	t.Helper()

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr), "expected *AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)

	return appErr
}

func newUserService() (service.UserService, *mocks.UserRepository, *mocks.RateLimitRepository, *auth.TokenManager) {
	userRepo := new(mocks.UserRepository)
	rateLimiter := new(mocks.RateLimitRepository)
	tokens := auth.NewTokenManager(testJWTKey)

	return service.NewUserService(userRepo, rateLimiter, tokens), userRepo, rateLimiter, tokens
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - User Registration", func(t *testing.T) {
		// Arrange
		userService, userRepo, _, tokens := newUserService()
		req := &models.RegisterRequest{Name: " Test User ", Email: "Test@Example.com", Password: "secret1"}
		userID := uuid.New()

		userRepo.On("GetUserByEmail", mock.Anything, "test@example.com").Return(nil, repository.ErrNotFound).Once()

		var created *models.User
		userRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.User)
				created.ID = userID
			}).
			Return(nil).Once()

		// Act
		resp, err := userService.Register(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, userID, resp.ID)
		assert.Equal(t, "Test User", resp.Name)
		assert.Equal(t, "test@example.com", resp.Email)
		assert.Equal(t, models.RoleCustomer, resp.Role)
		assert.NotEmpty(t, resp.Token)

		// Verify that password was hashed by bcrypt
		require.NotNil(t, created)
		assert.NotEqual(t, req.Password, created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte(req.Password)))

		claims, err := tokens.Parse(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)

		userRepo.AssertExpectations(t)
	})

	t.Run("Failure - Duplicate Email", func(t *testing.T) {
		// Arrange
		userService, userRepo, _, _ := newUserService()
		req := &models.RegisterRequest{Name: "Test User", Email: "test@example.com", Password: "secret1"}

		userRepo.On("GetUserByEmail", mock.Anything, req.Email).Return(&models.User{ID: uuid.New(), Email: req.Email}, nil).Once()

		// Act
		resp, err := userService.Register(ctx, req)

		// Assert
		assert.Nil(t, resp)
		appErr := requireAppError(t, err, appErrors.ErrCodeDuplicateEntry)
		assert.Equal(t, 409, appErr.StatusCode)
		userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Duplicate Email on insert", func(t *testing.T) {
		// Arrange
		userService, userRepo, _, _ := newUserService()
		req := &models.RegisterRequest{Name: "Test User", Email: "test@example.com", Password: "secret1"}

		userRepo.On("GetUserByEmail", mock.Anything, req.Email).Return(nil, repository.ErrNotFound).Once()
		userRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Return(repository.ErrDuplicateEmail).Once()

		// Act
		resp, err := userService.Register(ctx, req)

		// Assert
		assert.Nil(t, resp)
		requireAppError(t, err, appErrors.ErrCodeDuplicateEntry)
		userRepo.AssertExpectations(t)
	})

	t.Run("Failure - Password too long", func(t *testing.T) {
		// Arrange
		userService, userRepo, _, _ := newUserService()
		req := &models.RegisterRequest{Name: "Test User", Email: "test@example.com", Password: strings.Repeat("x", 80)}

		// Act
		resp, err := userService.Register(ctx, req)

		// Assert
		assert.Nil(t, resp)
		appErr := requireAppError(t, err, appErrors.ErrCodeValidation)
		assert.Equal(t, 400, appErr.StatusCode)
		userRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
		userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Success - Password of exactly 72 bytes", func(t *testing.T) {
		// Arrange
		userService, userRepo, _, _ := newUserService()
		req := &models.RegisterRequest{Name: "Test User", Email: "test@example.com", Password: strings.Repeat("x", 72)}

		userRepo.On("GetUserByEmail", mock.Anything, req.Email).Return(nil, repository.ErrNotFound).Once()
		userRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

		// Act
		resp, err := userService.Register(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		userRepo.AssertExpectations(t)
	})

	t.Run("Failure - Missing fields", func(t *testing.T) {
		// Arrange
		userService, userRepo, _, _ := newUserService()

		// Act
		resp, err := userService.Register(ctx, &models.RegisterRequest{Name: "  ", Email: "test@example.com", Password: "secret1"})

		// Assert
		assert.Nil(t, resp)
		requireAppError(t, err, appErrors.ErrCodeValidation)
		userRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		userService, userRepo, _, _ := newUserService()
		req := &models.RegisterRequest{Name: "Test User", Email: "test@example.com", Password: "secret1"}

		userRepo.On("GetUserByEmail", mock.Anything, req.Email).Return(nil, repository.ErrNotFound).Once()
		userRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Return(errors.New("something exploded")).Once()

		// Act
		resp, err := userService.Register(ctx, req)

		// Assert
		assert.Nil(t, resp)
		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
		userRepo.AssertExpectations(t)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	storedUser := func() *models.User {
		return &models.User{
			ID:       uuid.New(),
			Name:     "Test User",
			Email:    "test@example.com",
			Password: string(hashedPassword),
			Role:     models.RoleAdmin,
		}
	}

	t.Run("Success - Valid credentials", func(t *testing.T) {
		// Arrange
		userService, userRepo, rateLimiter, tokens := newUserService()
		user := storedUser()

		rateLimiter.On("CheckLoginRateLimit", mock.Anything, "test@example.com").Return(true, 4, 0, nil).Once()
		userRepo.On("GetUserByEmail", mock.Anything, "test@example.com").Return(user, nil).Once()

		// Act
		resp, err := userService.Login(ctx, &models.LoginRequest{Email: "TEST@example.com ", Password: "secret1"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.ID)
		assert.Equal(t, models.RoleAdmin, resp.Role)

		claims, err := tokens.Parse(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, claims.Role)

		rateLimiter.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})

	t.Run("Failure - Wrong password", func(t *testing.T) {
		// Arrange
		userService, userRepo, rateLimiter, _ := newUserService()

		rateLimiter.On("CheckLoginRateLimit", mock.Anything, "test@example.com").Return(true, 3, 0, nil).Once()
		userRepo.On("GetUserByEmail", mock.Anything, "test@example.com").Return(storedUser(), nil).Once()

		// Act
		resp, err := userService.Login(ctx, &models.LoginRequest{Email: "test@example.com", Password: "wrong"})

		// Assert
		assert.Nil(t, resp)
		appErr := requireAppError(t, err, appErrors.ErrCodeUnauthorized)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	})

	t.Run("Failure - Unknown email", func(t *testing.T) {
		// Arrange
		userService, userRepo, rateLimiter, _ := newUserService()

		rateLimiter.On("CheckLoginRateLimit", mock.Anything, "ghost@example.com").Return(true, 3, 0, nil).Once()
		userRepo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound).Once()

		// Act
		resp, err := userService.Login(ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "secret1"})

		// Assert
		assert.Nil(t, resp)
		appErr := requireAppError(t, err, appErrors.ErrCodeUnauthorized)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	})

	t.Run("Failure - Rate limited", func(t *testing.T) {
		// Arrange
		userService, userRepo, rateLimiter, _ := newUserService()

		rateLimiter.On("CheckLoginRateLimit", mock.Anything, "test@example.com").Return(false, 0, 120, nil).Once()

		// Act
		resp, err := userService.Login(ctx, &models.LoginRequest{Email: "test@example.com", Password: "secret1"})

		// Assert
		assert.Nil(t, resp)
		appErr := requireAppError(t, err, appErrors.ErrCodeTooManyRequests)
		assert.Contains(t, appErr.Details, "retryAfter=120")
		userRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Rate limiter unavailable", func(t *testing.T) {
		// Arrange
		userService, _, rateLimiter, _ := newUserService()

		rateLimiter.On("CheckLoginRateLimit", mock.Anything, "test@example.com").Return(false, 0, 0, errors.New("redis down")).Once()

		// Act
		resp, err := userService.Login(ctx, &models.LoginRequest{Email: "test@example.com", Password: "secret1"})

		// Assert
		assert.Nil(t, resp)
		requireAppError(t, err, appErrors.ErrCodeThirdPartyError)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Valid token", func(t *testing.T) {
		// Arrange
		userService, userRepo, _, tokens := newUserService()
		user := &models.User{ID: uuid.New(), Name: "Test User", Email: "test@example.com", Password: "hash", Role: models.RoleCustomer}

		token, _, err := tokens.Issue(user)
		require.NoError(t, err)

		userRepo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Once()

		// Act
		got, err := userService.Authenticate(ctx, token)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Empty(t, got.Password, "password hash must not leave the service")
	})

	t.Run("Failure - Empty token", func(t *testing.T) {
		userService, _, _, _ := newUserService()

		_, err := userService.Authenticate(ctx, "")

		requireAppError(t, err, appErrors.ErrCodeUnauthorized)
	})

	t.Run("Failure - Token signed with another key", func(t *testing.T) {
		// Arrange
		userService, userRepo, _, _ := newUserService()
		other := auth.NewTokenManager([]byte("another-secret-key-0000000000000"))

		token, _, err := other.Issue(&models.User{ID: uuid.New(), Role: models.RoleCustomer})
		require.NoError(t, err)

		// Act
		_, err = userService.Authenticate(ctx, token)

		// Assert
		requireAppError(t, err, appErrors.ErrCodeUnauthorized)
		userRepo.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("Failure - User no longer exists", func(t *testing.T) {
		// Arrange
		userService, userRepo, _, tokens := newUserService()
		user := &models.User{ID: uuid.New(), Role: models.RoleCustomer}

		token, _, err := tokens.Issue(user)
		require.NoError(t, err)

		userRepo.On("GetUserByID", mock.Anything, user.ID).Return(nil, repository.ErrNotFound).Once()

		// Act
		got, err := userService.Authenticate(ctx, token)

		// Assert
		assert.Nil(t, got)
		requireAppError(t, err, appErrors.ErrCodeUnauthorized)
	})
}
