package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/auth"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt only hashes the first 72 bytes and rejects anything longer.
const maxPasswordBytes = 72

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type userService struct {
	repo        repository.UserRepository
	rateLimiter repository.RateLimitRepository
	tokens      *auth.TokenManager
}

func NewUserService(repo repository.UserRepository, rateLimiter repository.RateLimitRepository, tokens *auth.TokenManager) UserService {
	return &userService{repo: repo, rateLimiter: rateLimiter, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	if name == "" || email == "" || req.Password == "" {
		return nil, appErrors.ValidationError("Name, email and password are required")
	}

	if len(req.Password) > maxPasswordBytes {
		return nil, appErrors.ValidationError("Password is too long").
			WithDetail(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, appErrors.DuplicateEntryError("Email already registered")
	}

	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, appErrors.DatabaseError("Failed to check existing user").WithError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to secure password").WithError(err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     models.RoleCustomer,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, appErrors.DuplicateEntryError("Email already registered")
		}

		return nil, appErrors.DatabaseError("Failed to create user").WithError(err)
	}

	return s.authResponse(user)
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	allowed, _, retryAfter, err := s.rateLimiter.CheckLoginRateLimit(ctx, email)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return nil, appErrors.TooManyRequestsError("Too many login attempts. Please try again later.").
			WithDetail(fmt.Sprintf("retryAfter=%d", retryAfter))
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.UnauthorizedError("Invalid email or password")
		}

		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, appErrors.UnauthorizedError("Invalid email or password")
	}

	return s.authResponse(user)
}

func (s *userService) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return &models.AuthResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
func (s *userService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, appErrors.UnauthorizedError("Not authorized, no token")
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, appErrors.UnauthorizedError("Token expired").WithError(err)
		}

		return nil, appErrors.UnauthorizedError("Not authorized, token failed").WithError(err)
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.UnauthorizedError("User not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	user.Password = ""

	return user, nil
}
