package utils_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndValidate(t *testing.T) {
	validate := validator.New()

	t.Run("Success - Decodes and sanitises", func(t *testing.T) {
		body := `{"name":"<b>Jane</b> & Co","email":"jane@example.com","password":"secret1"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rr := httptest.NewRecorder()

		var dest models.RegisterRequest
		ok := utils.ParseAndValidate(req, rr, &dest, validate)

		require.True(t, ok)
		assert.Equal(t, "Jane & Co", dest.Name)
		assert.Equal(t, "jane@example.com", dest.Email)
	})

	t.Run("Failure - Empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(""))
		rr := httptest.NewRecorder()

		var dest models.LoginRequest
		ok := utils.ParseAndValidate(req, rr, &dest, validate)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `"code":"BAD_REQUEST"`)
	})

	t.Run("Failure - Malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
		rr := httptest.NewRecorder()

		var dest models.LoginRequest
		assert.False(t, utils.ParseAndValidate(req, rr, &dest, validate))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - Validation errors listed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"name":"","email":"nope","password":"123"}`))
		rr := httptest.NewRecorder()

		var dest models.RegisterRequest
		ok := utils.ParseAndValidate(req, rr, &dest, validate)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{
			"message": "Validation failed",
			"code": "VALIDATION_ERROR",
			"details": [
				"Field Name is required",
				"Field Email must be a valid email address",
				"Field Password must be at least 6"
			]
		}`, rr.Body.String())
	})

	t.Run("Failure - Unknown payment method", func(t *testing.T) {
		body := `{"shippingAddress":{"name":"A","address":"1 St","city":"C","state":"S","zipCode":"1","country":"X"},"paymentMethod":"bitcoin"}`
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		rr := httptest.NewRecorder()

		var dest models.CreateOrderRequest
		assert.False(t, utils.ParseAndValidate(req, rr, &dest, validate))
		assert.Contains(t, rr.Body.String(), "Field PaymentMethod must be one of: card paypal cod")
	})
}

func TestValidateStruct(t *testing.T) {
	validate := validator.New()

	err := utils.ValidateStruct(validate, &models.UpdateCartItemRequest{Quantity: 0})
	require.Error(t, err)

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, []string{"Field Quantity is required"}, appErr.Details)

	assert.NoError(t, utils.ValidateStruct(validate, &models.UpdateCartItemRequest{Quantity: 2}))
}

func TestParseUUID(t *testing.T) {
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+id.String(), nil)
	req.SetPathValue("id", id.String())

	got, err := utils.ParseUUID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	req.SetPathValue("id", "not-a-uuid")
	_, err = utils.ParseUUID(req, "id")
	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid id", appErr.Message)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hello", utils.CleanText("  <script>alert(1)</script>hello "))
	assert.Equal(t, "Tom's \"shop\"", utils.CleanText(`Tom's "shop"`))
}

func TestWithDBTimeout(t *testing.T) {
	t.Cleanup(func() { utils.SetDBTimeout(0) })

	t.Run("Success - Configured bound applied", func(t *testing.T) {
		utils.SetDBTimeout(50 * time.Millisecond)

		ctx, cancel := utils.WithDBTimeout(context.Background())
		defer cancel()

		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 40*time.Millisecond)
	})

	t.Run("Success - Non-positive restores default", func(t *testing.T) {
		utils.SetDBTimeout(-1)

		ctx, cancel := utils.WithDBTimeout(context.Background())
		defer cancel()

		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(utils.DefaultDBTimeout), deadline, time.Second)
	})
}
