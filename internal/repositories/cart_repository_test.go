package repository_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartRepo(t *testing.T) {
	db, _ := newMockDB(t)

	repo := repository.NewCartRepo(db)
	assert.NotNil(t, repo, "NewCartRepo should return a non-nil repository")
}

func TestCartRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewCartRepo(db)
	ctx := t.Context()

	t.Run("CreateCart", func(t *testing.T) {
		cart := &models.Cart{ID: uuid.New(), UserID: uuid.New()}

		t.Run("Success", func(t *testing.T) {
			// Arrange
			now := time.Now()
			mock.ExpectQuery(`INSERT INTO carts \(id, user_id, items, created_at, updated_at\).*ON CONFLICT \(user_id\) DO NOTHING`).
				WithArgs(cart.ID, cart.UserID, []byte("[]")).
				WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

			// Act
			err := repo.CreateCart(ctx, cart)

			// Assert
			require.NoError(t, err)
			assert.WithinDuration(t, now, cart.CreatedAt, time.Second)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - User already has a cart", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(`INSERT INTO carts`).WillReturnError(sql.ErrNoRows)

			// Act
			err := repo.CreateCart(ctx, cart)

			// Assert
			require.ErrorIs(t, err, repository.ErrAlreadyExists)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Database error", func(t *testing.T) {
			// Arrange
			dbErr := errors.New("database insertion error")
			mock.ExpectQuery(`INSERT INTO carts`).WillReturnError(dbErr)

			// Act
			err := repo.CreateCart(ctx, cart)

			// Assert
			require.ErrorIs(t, err, dbErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetCartByUserID", func(t *testing.T) {
		userID := uuid.New()
		cartID := uuid.New()
		items := []models.CartItem{
			{ID: uuid.New(), ProductID: uuid.New(), Quantity: 2, Price: decimal.RequireFromString("10.50"), AddedAt: time.Now().UTC()},
		}
		itemsJSON, err := json.Marshal(items)
		require.NoError(t, err)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			now := time.Now()
			mock.ExpectQuery(`SELECT id, user_id, items, created_at, updated_at\s+FROM carts\s+WHERE user_id = \$1`).
				WithArgs(userID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "items", "created_at", "updated_at"}).
					AddRow(cartID.String(), userID.String(), itemsJSON, now, now))

			// Act
			cart, err := repo.GetCartByUserID(ctx, userID)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, cartID, cart.ID)
			require.Len(t, cart.Items, 1)
			assert.Equal(t, items[0].ID, cart.Items[0].ID)
			assert.Equal(t, 2, cart.Items[0].Quantity)
			assert.True(t, items[0].Price.Equal(cart.Items[0].Price))
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Success - Empty items", func(t *testing.T) {
			// Arrange
			now := time.Now()
			mock.ExpectQuery(`FROM carts`).
				WithArgs(userID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "items", "created_at", "updated_at"}).
					AddRow(cartID.String(), userID.String(), []byte("[]"), now, now))

			// Act
			cart, err := repo.GetCartByUserID(ctx, userID)

			// Assert
			require.NoError(t, err)
			assert.NotNil(t, cart.Items)
			assert.Empty(t, cart.Items)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Not found", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(`FROM carts`).WithArgs(userID).WillReturnError(sql.ErrNoRows)

			// Act
			cart, err := repo.GetCartByUserID(ctx, userID)

			// Assert
			require.ErrorIs(t, err, repository.ErrNotFound)
			assert.Nil(t, cart)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Corrupt items", func(t *testing.T) {
			// Arrange
			now := time.Now()
			mock.ExpectQuery(`FROM carts`).
				WithArgs(userID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "items", "created_at", "updated_at"}).
					AddRow(cartID.String(), userID.String(), []byte("{not json"), now, now))

			// Act
			_, err := repo.GetCartByUserID(ctx, userID)

			// Assert
			require.ErrorContains(t, err, "failed to unmarshal cart items")
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("UpdateCart", func(t *testing.T) {
		cart := &models.Cart{
			ID: uuid.New(),
			Items: []models.CartItem{
				{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, Price: decimal.NewFromInt(5)},
			},
		}

		t.Run("Success", func(t *testing.T) {
			// Arrange
			now := time.Now()
			mock.ExpectQuery(`UPDATE carts\s+SET items = \$1, updated_at = NOW\(\)\s+WHERE id = \$2`).
				WithArgs(sqlmock.AnyArg(), cart.ID).
				WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

			// Act
			err := repo.UpdateCart(ctx, cart)

			// Assert
			require.NoError(t, err)
			assert.WithinDuration(t, now, cart.UpdatedAt, time.Second)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Cart missing", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(`UPDATE carts`).WillReturnError(sql.ErrNoRows)

			// Act
			err := repo.UpdateCart(ctx, cart)

			// Assert
			require.ErrorIs(t, err, repository.ErrNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
