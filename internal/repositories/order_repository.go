package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

type OrderRepository interface {
	CreateFromCart(ctx context.Context, order *models.Order, cartID uuid.UUID) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*models.Order, error)
	MarkPaid(ctx context.Context, order *models.Order) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, user_id, items, shipping_address, payment_method, payment_status, is_paid, paid_at,
		status, items_price, shipping_price, tax_price, total_price, created_at, updated_at`

// CreateFromCart inserts the order and empties the originating cart in one transaction.
func (r *orderRepository) CreateFromCart(ctx context.Context, order *models.Order, cartID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	insert := `
		INSERT INTO orders (id, user_id, items, shipping_address, payment_method, payment_status, is_paid,
			status, items_price, shipping_price, tax_price, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at`

	err = tx.QueryRowContext(dbCtx, insert, order.ID, order.UserID, itemsJSON, addressJSON, order.PaymentMethod,
		order.PaymentStatus, order.IsPaid, order.Status, order.ItemsPrice, order.ShippingPrice, order.TaxPrice,
		order.TotalPrice).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	emptyCart := `UPDATE carts SET items = '[]'::jsonb, updated_at = NOW() WHERE id = $1`

	result, err := tx.ExecContext(dbCtx, emptyCart, cartID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	cleared, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if cleared == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}

	var itemsJSON, addressJSON []byte
	var paidAt sql.NullTime

	err := row.Scan(&order.ID, &order.UserID, &itemsJSON, &addressJSON, &order.PaymentMethod, &order.PaymentStatus,
		&order.IsPaid, &paidAt, &order.Status, &order.ItemsPrice, &order.ShippingPrice, &order.TaxPrice,
		&order.TotalPrice, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}

	if paidAt.Valid {
		t := paidAt.Time
		order.PaidAt = &t
	}

	return order, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1`

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	return order, nil
}

// ListOrdersByUser returns the user's orders, newest first.
func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// MarkPaid flips an unpaid order to paid. It returns ErrAlreadyPaid if another request won.
func (r *orderRepository) MarkPaid(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if order.PaidAt == nil {
		now := time.Now().UTC()
		order.PaidAt = &now
	}

	query := `
		UPDATE orders
		SET is_paid = TRUE, paid_at = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3 AND is_paid = FALSE
		RETURNING updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, *order.PaidAt, models.PaymentStatusCompleted, order.ID).Scan(&order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAlreadyPaid
		}

		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	order.IsPaid = true
	order.PaymentStatus = models.PaymentStatusCompleted

	return nil
}
