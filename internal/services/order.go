package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
)

const notifyTimeout = 5 * time.Second

type OrderService interface {
	CreateOrder(ctx context.Context, user *models.User, req *models.CreateOrderRequest) (*models.Order, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*models.Order, error)
	GetOrder(ctx context.Context, user *models.User, id uuid.UUID) (*models.Order, error)
	PayOrder(ctx context.Context, user *models.User, id uuid.UUID) (*models.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	locker      CartLocker
	notifier    OrderNotifier
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	locker CartLocker,
	notifier OrderNotifier,
) OrderService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}

	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		locker:      locker,
		notifier:    notifier,
		now:         time.Now,
	}
}

// CreateOrder converts the buyer's cart into an order. The order insert and the
// cart reset share one transaction, so either both happen or neither does.
func (s *orderService) CreateOrder(ctx context.Context, user *models.User, req *models.CreateOrderRequest) (*models.Order, error) {
	if req == nil || req.ShippingAddress == nil || req.PaymentMethod == "" {
		return nil, appErrors.ValidationError("Shipping address and payment method are required")
	}

	switch req.PaymentMethod {
	case models.PaymentMethodCard, models.PaymentMethodPayPal, models.PaymentMethodCOD:
	default:
		return nil, appErrors.ValidationError("Invalid payment method").WithDetail(string(req.PaymentMethod))
	}

	unlock, err := s.locker.Lock(ctx, user.ID)
	if err != nil {
		return nil, appErrors.ConflictError("Cart is busy, retry").WithError(err)
	}
	defer unlock()

	cart, err := s.cartRepo.GetCartByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.ValidationError("Cart is empty")
		}

		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if len(cart.Items) == 0 {
		return nil, appErrors.ValidationError("Cart is empty")
	}

	items := make([]models.OrderItem, 0, len(cart.Items))

	for _, line := range cart.Items {
		product, err := s.productRepo.GetProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, appErrors.ValidationError("Product is no longer available").
					WithDetail(line.ProductID.String())
			}

			return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
		}

		if line.Quantity < 1 {
			return nil, appErrors.ValidationError("Invalid cart quantity").WithDetail(line.ProductID.String())
		}

		if line.Quantity > product.Stock {
			return nil, insufficientStock(product)
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.PrimaryImage(),
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}

	totals := CalculateTotals(cart.Subtotal())

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          user.ID,
		Items:           items,
		ShippingAddress: *req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.OrderStatusProcessing,
		ItemsPrice:      totals.Items,
		ShippingPrice:   totals.Shipping,
		TaxPrice:        totals.Tax,
		TotalPrice:      totals.Total,
	}

	if err := s.orderRepo.CreateFromCart(ctx, order, cart.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.ValidationError("Cart is empty").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to create order").WithError(err)
	}

	metrics.OrdersCreated.Inc()
	metrics.OrderRevenue.Add(order.TotalPrice.InexactFloat64())

	s.notify(ctx, user, order)

	return order, nil
}

func (s *orderService) notify(ctx context.Context, user *models.User, order *models.Order) {
	logger := middleware.LoggerFromContext(ctx)

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.OrderPlaced(notifyCtx, user, order); err != nil {
		logger.Warn("Order confirmation not delivered",
			slog.String("orderId", order.ID.String()),
			slog.String("error", err.Error()))
	}
}

func (s *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	if orders == nil {
		orders = []*models.Order{}
	}

	return orders, nil
}

func (s *orderService) getOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

// GetOrder is visible to the buyer who placed it and to admins.
func (s *orderService) GetOrder(ctx context.Context, user *models.User, id uuid.UUID) (*models.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.OwnedBy(user.ID) && !user.IsAdmin() {
		return nil, appErrors.ForbiddenError("Not authorized to view this order")
	}

	return order, nil
}

// PayOrder records a simulated payment. Only the buyer may pay.
func (s *orderService) PayOrder(ctx context.Context, user *models.User, id uuid.UUID) (*models.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.OwnedBy(user.ID) {
		return nil, appErrors.ForbiddenError("Not authorized to pay for this order")
	}

	if order.IsPaid {
		return nil, appErrors.ValidationError("Order is already paid")
	}

	paidAt := s.now().UTC()
	order.PaidAt = &paidAt

	if err := s.orderRepo.MarkPaid(ctx, order); err != nil {
		if errors.Is(err, repository.ErrAlreadyPaid) {
			return nil, appErrors.ValidationError("Order is already paid").WithError(err)
		}

		return nil, appErrors.DatabaseError(fmt.Sprintf("Failed to update order %s", order.ID)).WithError(err)
	}

	metrics.OrdersPaid.Inc()

	return order, nil
}
