package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	emailsender "github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/mock"
)

type UserService struct {
	mock.Mock
}

func (m *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

type ProductService struct {
	mock.Mock
}

func (m *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) (*models.PaginatedResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PaginatedResponse), args.Error(1)
}

func (m *ProductService) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]string), args.Error(1)
}

type CartService struct {
	mock.Mock
}

func (m *CartService) cart(args mock.Arguments) (*models.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID))
}

func (m *CartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID, req))
}

func (m *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *models.UpdateCartItemRequest) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID, itemID, req))
}

func (m *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID, itemID))
}

func (m *CartService) ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID))
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) order(args mock.Arguments) (*models.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) CreateOrder(ctx context.Context, user *models.User, req *models.CreateOrderRequest) (*models.Order, error) {
	return m.order(m.Called(ctx, user, req))
}

func (m *OrderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *OrderService) GetOrder(ctx context.Context, user *models.User, id uuid.UUID) (*models.Order, error) {
	return m.order(m.Called(ctx, user, id))
}

func (m *OrderService) PayOrder(ctx context.Context, user *models.User, id uuid.UUID) (*models.Order, error) {
	return m.order(m.Called(ctx, user, id))
}

type OrderNotifier struct {
	mock.Mock
}

func (m *OrderNotifier) OrderPlaced(ctx context.Context, user *models.User, order *models.Order) error {
	args := m.Called(ctx, user, order)
	return args.Error(0)
}

type EmailService struct {
	mock.Mock
}

func (m *EmailService) Send(ctx context.Context, msg *emailsender.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *EmailService) GetSendGridClient() *sendgrid.Client {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(*sendgrid.Client)
}
