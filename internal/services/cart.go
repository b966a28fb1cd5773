package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *models.UpdateCartItemRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	locker      CartLocker
	now         func() time.Time
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, locker CartLocker) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		locker:      locker,
		now:         time.Now,
	}
}

func newCart(userID uuid.UUID) *models.Cart {
	return &models.Cart{ID: uuid.New(), UserID: userID, Items: []models.CartItem{}}
}

// GetCart returns the buyer's cart, creating an empty one on first use.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}

	if !errors.Is(err, repository.ErrNotFound) {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	cart = newCart(userID)

	err = s.cartRepo.CreateCart(ctx, cart)
	if errors.Is(err, repository.ErrAlreadyExists) {
		cart, err = s.cartRepo.GetCartByUserID(ctx, userID)
	}

	if err != nil {
		return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
	}

	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	if quantity < 0 || quantity > models.MaxLineQuantity {
		return nil, appErrors.ValidationError("Invalid quantity").
			WithDetail(fmt.Sprintf("Quantity must be between 1 and %d", models.MaxLineQuantity))
	}

	cart, err := s.mutate(ctx, userID, true, func(cart *models.Cart) (bool, error) {
		product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return false, appErrors.NotFoundError("Product not found").WithError(err)
			}

			return false, appErrors.DatabaseError("Failed to fetch product").WithError(err)
		}

		idx := cart.FindProduct(product.ID)

		existing := 0
		if idx >= 0 {
			existing = cart.Items[idx].Quantity
		}

		// compared as a difference so the sum never overflows
		if quantity > product.Stock-existing {
			return false, insufficientStock(product)
		}

		if idx >= 0 {
			cart.Items[idx].Quantity = existing + quantity
			return true, nil
		}

		cart.Items = append(cart.Items, models.CartItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Quantity:  quantity,
			Price:     product.Price,
			AddedAt:   s.now().UTC(),
		})

		return true, nil
	})

	metrics.RecordCartOperation("add", err)

	return cart, err
}

func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *models.UpdateCartItemRequest) (*models.Cart, error) {
	if req.Quantity < 1 || req.Quantity > models.MaxLineQuantity {
		return nil, appErrors.ValidationError("Invalid quantity").
			WithDetail(fmt.Sprintf("Quantity must be between 1 and %d", models.MaxLineQuantity))
	}

	cart, err := s.mutate(ctx, userID, false, func(cart *models.Cart) (bool, error) {
		idx := cart.FindItem(itemID)
		if idx < 0 {
			return false, appErrors.NotFoundError("Item not found in cart")
		}

		product, err := s.productRepo.GetProductByID(ctx, cart.Items[idx].ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return false, appErrors.NotFoundError("Product not found").WithError(err)
			}

			return false, appErrors.DatabaseError("Failed to fetch product").WithError(err)
		}

		if req.Quantity > product.Stock {
			return false, insufficientStock(product)
		}

		cart.Items[idx].Quantity = req.Quantity

		return true, nil
	})

	metrics.RecordCartOperation("update", err)

	return cart, err
}

// RemoveItem drops a line; removing a line that is not there is not an error.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {
	cart, err := s.mutate(ctx, userID, false, func(cart *models.Cart) (bool, error) {
		idx := cart.FindItem(itemID)
		if idx < 0 {
			return false, nil
		}

		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

		return true, nil
	})

	metrics.RecordCartOperation("remove", err)

	return cart, err
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.mutate(ctx, userID, false, func(cart *models.Cart) (bool, error) {
		if len(cart.Items) == 0 {
			return false, nil
		}

		cart.Items = []models.CartItem{}

		return true, nil
	})

	metrics.RecordCartOperation("clear", err)

	return cart, err
}

func insufficientStock(product *models.Product) *appErrors.AppError {
	return appErrors.ValidationError("Insufficient stock").
		WithDetail(fmt.Sprintf("Only %d of %s available", product.Stock, product.Name))
}

// mutate loads the cart under the buyer's lock, applies fn in memory and persists
// the result only when fn reports a change. A failing fn leaves storage untouched.
func (s *cartService) mutate(ctx context.Context, userID uuid.UUID, create bool, fn func(*models.Cart) (bool, error)) (*models.Cart, error) {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, appErrors.ConflictError("Cart is busy, retry").WithError(err)
	}
	defer unlock()

	isNew := false

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
		}

		if !create {
			return nil, appErrors.NotFoundError("Cart not found")
		}

		cart = newCart(userID)
		isNew = true
	}

	changed, err := fn(cart)
	if err != nil {
		return nil, err
	}

	if !changed {
		return cart, nil
	}

	if isNew {
		err = s.cartRepo.CreateCart(ctx, cart)
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, appErrors.ConflictError("Cart is busy, retry").WithError(err)
		}
	} else {
		err = s.cartRepo.UpdateCart(ctx, cart)
	}

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to save cart").WithError(err)
	}

	return cart, nil
}
