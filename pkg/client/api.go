package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// Register creates an account and signs the session in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/register", req)
}

// Login signs the session in.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{"email": email, "password": password})
}

func (c *Client) authenticate(ctx context.Context, path string, in any) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, path, nil, in, &out); err != nil {
		return nil, err
	}

	user := out.User
	c.session.Set(out.Token, &user)

	return &out, nil
}

// Logout forgets the token. The API is stateless so nothing is sent.
func (c *Client) Logout() {
	c.session.Clear()
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}

	if q.Category != "" {
		v.Set("category", q.Category)
	}

	if q.Search != "" {
		v.Set("search", q.Search)
	}

	if q.MinPrice != nil {
		v.Set("minPrice", q.MinPrice.String())
	}

	if q.MaxPrice != nil {
		v.Set("maxPrice", q.MaxPrice.String())
	}

	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}

	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}

	return v
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	var out ProductPage
	if err := c.do(ctx, http.MethodGet, "/api/products", q.values(), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/api/products/categories/all", nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) cart(ctx context.Context, method, path string, in any) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, method, path, nil, in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	return c.cart(ctx, http.MethodGet, "/api/cart", nil)
}

// AddToCart adds quantity units of a product; a quantity of 0 lets the server default to 1.
func (c *Client) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (*Cart, error) {
	body := map[string]any{"productId": productID}
	if quantity != 0 {
		body["quantity"] = quantity
	}

	return c.cart(ctx, http.MethodPost, "/api/cart/add", body)
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID uuid.UUID, quantity int) (*Cart, error) {
	return c.cart(ctx, http.MethodPut, "/api/cart/update/"+itemID.String(), map[string]int{"quantity": quantity})
}

func (c *Client) RemoveFromCart(ctx context.Context, itemID uuid.UUID) (*Cart, error) {
	return c.cart(ctx, http.MethodDelete, "/api/cart/remove/"+itemID.String(), nil)
}

func (c *Client) ClearCart(ctx context.Context) (*Cart, error) {
	return c.cart(ctx, http.MethodDelete, "/api/cart/clear", nil)
}

func (c *Client) order(ctx context.Context, method, path string, in any) (*Order, error) {
	var out Order
	if err := c.do(ctx, method, path, nil, in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	return c.order(ctx, http.MethodPost, "/api/orders", req)
}

func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/my-orders", nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	return c.order(ctx, http.MethodGet, "/api/orders/"+id.String(), nil)
}

func (c *Client) PayOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	return c.order(ctx, http.MethodPut, "/api/orders/"+id.String()+"/pay", nil)
}
