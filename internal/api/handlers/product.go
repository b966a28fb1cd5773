package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts godoc
//
//	@Summary		List products
//	@Description	Lists active products with optional category, text and price filters.
//	@Tags			Products
//	@Produce		json
//	@Param			category	query		string						false	"Category"	Enums(electronics, clothing, books, home, sports, other)
//	@Param			search		query		string						false	"Case-insensitive match on name, description or brand"
//	@Param			minPrice	query		number						false	"Minimum price"
//	@Param			maxPrice	query		number						false	"Maximum price"
//	@Param			page		query		int							false	"Page number"		default(1)	maximum(10000)
//	@Param			limit		query		int							false	"Items per page"	default(12)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse	"Page of products"
//	@Failure		400			{object}	response.ErrorResponse		"Invalid query parameter"
//	@Failure		500			{object}	response.ErrorResponse		"Internal server error"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		filter, err := parseProductFilter(r.URL.Query())
		if err != nil {
			logger.Warn("Invalid product filter", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		page, err := h.productService.ListProducts(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to list products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, page)
	}
}

func parseProductFilter(q url.Values) (models.ProductFilter, error) {
	filter := models.ProductFilter{
		Category: models.Category(strings.ToLower(strings.TrimSpace(q.Get("category")))),
		Search:   strings.TrimSpace(q.Get("search")),
	}

	var err error

	if filter.Page, err = parsePositiveInt(q, "page"); err != nil {
		return filter, err
	}

	if filter.Page > models.MaxPage {
		return filter, errors.ValidationError("Invalid page").
			WithDetail(fmt.Sprintf("page must be at most %d", models.MaxPage))
	}

	if filter.Limit, err = parsePositiveInt(q, "limit"); err != nil {
		return filter, err
	}

	if filter.MinPrice, err = parsePrice(q, "minPrice"); err != nil {
		return filter, err
	}

	if filter.MaxPrice, err = parsePrice(q, "maxPrice"); err != nil {
		return filter, err
	}

	return filter, nil
}

func parsePositiveInt(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.ValidationError("Invalid " + name).WithDetail(name + " must be a positive integer")
	}

	return n, nil
}

func parsePrice(q url.Values, name string) (*decimal.Decimal, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}

	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return nil, errors.ValidationError("Invalid " + name).WithDetail(name + " must be a non-negative number")
	}

	return &price, nil
}

// GetProduct godoc
//
//	@Summary		Get a product
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Product			"Product"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseUUID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.String("productId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// ListCategories godoc
//
//	@Summary		List categories
//	@Description	Distinct categories of active products, sorted.
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}		string					"Categories"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/categories/all [get]
func (h *ProductHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		categories, err := h.productService.ListCategories(r.Context())
		if err != nil {
			logger.Error("Failed to list categories", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}
