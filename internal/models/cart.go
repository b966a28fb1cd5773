package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	AddedAt   time.Time       `json:"addedAt"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ItemCount is the total number of units across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}

	return count
}

// Subtotal sums quantity times the snapshot price of every line.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	return subtotal
}

// FindItem returns the index of the line with the given id, or -1.
func (c *Cart) FindItem(itemID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ID == itemID {
			return i
		}
	}

	return -1
}

// FindProduct returns the index of the line holding productID, or -1.
func (c *Cart) FindProduct(productID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}

	return -1
}

func (c Cart) MarshalJSON() ([]byte, error) {
	type cartAlias Cart

	items := c.Items
	if items == nil {
		items = []CartItem{}
	}

	alias := cartAlias(c)
	alias.Items = items

	return json.Marshal(struct {
		cartAlias
		ItemCount int             `json:"itemCount"`
		Subtotal  decimal.Decimal `json:"subtotal"`
	}{
		cartAlias: alias,
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
	})
}

// MaxLineQuantity caps the units a single cart request may ask for.
const MaxLineQuantity = 10000

type AddItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1,max=10000"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=10000"`
}
