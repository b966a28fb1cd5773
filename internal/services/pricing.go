package service

import "github.com/shopspring/decimal"

var (
	FreeShippingThreshold = decimal.NewFromInt(100)
	FlatShippingFee       = decimal.NewFromInt(10)
	TaxRate               = decimal.RequireFromString("0.10")
)

type Totals struct {
	Items    decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CalculateTotals prices an order: shipping is free strictly above the threshold, tax is rounded to cents.
func CalculateTotals(subtotal decimal.Decimal) Totals {
	items := subtotal.Round(2)

	shipping := FlatShippingFee
	if items.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := items.Mul(TaxRate).Round(2)

	return Totals{
		Items:    items,
		Shipping: shipping,
		Tax:      tax,
		Total:    items.Add(shipping).Add(tax),
	}
}
