// internal/domain/ledger/pricing.go
package ledger

import "github.com/shopspring/decimal"

// PricingSummary is derived from a cart on every read and mutation. It is never stored
// on the ledger. Amounts are in minor currency units.
type PricingSummary struct {
	Subtotal            int64 `json:"subtotal" bson:"subtotal"`
	TotalQuantity       int   `json:"total_quantity" bson:"total_quantity"`
	ItemCount           int   `json:"item_count" bson:"item_count"`
	BulkDiscountPercent int   `json:"bulk_discount_percent" bson:"bulk_discount_percent"`
	BulkDiscountAmount  int64 `json:"bulk_discount_amount" bson:"bulk_discount_amount"`
	FinalTotal          int64 `json:"final_total" bson:"final_total"`
}

// BulkTier maps a minimum total quantity to a discount percentage.
type BulkTier struct {
	MinQuantity int
	Percent     int
}

// BulkTiers are ordered highest threshold first; the first match wins.
var BulkTiers = []BulkTier{
	{MinQuantity: 50, Percent: 20},
	{MinQuantity: 20, Percent: 15},
	{MinQuantity: 10, Percent: 10},
	{MinQuantity: 5, Percent: 5},
}

// BulkDiscountPercent returns the discount percentage for a total quantity.
func BulkDiscountPercent(totalQuantity int) int {
	for _, tier := range BulkTiers {
		if totalQuantity >= tier.MinQuantity {
			return tier.Percent
		}
	}
	return 0
}

var hundred = decimal.NewFromInt(100)

// Summarize computes the pricing summary for items.
func Summarize(items []LineItem) PricingSummary {
	var s PricingSummary
	s.ItemCount = len(items)
	for _, item := range items {
		s.Subtotal += item.LineTotal
		s.TotalQuantity += item.Quantity
	}

	s.BulkDiscountPercent = BulkDiscountPercent(s.TotalQuantity)
	s.BulkDiscountAmount = decimal.NewFromInt(s.Subtotal).
		Mul(decimal.NewFromInt(int64(s.BulkDiscountPercent))).
		Div(hundred).
		Round(0).
		IntPart()

	s.FinalTotal = s.Subtotal - s.BulkDiscountAmount
	if s.FinalTotal < 0 {
		s.FinalTotal = 0
	}
	return s
}
