package types

import (
	"github.com/shopspring/decimal"
)

// ProductSummary is the slice of the catalog record a cart line keeps.
// Prices are snapshots taken when the item entered the cart.
type ProductSummary struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	SKU              string           `json:"sku,omitempty"`
	PrimaryImageURL  string           `json:"primaryImageUrl,omitempty"`
	SellingPrice     decimal.Decimal  `json:"sellingPrice"`
	PromotionalPrice *decimal.Decimal `json:"promotionalPrice,omitempty"`
	CurrentPrice     decimal.Decimal  `json:"currentPrice"`
}

// UnitPrice picks the effective unit price for the product: promotional
// price when set, then the selling price, then the current price.
func (p ProductSummary) UnitPrice() decimal.Decimal {
	if p.PromotionalPrice != nil && p.PromotionalPrice.IsPositive() {
		return *p.PromotionalPrice
	}
	if p.SellingPrice.IsPositive() {
		return p.SellingPrice
	}
	if p.CurrentPrice.IsPositive() {
		return p.CurrentPrice
	}
	return decimal.Zero
}

// CartItem is one line of the canonical cart. Server-issued lines carry the
// server id; guest lines carry a client surrogate id that never collides
// with server ids.
type CartItem struct {
	ID              int64            `json:"id"`
	Product         *ProductSummary  `json:"product"`
	Quantity        int              `json:"quantity"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discountedPrice,omitempty"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
}

// EffectivePrice returns the per-unit price the totals are derived from.
func (i CartItem) EffectivePrice() decimal.Decimal {
	if i.DiscountedPrice != nil {
		return *i.DiscountedPrice
	}
	return i.Price
}

// Cart is the aggregate the store publishes. ID zero means no server cart
// exists yet (guest or unsynced state). Total and ItemCount are derived,
// never set from user input.
type Cart struct {
	ID        int64           `json:"id"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// EmptyCart returns the safe default snapshot.
func EmptyCart() Cart {
	return Cart{Items: []CartItem{}}
}

// Clone returns a deep copy so callers can never mutate the store snapshot.
func (c Cart) Clone() Cart {
	out := c
	out.Items = make([]CartItem, len(c.Items))
	copy(out.Items, c.Items)
	for idx := range out.Items {
		if out.Items[idx].Product != nil {
			product := *out.Items[idx].Product
			if product.PromotionalPrice != nil {
				promo := *product.PromotionalPrice
				product.PromotionalPrice = &promo
			}
			out.Items[idx].Product = &product
		}
		if out.Items[idx].DiscountedPrice != nil {
			price := *out.Items[idx].DiscountedPrice
			out.Items[idx].DiscountedPrice = &price
		}
	}
	return out
}

// CouponResult mirrors the remote coupon policy decision. The client never
// recomputes the discount from the code; policy is opaque server-side.
type CouponResult struct {
	IsValid        bool            `json:"isValid"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Message        string          `json:"message,omitempty"`
}

// FinalTotal applies the coupon overlay on top of the cart subtotal,
// clamped at zero.
func FinalTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	final := subtotal.Sub(discount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}
