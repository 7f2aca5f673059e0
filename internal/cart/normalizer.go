package cart

import (
	"github.com/shopspring/decimal"

	"github.com/vitrineshop/mobile-cart/pkg/types"
)

// NormalizeServerCart converts the flattened server payload into the
// canonical cart. A nil or itemless payload normalizes to the empty cart.
func NormalizeServerCart(payload *types.ServerCart) types.Cart {
	if payload == nil {
		return types.EmptyCart()
	}

	items := make([]types.CartItem, 0, len(payload.Items))
	for _, raw := range payload.Items {
		items = append(items, types.CartItem{
			ID: raw.ID,
			Product: &types.ProductSummary{
				ID:               raw.ProductID,
				Name:             raw.ProductName,
				SKU:              raw.ProductSKU,
				PrimaryImageURL:  raw.PrimaryImageURL,
				SellingPrice:     raw.UnitPrice,
				PromotionalPrice: copyDecimalPtr(raw.PromotionalPrice),
				CurrentPrice:     raw.UnitPrice,
			},
			Quantity: raw.Quantity,
			Price:    raw.UnitPrice,
			Subtotal: raw.Subtotal,
		})
	}

	// itemCount means unit-quantity sum in both source modes. When the
	// server omits its count, derive it from the normalized lines.
	count := payload.ItemsCount
	if count == 0 {
		for _, item := range items {
			count += item.Quantity
		}
	}

	return types.Cart{
		ID:        payload.ID,
		Items:     items,
		Total:     payload.TotalAmount,
		ItemCount: count,
	}
}

// synthesizeItem builds a guest cart line from a catalog product summary.
// The unit price is snapshotted now and never re-derived from the live
// product record.
func synthesizeItem(product *types.ProductSummary, quantity int, surrogateID int64) types.CartItem {
	summary := *product
	price := product.UnitPrice()
	return types.CartItem{
		ID:       surrogateID,
		Product:  &summary,
		Quantity: quantity,
		Price:    price,
		Subtotal: price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func copyDecimalPtr(src *decimal.Decimal) *decimal.Decimal {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
