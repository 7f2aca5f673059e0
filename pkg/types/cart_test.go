package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFinalTotalClampsAtZero(t *testing.T) {
	t.Parallel()

	subtotal := decimal.NewFromInt(300)

	if got := FinalTotal(subtotal, decimal.Zero); !got.Equal(subtotal) {
		t.Fatalf("no discount should leave the subtotal, got %s", got)
	}
	if got := FinalTotal(subtotal, decimal.NewFromInt(30)); !got.Equal(decimal.NewFromInt(270)) {
		t.Fatalf("expected 270, got %s", got)
	}
	if got := FinalTotal(subtotal, subtotal); !got.IsZero() {
		t.Fatalf("full discount should reach zero, got %s", got)
	}
	if got := FinalTotal(subtotal, decimal.NewFromInt(500)); !got.IsZero() {
		t.Fatalf("oversized discount must clamp to zero, got %s", got)
	}
}

func TestProductSummaryUnitPriceChain(t *testing.T) {
	t.Parallel()

	promo := decimal.NewFromInt(100)
	product := ProductSummary{
		SellingPrice:     decimal.NewFromInt(150),
		CurrentPrice:     decimal.NewFromInt(140),
		PromotionalPrice: &promo,
	}
	if got := product.UnitPrice(); !got.Equal(promo) {
		t.Fatalf("promotional price should win, got %s", got)
	}

	product.PromotionalPrice = nil
	if got := product.UnitPrice(); !got.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("selling price should win next, got %s", got)
	}

	product.SellingPrice = decimal.Zero
	if got := product.UnitPrice(); !got.Equal(decimal.NewFromInt(140)) {
		t.Fatalf("current price is the last fallback, got %s", got)
	}

	product.CurrentPrice = decimal.Zero
	if got := product.UnitPrice(); !got.IsZero() {
		t.Fatalf("priceless product resolves to zero, got %s", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	discounted := decimal.NewFromInt(90)
	original := Cart{
		ID: 7,
		Items: []CartItem{{
			ID:              1,
			Product:         &ProductSummary{ID: 42, Name: "Shirt"},
			Quantity:        2,
			Price:           decimal.NewFromInt(100),
			DiscountedPrice: &discounted,
		}},
	}

	clone := original.Clone()
	clone.Items[0].Product.Name = "Mutated"
	clone.Items[0].Quantity = 9
	*clone.Items[0].DiscountedPrice = decimal.NewFromInt(1)

	if original.Items[0].Product.Name != "Shirt" {
		t.Fatal("clone shared the product summary")
	}
	if original.Items[0].Quantity != 2 {
		t.Fatal("clone shared the item slice")
	}
	if !original.Items[0].DiscountedPrice.Equal(decimal.NewFromInt(90)) {
		t.Fatal("clone shared the discounted price pointer")
	}
}
