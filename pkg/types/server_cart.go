package types

import "github.com/shopspring/decimal"

// ServerCartItem is the flattened line shape the storefront API returns.
// The normalizer folds the scalar product fields into a ProductSummary.
type ServerCartItem struct {
	ID               int64            `json:"id"`
	ProductID        int64            `json:"productId"`
	ProductName      string           `json:"productName"`
	ProductSKU       string           `json:"productSku,omitempty"`
	PrimaryImageURL  string           `json:"primaryImageUrl,omitempty"`
	UnitPrice        decimal.Decimal  `json:"unitPrice"`
	PromotionalPrice *decimal.Decimal `json:"promotionalPrice,omitempty"`
	Quantity         int              `json:"quantity"`
	Subtotal         decimal.Decimal  `json:"subtotal"`
}

// ServerCart is the raw cart payload held by the authenticated-path server.
type ServerCart struct {
	ID          int64            `json:"id"`
	Items       []ServerCartItem `json:"items"`
	TotalAmount decimal.Decimal  `json:"totalAmount"`
	ItemsCount  int              `json:"itemsCount"`
}
