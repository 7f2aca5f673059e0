package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vitrineshop/mobile-cart/pkg/types"
)

// Gateway is the server-held cart for the authenticated path. Every mutation
// returns the full refreshed payload, which replaces the local snapshot.
type Gateway interface {
	Fetch(ctx context.Context) (*types.ServerCart, error)
	AddItem(ctx context.Context, productID int64, quantity int) (*types.ServerCart, error)
	UpdateItem(ctx context.Context, itemID int64, quantity int) (*types.ServerCart, error)
	RemoveItem(ctx context.Context, itemID int64) (*types.ServerCart, error)
	Clear(ctx context.Context) error
}

// CatalogLookup resolves product summaries for guest-synthesized items.
type CatalogLookup interface {
	GetByID(ctx context.Context, productID int64) (*types.ProductSummary, error)
}

// CouponValidator proxies coupon codes to the remote policy decision.
type CouponValidator interface {
	Validate(ctx context.Context, code string, orderValue decimal.Decimal) (*types.CouponResult, error)
}

// Persistence is the durable store for the guest cart. Load returns a nil
// cart (and nil error) when nothing has been saved yet.
type Persistence interface {
	Load(ctx context.Context) (*types.Cart, error)
	Save(ctx context.Context, cart types.Cart) error
}
