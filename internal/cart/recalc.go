package cart

import (
	"github.com/shopspring/decimal"

	"github.com/vitrineshop/mobile-cart/pkg/types"
)

// Recalculate derives total and item count from the cart lines. It is the
// single source of arithmetic truth for the guest path: subtotal is the
// effective unit price times quantity per line, itemCount the quantity sum.
// Lines missing their product summary cannot be priced; they are left out of
// the totals and reported back by id so the caller can surface the
// integrity signal.
func Recalculate(cart types.Cart) (types.Cart, []int64) {
	out := cart.Clone()

	total := decimal.Zero
	count := 0
	var skipped []int64

	for idx := range out.Items {
		item := &out.Items[idx]
		if item.Product == nil {
			skipped = append(skipped, item.ID)
			continue
		}
		item.Subtotal = item.EffectivePrice().Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.Subtotal)
		count += item.Quantity
	}

	out.Total = total
	out.ItemCount = count
	return out, skipped
}
