package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/vitrineshop/mobile-cart/pkg/errors"
	"github.com/vitrineshop/mobile-cart/pkg/logger"
	"github.com/vitrineshop/mobile-cart/pkg/metrics"
	"github.com/vitrineshop/mobile-cart/pkg/types"
)

const (
	opAddItem        = "add_item"
	opRemoveItem     = "remove_item"
	opUpdateQuantity = "update_quantity"
	opClearCart      = "clear_cart"
	opRefreshCart    = "refresh_cart"
	opApplyCoupon    = "apply_coupon"
	opAuthChange     = "auth_change"

	sourceServer = "server"
	sourceGuest  = "guest"
)

// Store holds the single cart snapshot the UI reads, plus the session-local
// coupon overlay. Mutations route to the remote gateway when authenticated
// and to the recalculator + persistence adapter for guests.
//
// Every mutation runs under opMu, so two overlapping calls can never start
// from the same snapshot and silently drop each other's effect. The snapshot
// itself sits behind a separate RWMutex so readers never wait on network I/O.
type Store struct {
	gateway Gateway
	catalog CatalogLookup
	coupons CouponValidator
	storage Persistence
	log     *logger.Logger
	metrics *metrics.CartMetrics

	opMu sync.Mutex

	mu            sync.RWMutex
	snapshot      types.Cart
	loading       bool
	authenticated bool
	couponCode    string
	discount      decimal.Decimal

	lastSurrogate int64
}

// StoreOptions wires the store's collaborators. Metrics may be nil.
type StoreOptions struct {
	Gateway Gateway
	Catalog CatalogLookup
	Coupons CouponValidator
	Storage Persistence
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
}

// NewStore validates the full dependency set before anything runs.
func NewStore(opts StoreOptions) (*Store, error) {
	var err error
	if opts.Gateway == nil {
		err = multierr.Append(err, errors.New("cart gateway required"))
	}
	if opts.Catalog == nil {
		err = multierr.Append(err, errors.New("catalog lookup required"))
	}
	if opts.Coupons == nil {
		err = multierr.Append(err, errors.New("coupon validator required"))
	}
	if opts.Storage == nil {
		err = multierr.Append(err, errors.New("persistence adapter required"))
	}
	if opts.Logger == nil {
		err = multierr.Append(err, errors.New("logger required"))
	}
	if err != nil {
		return nil, err
	}
	return &Store{
		gateway:  opts.Gateway,
		catalog:  opts.Catalog,
		coupons:  opts.Coupons,
		storage:  opts.Storage,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		snapshot: types.EmptyCart(),
	}, nil
}

// Cart returns a deep copy of the current snapshot.
func (s *Store) Cart() types.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// Items returns a copy of the current cart lines.
func (s *Store) Items() []types.CartItem {
	return s.Cart().Items
}

// ItemCount is the unit-quantity sum across lines.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.ItemCount
}

// Subtotal is the cart total before the coupon overlay.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Total
}

// Discount is the applied coupon amount, zero when no coupon is applied.
func (s *Store) Discount() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.discount
}

// CouponCode is the applied coupon, empty when none.
func (s *Store) CouponCode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.couponCode
}

// Total is what checkout and the UI must show: subtotal minus the coupon
// discount, clamped at zero.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.FinalTotal(s.snapshot.Total, s.discount)
}

// Loading reports whether an operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Authenticated reports the current source mode.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// SetAuthenticated reacts to the auth signal: the current snapshot and the
// coupon overlay are discarded wholesale and the cart reloads from the new
// mode's authoritative source. Guest items are not merged into the server
// cart on login. Load failure falls open to the empty cart, never an error.
func (s *Store) SetAuthenticated(ctx context.Context, authenticated bool) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	done := s.begin(opAuthChange)
	defer done()
	ctx = s.log.WithOperation(ctx, opAuthChange)

	s.mu.Lock()
	s.authenticated = authenticated
	s.couponCode = ""
	s.discount = decimal.Zero
	s.mu.Unlock()

	s.reload(ctx)
	s.metrics.IncOperation(opAuthChange, s.sourceLabel(authenticated))
}

// RefreshCart re-derives the snapshot from the authoritative source for the
// current mode without changing mode.
func (s *Store) RefreshCart(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	done := s.begin(opRefreshCart)
	defer done()
	ctx = s.log.WithOperation(ctx, opRefreshCart)

	if s.isAuthenticated() {
		payload, err := s.gateway.Fetch(ctx)
		if err != nil {
			return s.fail(opRefreshCart, err)
		}
		s.setSnapshot(NormalizeServerCart(payload))
		s.metrics.IncOperation(opRefreshCart, sourceServer)
		return nil
	}

	s.setSnapshot(s.loadGuest(ctx))
	s.metrics.IncOperation(opRefreshCart, sourceGuest)
	return nil
}

// AddItem puts quantity units of the product into the cart. For guests, an
// existing line for the product keeps its captured price and only grows its
// quantity; a new line snapshots the product via the catalog lookup.
func (s *Store) AddItem(ctx context.Context, productID int64, quantity int) error {
	if productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	done := s.begin(opAddItem)
	defer done()
	ctx = s.log.WithOperation(ctx, opAddItem)

	if s.isAuthenticated() {
		payload, err := s.gateway.AddItem(ctx, productID, quantity)
		if err != nil {
			return s.fail(opAddItem, err)
		}
		s.setSnapshot(NormalizeServerCart(payload))
		s.metrics.IncOperation(opAddItem, sourceServer)
		return nil
	}

	current := s.currentSnapshot()
	merged := false
	for idx := range current.Items {
		if current.Items[idx].Product != nil && current.Items[idx].Product.ID == productID {
			current.Items[idx].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		product, err := s.catalog.GetByID(ctx, productID)
		if err != nil {
			return s.fail(opAddItem, err)
		}
		if product == nil {
			return s.fail(opAddItem, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found"))
		}
		current.Items = append(current.Items, synthesizeItem(product, quantity, s.nextSurrogateID()))
	}

	s.metrics.IncOperation(opAddItem, sourceGuest)
	return s.commitGuest(ctx, opAddItem, current)
}

// RemoveItem drops the line with the given id. Removing an unknown id is a
// no-op that still re-persists, so a second call lands in the same state.
func (s *Store) RemoveItem(ctx context.Context, itemID int64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	done := s.begin(opRemoveItem)
	defer done()
	ctx = s.log.WithOperation(ctx, opRemoveItem)

	if s.isAuthenticated() {
		payload, err := s.gateway.RemoveItem(ctx, itemID)
		if err != nil {
			return s.fail(opRemoveItem, err)
		}
		s.setSnapshot(NormalizeServerCart(payload))
		s.metrics.IncOperation(opRemoveItem, sourceServer)
		return nil
	}

	current := s.currentSnapshot()
	kept := current.Items[:0]
	for _, item := range current.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	current.Items = kept

	s.metrics.IncOperation(opRemoveItem, sourceGuest)
	return s.commitGuest(ctx, opRemoveItem, current)
}

// UpdateQuantity sets the line quantity. A requested quantity below 1 is
// defined as removal.
func (s *Store) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, itemID)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	done := s.begin(opUpdateQuantity)
	defer done()
	ctx = s.log.WithOperation(ctx, opUpdateQuantity)

	if s.isAuthenticated() {
		payload, err := s.gateway.UpdateItem(ctx, itemID, quantity)
		if err != nil {
			return s.fail(opUpdateQuantity, err)
		}
		s.setSnapshot(NormalizeServerCart(payload))
		s.metrics.IncOperation(opUpdateQuantity, sourceServer)
		return nil
	}

	current := s.currentSnapshot()
	found := false
	for idx := range current.Items {
		if current.Items[idx].ID == itemID {
			current.Items[idx].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	s.metrics.IncOperation(opUpdateQuantity, sourceGuest)
	return s.commitGuest(ctx, opUpdateQuantity, current)
}

// ClearCart empties the cart and drops the coupon overlay. On the
// authenticated path the server is cleared first; the local snapshot resets
// regardless of the response shape.
func (s *Store) ClearCart(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	done := s.begin(opClearCart)
	defer done()
	ctx = s.log.WithOperation(ctx, opClearCart)

	if s.isAuthenticated() {
		if err := s.gateway.Clear(ctx); err != nil {
			return s.fail(opClearCart, err)
		}
		s.resetOverlay()
		s.setSnapshot(types.EmptyCart())
		s.metrics.IncOperation(opClearCart, sourceServer)
		return nil
	}

	s.resetOverlay()
	s.setSnapshot(types.EmptyCart())
	s.metrics.IncOperation(opClearCart, sourceGuest)
	return s.persistGuest(ctx, opClearCart, types.EmptyCart())
}

// ApplyCoupon validates the code against the current subtotal via the
// remote engine. An invalid code leaves any previously applied coupon
// untouched. Re-applying always re-validates; the discount is never
// recomputed client-side.
func (s *Store) ApplyCoupon(ctx context.Context, code string) error {
	if code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	done := s.begin(opApplyCoupon)
	defer done()
	ctx = s.log.WithOperation(ctx, opApplyCoupon)

	result, err := s.coupons.Validate(ctx, code, s.Subtotal())
	if err != nil {
		return s.fail(opApplyCoupon, err)
	}
	if !result.IsValid {
		message := result.Message
		if message == "" {
			message = "coupon is not valid"
		}
		return s.fail(opApplyCoupon, pkgerrors.New(pkgerrors.CodeInvalidCoupon, message))
	}
	if result.DiscountAmount.IsNegative() {
		return s.fail(opApplyCoupon, pkgerrors.New(pkgerrors.CodeDataIntegrity, "coupon discount cannot be negative"))
	}

	s.mu.Lock()
	s.couponCode = code
	s.discount = result.DiscountAmount
	s.mu.Unlock()

	s.metrics.IncOperation(opApplyCoupon, s.sourceLabel(s.isAuthenticated()))
	return nil
}

// RemoveCoupon clears the overlay. Synchronous, no collaborator call.
func (s *Store) RemoveCoupon() {
	s.resetOverlay()
}

func (s *Store) resetOverlay() {
	s.mu.Lock()
	s.couponCode = ""
	s.discount = decimal.Zero
	s.mu.Unlock()
}

// commitGuest recalculates, publishes, and persists the guest snapshot.
// A failed write is non-fatal: the in-memory snapshot stays correct and the
// persistence error is surfaced to the caller.
func (s *Store) commitGuest(ctx context.Context, op string, cart types.Cart) error {
	recalculated, skipped := Recalculate(cart)
	for _, id := range skipped {
		s.metrics.IncIntegritySkip()
		s.log.Warn(s.log.WithField(ctx, "item_id", id), "cart item missing product summary, excluded from totals")
	}
	s.setSnapshot(recalculated)
	return s.persistGuest(ctx, op, recalculated)
}

func (s *Store) persistGuest(ctx context.Context, op string, cart types.Cart) error {
	if err := s.storage.Save(ctx, cart); err != nil {
		s.log.Error(ctx, "persist guest cart", err)
		s.metrics.IncFailure(op, string(pkgerrors.CodePersistence))
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "save guest cart")
	}
	return nil
}

// reload replaces the snapshot from the current mode's source, failing open
// to the empty cart. Callers hold opMu.
func (s *Store) reload(ctx context.Context) {
	if s.isAuthenticated() {
		payload, err := s.gateway.Fetch(ctx)
		if err != nil {
			s.log.Error(ctx, "load server cart, falling back to empty", err)
			s.setSnapshot(types.EmptyCart())
			return
		}
		s.setSnapshot(NormalizeServerCart(payload))
		return
	}
	s.setSnapshot(s.loadGuest(ctx))
}

// loadGuest reads the persisted guest cart. A read failure degrades to the
// empty cart; an absent cart is simply empty.
func (s *Store) loadGuest(ctx context.Context) types.Cart {
	stored, err := s.storage.Load(ctx)
	if err != nil {
		s.log.Error(ctx, "load guest cart, falling back to empty", err)
		return types.EmptyCart()
	}
	if stored == nil {
		return types.EmptyCart()
	}
	recalculated, skipped := Recalculate(*stored)
	for _, id := range skipped {
		s.metrics.IncIntegritySkip()
		s.log.Warn(s.log.WithField(ctx, "item_id", id), "stored cart item missing product summary")
	}
	return recalculated
}

func (s *Store) begin(op string) func() {
	start := time.Now()
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.metrics.ObserveDuration(op, time.Since(start))
	}
}

func (s *Store) fail(op string, err error) error {
	code := pkgerrors.CodeInternal
	if typed := pkgerrors.As(err); typed != nil {
		code = typed.Code()
	}
	s.metrics.IncFailure(op, string(code))
	return err
}

func (s *Store) setSnapshot(cart types.Cart) {
	s.mu.Lock()
	s.snapshot = cart
	s.mu.Unlock()
}

func (s *Store) currentSnapshot() types.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

func (s *Store) isAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Store) sourceLabel(authenticated bool) string {
	if authenticated {
		return sourceServer
	}
	return sourceGuest
}

// nextSurrogateID issues a millisecond-clock id for guest lines. The clock
// keeps it far above server-issued sequence ids, and the monotonic bump
// covers two adds inside the same millisecond. Callers hold opMu.
func (s *Store) nextSurrogateID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastSurrogate {
		id = s.lastSurrogate + 1
	}
	s.lastSurrogate = id
	return id
}
