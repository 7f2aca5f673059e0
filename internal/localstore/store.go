package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/vitrineshop/mobile-cart/pkg/errors"
	pkgredis "github.com/vitrineshop/mobile-cart/pkg/redis"
	"github.com/vitrineshop/mobile-cart/pkg/types"
)

// keyValue is the slice of the redis client the adapter needs.
type keyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(installID string) string
}

// Store durably persists the guest cart as a JSON blob keyed per install.
// The key is not shared across installs, and the cart store serializes all
// access, so no locking happens here.
type Store struct {
	kv  keyValue
	key string
}

// NewInstallID mints the per-install identity that keys guest storage.
func NewInstallID() string {
	return uuid.NewString()
}

// New builds the persistence adapter for one install.
func New(kv keyValue, installID string) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("key-value client required")
	}
	if strings.TrimSpace(installID) == "" {
		return nil, fmt.Errorf("install id required")
	}
	return &Store{kv: kv, key: kv.CartKey(installID)}, nil
}

// Load returns the persisted guest cart, or nil when none has been saved.
func (s *Store) Load(ctx context.Context) (*types.Cart, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if pkgredis.IsAbsent(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "read guest cart")
	}

	var cart types.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "decode guest cart")
	}
	return &cart, nil
}

// Save writes the cart snapshot. An empty, unsynced cart is represented by
// key absence, so clearing leaves no blob behind.
func (s *Store) Save(ctx context.Context, cart types.Cart) error {
	if cart.ID == 0 && len(cart.Items) == 0 {
		if err := s.kv.Del(ctx, s.key); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "clear guest cart")
		}
		return nil
	}

	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "encode guest cart")
	}
	if err := s.kv.Set(ctx, s.key, string(payload), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "write guest cart")
	}
	return nil
}
