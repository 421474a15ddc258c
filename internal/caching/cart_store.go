package caching

import (
	"context"
	"time"

	"foodtruck/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CartKey identifies a cart. Staff carts are kept apart from customer carts.
// FoodTruckID, when set, limits the cart to that truck's menu and is not part
// of the stored key.
type CartKey struct {
	Role        models.Role
	OwnerID     uuid.UUID
	FoodTruckID *uuid.UUID
}

func (k CartKey) String() string {
	return Key("cart", string(k.Role), k.OwnerID.String())
}

type CartStore interface {
	Load(ctx context.Context, key CartKey) (*models.Cart, error)
	Save(ctx context.Context, key CartKey, cart *models.Cart) error
	Delete(ctx context.Context, key CartKey) error
}

type cartStore struct {
	cache CacheService
	ttl   time.Duration
	now   func() time.Time
}

func NewCartStore(cache CacheService, ttl time.Duration) CartStore {
	return &cartStore{cache: cache, ttl: ttl, now: time.Now}
}

// Load returns the stored cart, or an empty cart when nothing usable is stored.
func (s *cartStore) Load(ctx context.Context, key CartKey) (*models.Cart, error) {
	var snapshot models.CartSnapshot
	found, err := s.cache.Get(ctx, key.String(), &snapshot)
	if err != nil {
		return nil, err
	}
	if !found {
		return models.NewCart(), nil
	}

	cart, err := models.RestoreCart(snapshot)
	if err != nil {
		log.Warn().Err(err).Str("cart", key.String()).Int("version", snapshot.Version).
			Msg("discarding stored cart")
		return models.NewCart(), nil
	}
	return cart, nil
}

func (s *cartStore) Save(ctx context.Context, key CartKey, cart *models.Cart) error {
	if cart.IsEmpty() {
		return s.Delete(ctx, key)
	}
	return s.cache.Set(ctx, key.String(), cart.Snapshot(key.Role, key.OwnerID, s.now()), s.ttl)
}

func (s *cartStore) Delete(ctx context.Context, key CartKey) error {
	return s.cache.Delete(ctx, key.String())
}
