package services

import (
	"context"
	"fmt"

	"foodtruck/internal/caching"
	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/repositories"

	"github.com/google/uuid"
)

const maxLineQuantity = 99

type CartService interface {
	GetCart(ctx context.Context, key caching.CartKey) (*models.Cart, error)
	AddItem(ctx context.Context, key caching.CartKey, itemID uuid.UUID, quantity int) (*models.Cart, error)
	SetQuantity(ctx context.Context, key caching.CartKey, itemID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, key caching.CartKey, itemID uuid.UUID) (*models.Cart, error)
	ClearCart(ctx context.Context, key caching.CartKey) error
}

type cartService struct {
	carts caching.CartStore
	store repositories.Store
}

func NewCartService(carts caching.CartStore, store repositories.Store) CartService {
	return &cartService{carts: carts, store: store}
}

func (s *cartService) GetCart(ctx context.Context, key caching.CartKey) (*models.Cart, error) {
	cart, err := s.carts.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

// AddItem snapshots the item into the cart. A cart holds items of one truck
// only, and a scoped cart only items of its own truck.
func (s *cartService) AddItem(ctx context.Context, key caching.CartKey, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	if err := common.ValidatePositiveInteger(quantity, "quantity", maxLineQuantity); err != nil {
		return nil, common.NewValidationError("quantity", err.Error())
	}

	item, err := s.store.Repos().Items.GetByID(ctx, itemID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.ErrItemNotFound
		}
		return nil, fmt.Errorf("load item: %w", err)
	}
	if key.FoodTruckID != nil && item.FoodTruckID != *key.FoodTruckID {
		return nil, common.ErrForbidden
	}

	cart, err := s.GetCart(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := cart.Add(item, quantity); err != nil {
		return nil, err
	}
	if merged := lineQuantity(cart, itemID); merged > maxLineQuantity {
		return nil, common.NewValidationError("quantity", fmt.Sprintf("line would hold %d, at most %d allowed", merged, maxLineQuantity))
	}
	return s.save(ctx, key, cart)
}

// SetQuantity overwrites a line's quantity; anything below one removes the line.
func (s *cartService) SetQuantity(ctx context.Context, key caching.CartKey, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity > maxLineQuantity {
		return nil, common.NewValidationError("quantity", fmt.Sprintf("must be at most %d", maxLineQuantity))
	}
	if quantity < 0 {
		quantity = 0
	}

	cart, err := s.GetCart(ctx, key)
	if err != nil {
		return nil, err
	}
	if !cart.SetQuantity(itemID, quantity) {
		return nil, common.ErrItemNotFound
	}
	return s.save(ctx, key, cart)
}

func (s *cartService) RemoveItem(ctx context.Context, key caching.CartKey, itemID uuid.UUID) (*models.Cart, error) {
	cart, err := s.GetCart(ctx, key)
	if err != nil {
		return nil, err
	}
	cart.Remove(itemID)
	return s.save(ctx, key, cart)
}

func (s *cartService) ClearCart(ctx context.Context, key caching.CartKey) error {
	if err := s.carts.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *cartService) save(ctx context.Context, key caching.CartKey, cart *models.Cart) (*models.Cart, error) {
	if err := s.carts.Save(ctx, key, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func lineQuantity(cart *models.Cart, itemID uuid.UUID) int {
	for _, line := range cart.Lines() {
		if line.ItemID == itemID {
			return line.Quantity
		}
	}
	return 0
}
