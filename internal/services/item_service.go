package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"foodtruck/internal/caching"
	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const maxImageSize = 5 << 20

var maxItemPrice = decimal.NewFromInt(100000)

// ItemRequest is the editable part of a menu item.
type ItemRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryIDs []uuid.UUID     `json:"category_ids"`
}

func (r *ItemRequest) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return common.NewValidationError("name", "is required")
	}
	if len(r.Name) > 200 {
		return common.NewValidationError("name", "cannot exceed 200 characters")
	}
	if r.Price.IsNegative() {
		return common.NewValidationError("price", "must not be negative")
	}
	if !r.Price.Equal(r.Price.Round(2)) {
		return common.NewValidationError("price", "must have at most two decimal places")
	}
	if r.Price.GreaterThan(maxItemPrice) {
		return common.NewValidationError("price", "must not exceed "+maxItemPrice.String())
	}
	if err := common.ValidateOptionalString(r.Description, "description", 2000); err != nil {
		return common.NewValidationError("description", err.Error())
	}
	return nil
}

// ImageUpload is an item picture on its way to the media bucket.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ItemService interface {
	CreateItem(ctx context.Context, manager models.Actor, req ItemRequest) (*models.Item, error)
	UpdateItem(ctx context.Context, manager models.Actor, id uuid.UUID, req ItemRequest) (*models.Item, error)
	DeleteItem(ctx context.Context, manager models.Actor, id uuid.UUID) error
	GetItemBySlug(ctx context.Context, slug string) (*models.Item, error)
	ListItems(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error)
	UploadItemImage(ctx context.Context, manager models.Actor, id uuid.UUID, upload ImageUpload) (*models.Item, error)
}

type itemService struct {
	store     repositories.Store
	media     MinioService
	cache     caching.CacheService
	cacheTTL  time.Duration
	urlExpiry time.Duration
}

func NewItemService(store repositories.Store, media MinioService, cache caching.CacheService, cacheTTL time.Duration) ItemService {
	return &itemService{
		store:     store,
		media:     media,
		cache:     cache,
		cacheTTL:  cacheTTL,
		urlExpiry: time.Hour,
	}
}

func itemCacheKey(slug string) string {
	return caching.Key("item", "slug", slug)
}

func managedTruck(manager models.Actor) (uuid.UUID, error) {
	if manager.Role != models.RoleManager || manager.FoodTruckID == nil {
		return uuid.Nil, common.ErrForbidden
	}
	return *manager.FoodTruckID, nil
}

// checkCategories makes sure every id names an existing category.
func checkCategories(ctx context.Context, repos *repositories.Repositories, ids []uuid.UUID) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		category, err := repos.Categories.GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFound(err) {
				return nil, fmt.Errorf("%w: %s", common.ErrCategoryNotFound, id)
			}
			return nil, fmt.Errorf("load category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func categoryIDs(categories []*models.Category) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func (s *itemService) CreateItem(ctx context.Context, manager models.Actor, req ItemRequest) (*models.Item, error) {
	truckID, err := managedTruck(manager)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	item := &models.Item{
		ID:          uuid.New(),
		FoodTruckID: truckID,
		Name:        req.Name,
		Slug:        common.UniqueSlug(req.Name),
		Description: req.Description,
		Price:       req.Price,
	}
	err = s.store.ExecTx(ctx, func(repos *repositories.Repositories) error {
		categories, err := checkCategories(ctx, repos, req.CategoryIDs)
		if err != nil {
			return err
		}
		if err := repos.Items.Create(ctx, item); err != nil {
			if repositories.IsUniqueViolation(err) {
				return common.ErrSlugTaken
			}
			return fmt.Errorf("create item: %w", err)
		}
		if err := repos.Items.SetCategories(ctx, item.ID, categoryIDs(categories)); err != nil {
			return fmt.Errorf("tag item: %w", err)
		}
		item.Categories = categories
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("item_id", item.ID.String()).Str("food_truck_id", truckID.String()).Msg("item created")
	return item, nil
}

// loadOwnedItem hides items of other trucks behind ErrItemNotFound.
func loadOwnedItem(ctx context.Context, repos *repositories.Repositories, truckID, id uuid.UUID) (*models.Item, error) {
	item, err := repos.Items.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.ErrItemNotFound
		}
		return nil, fmt.Errorf("load item: %w", err)
	}
	if item.FoodTruckID != truckID {
		return nil, common.ErrItemNotFound
	}
	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, manager models.Actor, id uuid.UUID, req ItemRequest) (*models.Item, error) {
	truckID, err := managedTruck(manager)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	var item *models.Item
	err = s.store.ExecTx(ctx, func(repos *repositories.Repositories) error {
		var err error
		item, err = loadOwnedItem(ctx, repos, truckID, id)
		if err != nil {
			return err
		}
		categories, err := checkCategories(ctx, repos, req.CategoryIDs)
		if err != nil {
			return err
		}

		item.Name = req.Name
		item.Description = req.Description
		item.Price = req.Price
		if err := repos.Items.Update(ctx, item); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		if err := repos.Items.SetCategories(ctx, item.ID, categoryIDs(categories)); err != nil {
			return fmt.Errorf("tag item: %w", err)
		}
		item.Categories = categories
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, item.Slug)
	s.presign(ctx, item)
	return item, nil
}

// DeleteItem removes an item that has never been ordered, along with its image.
func (s *itemService) DeleteItem(ctx context.Context, manager models.Actor, id uuid.UUID) error {
	truckID, err := managedTruck(manager)
	if err != nil {
		return err
	}

	repos := s.store.Repos()
	item, err := loadOwnedItem(ctx, repos, truckID, id)
	if err != nil {
		return err
	}
	if err := repos.Items.Delete(ctx, id); err != nil {
		switch {
		case repositories.IsNotFound(err):
			return common.ErrItemNotFound
		case repositories.IsForeignKeyViolation(err):
			return common.ErrItemInUse
		}
		return fmt.Errorf("delete item: %w", err)
	}

	if item.Image != nil {
		if err := s.media.DeleteImage(ctx, *item.Image); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("object", *item.Image).Msg("failed to delete item image")
		}
	}
	s.invalidate(ctx, item.Slug)
	log.Ctx(ctx).Info().Str("item_id", id.String()).Msg("item deleted")
	return nil
}

func (s *itemService) GetItemBySlug(ctx context.Context, slug string) (*models.Item, error) {
	key := itemCacheKey(slug)
	var cached models.Item
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if found {
		s.presign(ctx, &cached)
		return &cached, nil
	}

	repos := s.store.Repos()
	item, err := repos.Items.GetBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.ErrItemNotFound
		}
		return nil, fmt.Errorf("load item: %w", err)
	}
	categories, err := repos.Items.ListCategories(ctx, []uuid.UUID{item.ID})
	if err != nil {
		return nil, fmt.Errorf("load item categories: %w", err)
	}
	item.Categories = categories[item.ID]

	if err := s.cache.Set(ctx, key, item, s.cacheTTL); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	s.presign(ctx, item)
	return item, nil
}

func (s *itemService) ListItems(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	limit, offset, err := common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if err != nil {
		return nil, common.NewValidationError("offset", err.Error())
	}
	filter.Limit, filter.Offset = limit, offset
	filter.Query = common.SanitizeSearchQuery(filter.Query)

	repos := s.store.Repos()
	items, err := repos.Items.List(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if len(items) == 0 {
		return []*models.Item{}, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	categories, err := repos.Items.ListCategories(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load item categories: %w", err)
	}
	for _, item := range items {
		item.Categories = categories[item.ID]
		s.presign(ctx, item)
	}
	return items, nil
}

// UploadItemImage stores a new picture for the item and drops the old one.
func (s *itemService) UploadItemImage(ctx context.Context, manager models.Actor, id uuid.UUID, upload ImageUpload) (*models.Item, error) {
	truckID, err := managedTruck(manager)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, common.NewValidationError("image", "must be an image")
	}
	if upload.Size <= 0 || upload.Size > maxImageSize {
		return nil, common.NewValidationError("image", fmt.Sprintf("must be between 1 byte and %d bytes", maxImageSize))
	}

	repos := s.store.Repos()
	item, err := loadOwnedItem(ctx, repos, truckID, id)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("items/%s/%s%s", item.ID, uuid.NewString(), strings.ToLower(path.Ext(upload.Filename)))
	if err := s.media.UploadImage(ctx, objectName, upload.Body, upload.Size, upload.ContentType); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	if err := repos.Items.SetImage(ctx, item.ID, objectName); err != nil {
		if cleanupErr := s.media.DeleteImage(ctx, objectName); cleanupErr != nil {
			log.Ctx(ctx).Warn().Err(cleanupErr).Str("object", objectName).Msg("failed to remove orphaned image")
		}
		return nil, fmt.Errorf("store image reference: %w", err)
	}

	if previous := item.Image; previous != nil {
		if err := s.media.DeleteImage(ctx, *previous); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("object", *previous).Msg("failed to delete previous item image")
		}
	}
	item.Image = &objectName
	s.invalidate(ctx, item.Slug)
	s.presign(ctx, item)
	return item, nil
}

func (s *itemService) invalidate(ctx context.Context, slug string) {
	if err := s.cache.Delete(ctx, itemCacheKey(slug)); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("slug", slug).Msg("item cache invalidation failed")
	}
}

// presign fills ImageURL with a temporary download link.
func (s *itemService) presign(ctx context.Context, item *models.Item) {
	if item.Image == nil || *item.Image == "" {
		return
	}
	url, err := s.media.GetPresignedURL(ctx, *item.Image, s.urlExpiry)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("object", *item.Image).Msg("failed to presign item image")
		return
	}
	item.ImageURL = url
}
