package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodtruck/internal/caching"
	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const truckSlugConstraint = "food_trucks_slug_key"

// OnboardTruckRequest creates a truck together with its first manager.
type OnboardTruckRequest struct {
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Location    string      `json:"location"`
	PhoneNo     string      `json:"phone_no"`
	Image       *string     `json:"image"`
	Manager     UserRequest `json:"manager"`
}

type FoodTruckService interface {
	OnboardTruck(ctx context.Context, req OnboardTruckRequest) (*models.FoodTruck, *models.User, error)
	ListTrucks(ctx context.Context) ([]*models.FoodTruck, error)
	GetTruck(ctx context.Context, id uuid.UUID) (*models.FoodTruck, error)
	GetTruckBySlug(ctx context.Context, slug string) (*models.FoodTruck, error)
	GetSchedule(ctx context.Context, truckID uuid.UUID) ([]models.ScheduleEntry, error)
	SaveSchedule(ctx context.Context, truckID uuid.UUID, entries []models.ScheduleEntry) ([]models.ScheduleEntry, error)
	CheckAvailability(ctx context.Context, slug string, pickupDate, pickupTime time.Time) (bool, error)
	WarmCache(ctx context.Context) (int, error)
}

type foodTruckService struct {
	store    repositories.Store
	users    *userService
	cache    caching.CacheService
	cacheTTL time.Duration
}

func NewFoodTruckService(store repositories.Store, cache caching.CacheService, cacheTTL time.Duration) FoodTruckService {
	return &foodTruckService{
		store:    store,
		users:    &userService{store: store, hashCost: defaultHashCost},
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func truckCacheKey(slug string) string {
	return caching.Key("truck", "slug", slug)
}

func scheduleCacheKey(truckID uuid.UUID) string {
	return caching.Key("schedule", truckID.String())
}

// OnboardTruck creates the truck and its manager account in one transaction.
func (s *foodTruckService) OnboardTruck(ctx context.Context, req OnboardTruckRequest) (*models.FoodTruck, *models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	req.PhoneNo = strings.TrimSpace(req.PhoneNo)
	if req.Name == "" {
		return nil, nil, common.NewValidationError("name", "is required")
	}
	slug := common.Slugify(req.Name)
	if slug == "" {
		return nil, nil, common.NewValidationError("name", "must contain letters or digits")
	}
	if req.Location == "" {
		return nil, nil, common.NewValidationError("location", "is required")
	}
	if req.PhoneNo == "" {
		return nil, nil, common.NewValidationError("phone_no", "is required")
	}
	if err := common.ValidateOptionalString(req.Description, "description", 2000); err != nil {
		return nil, nil, common.NewValidationError("description", err.Error())
	}

	truck := &models.FoodTruck{
		ID:          uuid.New(),
		Slug:        slug,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		PhoneNo:     req.PhoneNo,
		Image:       req.Image,
	}
	manager, err := s.users.newUser(req.Manager, models.RoleManager, &truck.ID)
	if err != nil {
		return nil, nil, err
	}

	err = s.store.ExecTx(ctx, func(repos *repositories.Repositories) error {
		if err := repos.FoodTrucks.Create(ctx, truck); err != nil {
			if constraint, ok := repositories.ViolatedConstraint(err); ok && constraint == truckSlugConstraint {
				return common.ErrSlugTaken
			}
			return fmt.Errorf("create food truck: %w", err)
		}
		return createUser(ctx, repos, manager)
	})
	if err != nil {
		return nil, nil, err
	}

	log.Ctx(ctx).Info().Str("food_truck_id", truck.ID.String()).Str("slug", truck.Slug).
		Str("manager_id", manager.ID.String()).Msg("food truck onboarded")
	return truck, manager, nil
}

func (s *foodTruckService) ListTrucks(ctx context.Context) ([]*models.FoodTruck, error) {
	trucks, err := s.store.Repos().FoodTrucks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list food trucks: %w", err)
	}
	return trucks, nil
}

func (s *foodTruckService) GetTruck(ctx context.Context, id uuid.UUID) (*models.FoodTruck, error) {
	truck, err := s.store.Repos().FoodTrucks.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.ErrTruckNotFound
		}
		return nil, fmt.Errorf("load food truck: %w", err)
	}
	return truck, nil
}

// GetTruckBySlug returns the truck with its weekly schedule attached.
func (s *foodTruckService) GetTruckBySlug(ctx context.Context, slug string) (*models.FoodTruck, error) {
	key := truckCacheKey(slug)
	var cached models.FoodTruck
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if found {
		return &cached, nil
	}

	truck, err := s.store.Repos().FoodTrucks.GetBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.ErrTruckNotFound
		}
		return nil, fmt.Errorf("load food truck: %w", err)
	}
	truck.Schedule, err = s.GetSchedule(ctx, truck.ID)
	if err != nil {
		return nil, err
	}

	s.put(ctx, key, truck)
	return truck, nil
}

func (s *foodTruckService) GetSchedule(ctx context.Context, truckID uuid.UUID) ([]models.ScheduleEntry, error) {
	key := scheduleCacheKey(truckID)
	var cached []models.ScheduleEntry
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if found {
		return cached, nil
	}

	schedule, err := s.store.Repos().Schedules.ListByFoodTruck(ctx, truckID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	if schedule == nil {
		schedule = []models.ScheduleEntry{}
	}

	s.put(ctx, key, schedule)
	return schedule, nil
}

// SaveSchedule replaces the whole weekly schedule of a truck.
func (s *foodTruckService) SaveSchedule(ctx context.Context, truckID uuid.UUID, entries []models.ScheduleEntry) ([]models.ScheduleEntry, error) {
	if err := ValidateScheduleEntries(entries); err != nil {
		return nil, err
	}

	var truck *models.FoodTruck
	saved := make([]models.ScheduleEntry, 0, len(entries))
	err := s.store.ExecTx(ctx, func(repos *repositories.Repositories) error {
		var err error
		truck, err = repos.FoodTrucks.GetByID(ctx, truckID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return common.ErrTruckNotFound
			}
			return fmt.Errorf("load food truck: %w", err)
		}

		if err := repos.Schedules.DeleteByFoodTruck(ctx, truckID); err != nil {
			return fmt.Errorf("clear schedule: %w", err)
		}
		for _, entry := range entries {
			entry.ID = uuid.New()
			entry.FoodTruckID = truckID
			if err := repos.Schedules.Create(ctx, &entry); err != nil {
				return fmt.Errorf("save schedule entry for %s: %w", entry.Day, err)
			}
			saved = append(saved, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, scheduleCacheKey(truckID), truckCacheKey(truck.Slug)); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("food_truck_id", truckID.String()).Msg("schedule cache invalidation failed")
	}
	log.Ctx(ctx).Info().Str("food_truck_id", truckID.String()).Int("entries", len(saved)).Msg("schedule saved")
	return saved, nil
}

func (s *foodTruckService) CheckAvailability(ctx context.Context, slug string, pickupDate, pickupTime time.Time) (bool, error) {
	truck, err := s.GetTruckBySlug(ctx, slug)
	if err != nil {
		return false, err
	}
	return IsOpen(truck.Schedule, pickupDate, pickupTime), nil
}

// WarmCache loads every truck and its schedule into the cache and returns how
// many trucks were cached.
func (s *foodTruckService) WarmCache(ctx context.Context) (int, error) {
	trucks, err := s.store.Repos().FoodTrucks.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list food trucks: %w", err)
	}

	warmed := 0
	for _, truck := range trucks {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}
		schedule, err := s.store.Repos().Schedules.ListByFoodTruck(ctx, truck.ID)
		if err != nil {
			return warmed, fmt.Errorf("load schedule for %s: %w", truck.Slug, err)
		}
		if schedule == nil {
			schedule = []models.ScheduleEntry{}
		}
		truck.Schedule = schedule

		if err := s.cache.Set(ctx, scheduleCacheKey(truck.ID), schedule, s.cacheTTL); err != nil {
			return warmed, fmt.Errorf("cache schedule for %s: %w", truck.Slug, err)
		}
		if err := s.cache.Set(ctx, truckCacheKey(truck.Slug), truck, s.cacheTTL); err != nil {
			return warmed, fmt.Errorf("cache truck %s: %w", truck.Slug, err)
		}
		warmed++
	}
	return warmed, nil
}

// put caches value, logging instead of failing the read path.
func (s *foodTruckService) put(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
