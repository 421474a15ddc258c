package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var defaultHashCost = bcrypt.DefaultCost

// UserRequest carries the profile fields of a new account.
type UserRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	PhoneNo   *string `json:"phone_no"`
	Address   *string `json:"address"`
}

func (r *UserRequest) normalize() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)

	if err := common.ValidateEmail(r.Email); err != nil {
		return common.NewValidationError("email", err.Error())
	}
	if len(r.Password) < minPasswordLength {
		return common.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if len(r.Password) > 72 {
		return common.NewValidationError("password", "must be at most 72 characters")
	}
	if r.FirstName == "" {
		return common.NewValidationError("first_name", "is required")
	}
	if err := common.ValidateOptionalString(r.PhoneNo, "phone_no", 32); err != nil {
		return common.NewValidationError("phone_no", err.Error())
	}
	if err := common.ValidateOptionalString(r.Address, "address", 500); err != nil {
		return common.NewValidationError("address", err.Error())
	}
	return nil
}

type UserService interface {
	RegisterCustomer(ctx context.Context, req UserRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	CreateStaff(ctx context.Context, manager models.Actor, req UserRequest) (*models.User, error)
	ListStaff(ctx context.Context, truckID uuid.UUID) ([]*models.User, error)
	SearchCustomers(ctx context.Context, query string, limit, offset int) ([]*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userService struct {
	store    repositories.Store
	hashCost int
}

func NewUserService(store repositories.Store) UserService {
	return &userService{store: store, hashCost: defaultHashCost}
}

func (s *userService) newUser(req UserRequest, role models.Role, truckID *uuid.UUID) (*models.User, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNo:      req.PhoneNo,
		Address:      req.Address,
		Role:         role,
		FoodTruckID:  truckID,
	}, nil
}

// createUser inserts user, mapping a duplicate email to ErrEmailTaken.
func createUser(ctx context.Context, repos *repositories.Repositories, user *models.User) error {
	if err := repos.Users.Create(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return common.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// RegisterCustomer creates the customer together with an empty wallet.
func (s *userService) RegisterCustomer(ctx context.Context, req UserRequest) (*models.User, error) {
	user, err := s.newUser(req, models.RoleCustomer, nil)
	if err != nil {
		return nil, err
	}

	err = s.store.ExecTx(ctx, func(repos *repositories.Repositories) error {
		if err := createUser(ctx, repos, user); err != nil {
			return err
		}
		wallet := &models.Wallet{ID: uuid.New(), UserID: user.ID, Balance: decimal.Zero}
		if err := repos.Wallets.Create(ctx, wallet); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("customer registered")
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.store.Repos().Users.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return user, nil
}

// CreateStaff adds a staff member to the manager's own truck.
func (s *userService) CreateStaff(ctx context.Context, manager models.Actor, req UserRequest) (*models.User, error) {
	if manager.Role != models.RoleManager || manager.FoodTruckID == nil {
		return nil, common.ErrForbidden
	}
	truckID := *manager.FoodTruckID

	user, err := s.newUser(req, models.RoleStaff, &truckID)
	if err != nil {
		return nil, err
	}
	if err := createUser(ctx, s.store.Repos(), user); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("user_id", user.ID.String()).Str("food_truck_id", truckID.String()).
		Str("manager_id", manager.UserID.String()).Msg("staff member created")
	return user, nil
}

func (s *userService) ListStaff(ctx context.Context, truckID uuid.UUID) ([]*models.User, error) {
	users, err := s.store.Repos().Users.ListByFoodTruck(ctx, truckID)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return users, nil
}

// SearchCustomers lets staff find the customer they are ordering for.
func (s *userService) SearchCustomers(ctx context.Context, query string, limit, offset int) ([]*models.User, error) {
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, common.NewValidationError("offset", err.Error())
	}

	filter := &models.CustomerSearchFilter{
		Query:  common.SanitizeSearchQuery(query),
		Limit:  limit,
		Offset: offset,
	}
	users, err := s.store.Repos().Users.SearchCustomers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.Repos().Users.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
