package handlers

import (
	"context"
	"time"

	"foodtruck/internal/caching"
	"foodtruck/internal/models"
	"foodtruck/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) RegisterCustomer(ctx context.Context, req services.UserRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) CreateStaff(ctx context.Context, manager models.Actor, req services.UserRequest) (*models.User, error) {
	args := m.Called(ctx, manager, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ListStaff(ctx context.Context, truckID uuid.UUID) ([]*models.User, error) {
	args := m.Called(ctx, truckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserService) SearchCustomers(ctx context.Context, query string, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, query, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockFoodTruckService struct {
	mock.Mock
}

func (m *MockFoodTruckService) OnboardTruck(ctx context.Context, req services.OnboardTruckRequest) (*models.FoodTruck, *models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.FoodTruck), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockFoodTruckService) ListTrucks(ctx context.Context) ([]*models.FoodTruck, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FoodTruck), args.Error(1)
}

func (m *MockFoodTruckService) GetTruck(ctx context.Context, id uuid.UUID) (*models.FoodTruck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodTruck), args.Error(1)
}

func (m *MockFoodTruckService) GetTruckBySlug(ctx context.Context, slug string) (*models.FoodTruck, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodTruck), args.Error(1)
}

func (m *MockFoodTruckService) GetSchedule(ctx context.Context, truckID uuid.UUID) ([]models.ScheduleEntry, error) {
	args := m.Called(ctx, truckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScheduleEntry), args.Error(1)
}

func (m *MockFoodTruckService) SaveSchedule(ctx context.Context, truckID uuid.UUID, entries []models.ScheduleEntry) ([]models.ScheduleEntry, error) {
	args := m.Called(ctx, truckID, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScheduleEntry), args.Error(1)
}

func (m *MockFoodTruckService) CheckAvailability(ctx context.Context, slug string, pickupDate, pickupTime time.Time) (bool, error) {
	args := m.Called(ctx, slug, pickupDate, pickupTime)
	return args.Bool(0), args.Error(1)
}

func (m *MockFoodTruckService) WarmCache(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) CreateItem(ctx context.Context, manager models.Actor, req services.ItemRequest) (*models.Item, error) {
	args := m.Called(ctx, manager, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) UpdateItem(ctx context.Context, manager models.Actor, id uuid.UUID, req services.ItemRequest) (*models.Item, error) {
	args := m.Called(ctx, manager, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) DeleteItem(ctx context.Context, manager models.Actor, id uuid.UUID) error {
	args := m.Called(ctx, manager, id)
	return args.Error(0)
}

func (m *MockItemService) GetItemBySlug(ctx context.Context, slug string) (*models.Item, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) ListItems(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *MockItemService) UploadItemImage(ctx context.Context, manager models.Actor, id uuid.UUID, upload services.ImageUpload) (*models.Item, error) {
	args := m.Called(ctx, manager, id, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, name string, imageURL *string) (*models.Category, error) {
	args := m.Called(ctx, name, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, name string, imageURL *string) (*models.Category, error) {
	args := m.Called(ctx, id, name, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, key caching.CartKey) (*models.Cart, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, key caching.CartKey, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, key, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartService) SetQuantity(ctx context.Context, key caching.CartKey, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, key, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, key caching.CartKey, itemID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, key, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, key caching.CartKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, req services.PlaceOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {
	return m.orderResult(m.Called(ctx, actor, id))
}

func (m *MockOrderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) ListTruckOrders(ctx context.Context, truckID uuid.UUID, status *models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, truckID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {
	return m.orderResult(m.Called(ctx, actor, id))
}

func (m *MockOrderService) ApproveOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {
	return m.orderResult(m.Called(ctx, actor, id))
}

func (m *MockOrderService) RejectOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {
	return m.orderResult(m.Called(ctx, actor, id))
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, actor models.Actor, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	return m.orderResult(m.Called(ctx, actor, id, status))
}

func (m *MockOrderService) AddFeedback(ctx context.Context, actor models.Actor, id uuid.UUID, feedback string) (*models.Order, error) {
	return m.orderResult(m.Called(ctx, actor, id, feedback))
}

func (m *MockOrderService) StatusOptions(orderType models.OrderType) []models.OrderStatus {
	return models.StatusOptions(orderType)
}

func (m *MockOrderService) orderResult(args mock.Arguments) (*models.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.Wallet, *models.Transaction, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Wallet), args.Get(1).(*models.Transaction), args.Error(2)
}

func (m *MockWalletService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

// stubPinger fails with err when set.
type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}
