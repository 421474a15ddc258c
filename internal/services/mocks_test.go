package services

import (
	"context"
	"io"
	"time"

	"foodtruck/internal/models"
	"foodtruck/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// fakeStore runs transaction callbacks against the mocked repositories and
// records whether the last unit of work committed.
type fakeStore struct {
	repos     *repositories.Repositories
	txCount   int
	committed bool
}

func (s *fakeStore) Repos() *repositories.Repositories {
	return s.repos
}

func (s *fakeStore) ExecTx(ctx context.Context, fn func(repos *repositories.Repositories) error) error {
	s.txCount++
	s.committed = false
	if err := fn(s.repos); err != nil {
		return err
	}
	s.committed = true
	return nil
}

type repoMocks struct {
	users      *MockUserRepository
	wallets    *MockWalletRepository
	trucks     *MockFoodTruckRepository
	schedules  *MockScheduleRepository
	categories *MockCategoryRepository
	items      *MockItemRepository
	orders     *MockOrderRepository
	orderItems *MockOrderItemRepository
	invoices   *MockInvoiceRepository
}

func newRepoMocks() (*repoMocks, *fakeStore) {
	m := &repoMocks{
		users:      &MockUserRepository{},
		wallets:    &MockWalletRepository{},
		trucks:     &MockFoodTruckRepository{},
		schedules:  &MockScheduleRepository{},
		categories: &MockCategoryRepository{},
		items:      &MockItemRepository{},
		orders:     &MockOrderRepository{},
		orderItems: &MockOrderItemRepository{},
		invoices:   &MockInvoiceRepository{},
	}
	store := &fakeStore{repos: &repositories.Repositories{
		Users:      m.users,
		Wallets:    m.wallets,
		FoodTrucks: m.trucks,
		Schedules:  m.schedules,
		Categories: m.categories,
		Items:      m.items,
		Orders:     m.orders,
		OrderItems: m.orderItems,
		Invoices:   m.invoices,
	}}
	return m, store
}

func (m *repoMocks) assertExpectations(t mock.TestingT) {
	m.users.AssertExpectations(t)
	m.wallets.AssertExpectations(t)
	m.trucks.AssertExpectations(t)
	m.schedules.AssertExpectations(t)
	m.categories.AssertExpectations(t)
	m.items.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.orderItems.AssertExpectations(t)
	m.invoices.AssertExpectations(t)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListByFoodTruck(ctx context.Context, foodTruckID uuid.UUID) ([]*models.User, error) {
	args := m.Called(ctx, foodTruckID)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) SearchCustomers(ctx context.Context, filter *models.CustomerSearchFilter) ([]*models.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) AdjustBalance(ctx context.Context, walletID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, walletID, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockWalletRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockWalletRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	args := m.Called(ctx, walletID, limit, offset)
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

type MockFoodTruckRepository struct {
	mock.Mock
}

func (m *MockFoodTruckRepository) Create(ctx context.Context, truck *models.FoodTruck) error {
	args := m.Called(ctx, truck)
	return args.Error(0)
}

func (m *MockFoodTruckRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FoodTruck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodTruck), args.Error(1)
}

func (m *MockFoodTruckRepository) GetBySlug(ctx context.Context, slug string) (*models.FoodTruck, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodTruck), args.Error(1)
}

func (m *MockFoodTruckRepository) List(ctx context.Context) ([]*models.FoodTruck, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.FoodTruck), args.Error(1)
}

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) ListByFoodTruck(ctx context.Context, foodTruckID uuid.UUID) ([]models.ScheduleEntry, error) {
	args := m.Called(ctx, foodTruckID)
	return args.Get(0).([]models.ScheduleEntry), args.Error(1)
}

func (m *MockScheduleRepository) DeleteByFoodTruck(ctx context.Context, foodTruckID uuid.UUID) error {
	args := m.Called(ctx, foodTruckID)
	return args.Error(0)
}

func (m *MockScheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Category), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) GetBySlug(ctx context.Context, slug string) (*models.Item, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Item, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) List(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *MockItemRepository) SetImage(ctx context.Context, id uuid.UUID, image string) error {
	args := m.Called(ctx, id, image)
	return args.Error(0)
}

func (m *MockItemRepository) SetCategories(ctx context.Context, itemID uuid.UUID, categoryIDs []uuid.UUID) error {
	args := m.Called(ctx, itemID, categoryIDs)
	return args.Error(0)
}

func (m *MockItemRepository) ListCategories(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]*models.Category, error) {
	args := m.Called(ctx, itemIDs)
	return args.Get(0).(map[uuid.UUID][]*models.Category), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) SetFeedback(ctx context.Context, id uuid.UUID, feedback string) (bool, error) {
	args := m.Called(ctx, id, feedback)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, customerID, limit, offset)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByFoodTruck(ctx context.Context, foodTruckID uuid.UUID, filter *models.OrderFilter) ([]*models.Order, error) {
	args := m.Called(ctx, foodTruckID, filter)
	return args.Get(0).([]*models.Order), args.Error(1)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) Create(ctx context.Context, item *models.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderItemRepository) ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]*models.OrderItem, error) {
	args := m.Called(ctx, orderIDs)
	return args.Get(0).(map[uuid.UUID][]*models.OrderItem), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]*models.Invoice, error) {
	args := m.Called(ctx, orderIDs)
	return args.Get(0).(map[uuid.UUID]*models.Invoice), args.Error(1)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadImage(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, size, contentType)
	return args.Error(0)
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMinioService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// decimalEq matches a decimal argument by value, ignoring its exponent.
func decimalEq(s string) interface{} {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}
