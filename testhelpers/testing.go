package testhelpers

import (
	"context"
	"os"
	"testing"

	"foodtruck/internal/models"
	"foodtruck/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. Tests are skipped when the variable is not set.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	if err := database.RunMigrations(dsn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	pool, err := database.NewPool(context.Background(), dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	db := &TestDB{Pool: pool}
	db.truncate(t)
	db.Cleanup = func() {
		db.truncate(t)
		pool.Close()
	}
	return db
}

func (db *TestDB) truncate(t *testing.T) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(), `
		TRUNCATE wallet_transactions, wallets, invoices, order_items, orders,
			item_categories, items, categories, food_truck_schedules, users, food_trucks CASCADE`)
	if err != nil {
		t.Fatalf("Failed to truncate test database: %v", err)
	}
}

// CreateFoodTruck inserts a truck that is open all day, every day.
func CreateFoodTruck(t *testing.T, db *TestDB, name string) *models.FoodTruck {
	t.Helper()
	ctx := context.Background()

	truck := &models.FoodTruck{
		ID:       uuid.New(),
		Slug:     "truck-" + uuid.NewString()[:8],
		Name:     name,
		Location: "Market Square",
		PhoneNo:  "555-0100",
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO food_trucks (id, slug, name, location, phone_no)
		VALUES ($1, $2, $3, $4, $5)`,
		truck.ID, truck.Slug, truck.Name, truck.Location, truck.PhoneNo)
	if err != nil {
		t.Fatalf("Failed to create test food truck: %v", err)
	}

	for day := 0; day < 7; day++ {
		_, err := db.Pool.Exec(ctx, `
			INSERT INTO food_truck_schedules (id, food_truck_id, day, start_minute, end_minute)
			VALUES ($1, $2, $3, 0, 1439)`,
			uuid.New(), truck.ID, day)
		if err != nil {
			t.Fatalf("Failed to create test schedule: %v", err)
		}
	}
	return truck
}

// CreateItem adds a menu item to a truck.
func CreateItem(t *testing.T, db *TestDB, truckID uuid.UUID, name string, price decimal.Decimal) *models.Item {
	t.Helper()

	item := &models.Item{
		ID:          uuid.New(),
		FoodTruckID: truckID,
		Name:        name,
		Slug:        "item-" + uuid.NewString()[:8],
		Price:       price,
	}
	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO items (id, food_truck_id, name, slug, price)
		VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.FoodTruckID, item.Name, item.Slug, item.Price)
	if err != nil {
		t.Fatalf("Failed to create test item: %v", err)
	}
	return item
}

// CreateCustomer inserts a customer whose wallet holds balance.
func CreateCustomer(t *testing.T, db *TestDB, balance decimal.Decimal) *models.User {
	t.Helper()
	ctx := context.Background()

	user := &models.User{
		ID:        uuid.New(),
		Email:     uuid.NewString()[:8] + "@example.com",
		FirstName: "Test",
		LastName:  "Customer",
		Role:      models.RoleCustomer,
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role)
		VALUES ($1, $2, 'not-a-hash', $3, $4, $5)`,
		user.ID, user.Email, user.FirstName, user.LastName, user.Role)
	if err != nil {
		t.Fatalf("Failed to create test customer: %v", err)
	}

	_, err = db.Pool.Exec(ctx, `INSERT INTO wallets (id, user_id, balance) VALUES ($1, $2, $3)`,
		uuid.New(), user.ID, balance)
	if err != nil {
		t.Fatalf("Failed to create test wallet: %v", err)
	}
	return user
}
