package repositories

import (
	"context"
	"fmt"

	"foodtruck/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	GetBySlug(ctx context.Context, slug string) (*models.Item, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, error)
	SetImage(ctx context.Context, id uuid.UUID, image string) error
	SetCategories(ctx context.Context, itemID uuid.UUID, categoryIDs []uuid.UUID) error
	ListCategories(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]*models.Category, error)
}

type itemRepo struct {
	db DBTX
}

func NewItemRepo(db DBTX) ItemRepository {
	return &itemRepo{db: db}
}

const itemColumns = `i.id, i.food_truck_id, i.name, i.slug, i.description, i.price, i.image, i.created_at, i.updated_at`

func scanItem(row pgx.Row) (*models.Item, error) {
	item := &models.Item{}
	err := row.Scan(&item.ID, &item.FoodTruckID, &item.Name, &item.Slug, &item.Description, &item.Price,
		&item.Image, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func collectItems(rows pgx.Rows) ([]*models.Item, error) {
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *itemRepo) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (id, food_truck_id, name, slug, description, price, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.FoodTruckID, item.Name, item.Slug, item.Description, item.Price, item.Image)
	return err
}

func (r *itemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.id = $1`
	return scanItem(r.db.QueryRow(ctx, query, id))
}

func (r *itemRepo) GetBySlug(ctx context.Context, slug string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.slug = $1`
	return scanItem(r.db.QueryRow(ctx, query, slug))
}

// GetByIDs returns the items that exist among ids, in no particular order.
func (r *itemRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

func (r *itemRepo) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET name = $1, description = $2, price = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, item.Name, item.Description, item.Price, item.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// List filters items by truck, category and name
func (r *itemRepo) List(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	query := `SELECT ` + itemColumns + ` FROM items i WHERE TRUE`
	var args []any

	if filter.FoodTruckID != nil {
		args = append(args, *filter.FoodTruckID)
		query += fmt.Sprintf(` AND i.food_truck_id = $%d`, len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(` AND EXISTS (SELECT 1 FROM item_categories ic WHERE ic.item_id = i.id AND ic.category_id = $%d)`, len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(` AND i.name ILIKE $%d`, len(args))
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY i.name LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

func (r *itemRepo) SetImage(ctx context.Context, id uuid.UUID, image string) error {
	tag, err := r.db.Exec(ctx, `UPDATE items SET image = $1, updated_at = NOW() WHERE id = $2`, image, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetCategories replaces the category links of an item.
func (r *itemRepo) SetCategories(ctx context.Context, itemID uuid.UUID, categoryIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM item_categories WHERE item_id = $1`, itemID); err != nil {
		return err
	}
	for _, categoryID := range categoryIDs {
		query := `
			INSERT INTO item_categories (item_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`
		if _, err := r.db.Exec(ctx, query, itemID, categoryID); err != nil {
			return err
		}
	}
	return nil
}

func (r *itemRepo) ListCategories(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]*models.Category, error) {
	query := `
		SELECT ic.item_id, c.id, c.name, c.image_url, c.created_at
		FROM item_categories ic
		JOIN categories c ON c.id = ic.category_id
		WHERE ic.item_id = ANY($1)
		ORDER BY c.name
	`
	rows, err := r.db.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]*models.Category)
	for rows.Next() {
		var itemID uuid.UUID
		category := &models.Category{}
		if err := rows.Scan(&itemID, &category.ID, &category.Name, &category.ImageURL, &category.CreatedAt); err != nil {
			return nil, err
		}
		result[itemID] = append(result[itemID], category)
	}
	return result, rows.Err()
}
