package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/entity"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, price, stock_quantity, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un artículo y asigna su ID.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO item (name, price, stock_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.Name, item.Price, item.StockQuantity, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM item WHERE id = $1`
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Update actualiza nombre, precio y stock.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE item SET name = $2, price = $3, stock_quantity = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, item.ID, item.Name, item.Price, item.StockQuantity, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update item %d: %w", item.ID, domain.ErrNotFound)
	}
	return nil
}

// List lista artículos ordenados por ID.
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM item ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	out, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return out, nil
}

// Delete elimina el artículo; category_item se limpia por ON DELETE CASCADE.
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM item WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	if err := row.Scan(&it.ID, &it.Name, &it.Price, &it.StockQuantity, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func collectItems(rows pgx.Rows) ([]*entity.Item, error) {
	defer rows.Close()
	out := make([]*entity.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
