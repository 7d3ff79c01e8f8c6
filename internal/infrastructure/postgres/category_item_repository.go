package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/entity"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
)

var _ repository.CategoryItemRepository = (*CategoryItemRepo)(nil)

// CategoryItemRepo tabla intermedia category_item. La PK (category_id, item_id) garantiza unicidad.
type CategoryItemRepo struct {
	q Querier
}

// NewCategoryItemRepository construye el adaptador de la tabla intermedia.
func NewCategoryItemRepository(q Querier) *CategoryItemRepo {
	return &CategoryItemRepo{q: q}
}

// Add inserta el par; ON CONFLICT lo vuelve idempotente.
func (r *CategoryItemRepo) Add(ctx context.Context, categoryID, itemID int64) (bool, error) {
	query := `
		INSERT INTO category_item (category_id, item_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (category_id, item_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, categoryID, itemID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("insert category_item: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Remove borra el par.
func (r *CategoryItemRepo) Remove(ctx context.Context, categoryID, itemID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM category_item WHERE category_id = $1 AND item_id = $2`, categoryID, itemID)
	if err != nil {
		return false, fmt.Errorf("delete category_item: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListItems artículos de la categoría, ordenados por ID.
func (r *CategoryItemRepo) ListItems(ctx context.Context, categoryID int64) ([]*entity.Item, error) {
	query := `
		SELECT i.id, i.name, i.price, i.stock_quantity, i.created_at, i.updated_at
		FROM item i
		JOIN category_item ci ON ci.item_id = i.id
		WHERE ci.category_id = $1
		ORDER BY i.id`
	rows, err := r.q.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list category items: %w", err)
	}
	out, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("list category items: %w", err)
	}
	return out, nil
}

// ListCategories categorías del artículo.
func (r *CategoryItemRepo) ListCategories(ctx context.Context, itemID int64) ([]*entity.Category, error) {
	query := `
		SELECT c.id, c.name, c.upper_category_id, c.created_at, c.updated_at
		FROM category c
		JOIN category_item ci ON ci.category_id = c.id
		WHERE ci.item_id = $1`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list item categories: %w", err)
	}
	out, err := collectCategories(rows)
	if err != nil {
		return nil, fmt.Errorf("list item categories: %w", err)
	}
	tree.SortByName(out)
	return out, nil
}

// CountItems cuenta artículos por categoría; las categorías sin artículos no aparecen.
func (r *CategoryItemRepo) CountItems(ctx context.Context, categoryIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return counts, nil
	}
	query := `
		SELECT category_id, count(*)
		FROM category_item
		WHERE category_id = ANY($1)
		GROUP BY category_id`
	rows, err := r.q.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("count category items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("count category items: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// RemoveByCategory borra todas las filas de la categoría.
func (r *CategoryItemRepo) RemoveByCategory(ctx context.Context, categoryID int64) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM category_item WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("delete category_item by category: %w", err)
	}
	return tag.RowsAffected(), nil
}
