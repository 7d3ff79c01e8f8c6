package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/entity"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
)

var _ repository.CategoryItemRepository = (*CategoryItemRepo)(nil)

// CategoryItemRepo implementación en memoria de la tabla intermedia category_item.
type CategoryItemRepo struct {
	v view
}

// Add inserta el par si no existía.
func (r *CategoryItemRepo) Add(ctx context.Context, categoryID, itemID int64) (bool, error) {
	var added bool
	err := r.v.do(ctx, func(st *state) error {
		if _, ok := st.categories.Get(categoryID); !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.items[itemID]; !ok {
			return domain.ErrNotFound
		}
		k := link{categoryID: categoryID, itemID: itemID}
		if _, exists := st.links[k]; exists {
			return nil
		}
		st.links[k] = time.Now()
		added = true
		return nil
	})
	return added, err
}

// Remove borra el par si existía.
func (r *CategoryItemRepo) Remove(ctx context.Context, categoryID, itemID int64) (bool, error) {
	var removed bool
	err := r.v.do(ctx, func(st *state) error {
		k := link{categoryID: categoryID, itemID: itemID}
		if _, exists := st.links[k]; exists {
			delete(st.links, k)
			removed = true
		}
		return nil
	})
	return removed, err
}

// ListItems artículos asociados a la categoría, ordenados por ID.
func (r *CategoryItemRepo) ListItems(ctx context.Context, categoryID int64) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.v.do(ctx, func(st *state) error {
		out = sortedItems(st, func(it *entity.Item) bool {
			_, ok := st.links[link{categoryID: categoryID, itemID: it.ID}]
			return ok
		})
		return nil
	})
	return out, err
}

// ListCategories categorías a las que pertenece el artículo, ordenadas por nombre.
func (r *CategoryItemRepo) ListCategories(ctx context.Context, itemID int64) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.do(ctx, func(st *state) error {
		for k := range st.links {
			if k.itemID != itemID {
				continue
			}
			if c, ok := st.categories.Get(k.categoryID); ok {
				out = append(out, c.Clone())
			}
		}
		tree.SortByName(out)
		return nil
	})
	return out, err
}

// CountItems cuenta artículos por categoría; las categorías sin artículos no aparecen.
func (r *CategoryItemRepo) CountItems(ctx context.Context, categoryIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(categoryIDs))
	err := r.v.do(ctx, func(st *state) error {
		wanted := make(map[int64]struct{}, len(categoryIDs))
		for _, id := range categoryIDs {
			wanted[id] = struct{}{}
		}
		for k := range st.links {
			if _, ok := wanted[k.categoryID]; ok {
				counts[k.categoryID]++
			}
		}
		return nil
	})
	return counts, err
}

// RemoveByCategory borra todas las filas de la categoría.
func (r *CategoryItemRepo) RemoveByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var removed int64
	err := r.v.do(ctx, func(st *state) error {
		for k := range st.links {
			if k.categoryID == categoryID {
				delete(st.links, k)
				removed++
			}
		}
		return nil
	})
	return removed, err
}
