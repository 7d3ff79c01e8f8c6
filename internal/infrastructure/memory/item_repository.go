package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/entity"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	v view
}

// Create asigna el siguiente ID y guarda una copia.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	return r.v.do(ctx, func(st *state) error {
		st.nextItemID++
		item.ID = st.nextItemID
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now()
		}
		if item.UpdatedAt.IsZero() {
			item.UpdatedAt = item.CreatedAt
		}
		cp := *item
		st.items[item.ID] = &cp
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	var out *entity.Item
	err := r.v.do(ctx, func(st *state) error {
		if it, ok := st.items[id]; ok {
			cp := *it
			out = &cp
		}
		return nil
	})
	return out, err
}

// Update reemplaza los datos del artículo.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	return r.v.do(ctx, func(st *state) error {
		prev, ok := st.items[item.ID]
		if !ok {
			return fmt.Errorf("update item %d: %w", item.ID, domain.ErrNotFound)
		}
		cp := *item
		cp.CreatedAt = prev.CreatedAt
		st.items[item.ID] = &cp
		return nil
	})
}

// List artículos ordenados por ID con paginación.
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.v.do(ctx, func(st *state) error {
		all := sortedItems(st, func(*entity.Item) bool { return true })
		if offset >= len(all) {
			return nil
		}
		end := len(all)
		if limit > 0 && offset+limit < end {
			end = offset + limit
		}
		out = all[offset:end]
		return nil
	})
	return out, err
}

// Delete borra el artículo y sus filas en la tabla intermedia.
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	return r.v.do(ctx, func(st *state) error {
		for k := range st.links {
			if k.itemID == id {
				delete(st.links, k)
			}
		}
		delete(st.items, id)
		return nil
	})
}

// sortedItems copia los artículos que cumplen keep, ordenados por ID.
func sortedItems(st *state, keep func(*entity.Item) bool) []*entity.Item {
	out := make([]*entity.Item, 0)
	for _, it := range st.items {
		if keep(it) {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
