package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/entity"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación en memoria de CategoryRepository.
// Replica las restricciones de la tabla category: la categoría superior debe existir y
// no se puede borrar una categoría con subcategorías.
type CategoryRepo struct {
	v view
}

// Create asigna el siguiente ID y guarda una copia.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	return r.v.do(ctx, func(st *state) error {
		if err := checkUpper(st, category.UpperCategoryID); err != nil {
			return err
		}
		st.nextCategoryID++
		category.ID = st.nextCategoryID
		if category.CreatedAt.IsZero() {
			category.CreatedAt = time.Now()
		}
		if category.UpdatedAt.IsZero() {
			category.UpdatedAt = category.CreatedAt
		}
		st.categories.Put(category.Clone())
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.do(ctx, func(st *state) error {
		if c, ok := st.categories.Get(id); ok {
			out = c.Clone()
		}
		return nil
	})
	return out, err
}

// Update guarda nombre y categoría superior. Rechaza con ErrCycle colgar la categoría de sí misma
// o de una descendiente.
func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	return r.v.do(ctx, func(st *state) error {
		prev, ok := st.categories.Get(category.ID)
		if !ok {
			return fmt.Errorf("update category %d: %w", category.ID, domain.ErrNotFound)
		}
		if err := checkUpper(st, category.UpperCategoryID); err != nil {
			return err
		}
		if upper := category.UpperCategoryID; upper != nil &&
			(*upper == category.ID || st.categories.IsDescendant(*upper, category.ID)) {
			return domain.ErrCycle
		}
		next := category.Clone()
		next.CreatedAt = prev.CreatedAt
		st.categories.Put(next)
		return nil
	})
}

// UpdateName cambia el nombre sobre la versión vigente de la categoría.
func (r *CategoryRepo) UpdateName(ctx context.Context, id int64, name string, updatedAt time.Time) error {
	return r.v.do(ctx, func(st *state) error {
		prev, ok := st.categories.Get(id)
		if !ok {
			return fmt.Errorf("update category %d: %w", id, domain.ErrNotFound)
		}
		next := prev.Clone()
		next.Name = name
		next.UpdatedAt = updatedAt
		st.categories.Put(next)
		return nil
	})
}

// ListRoots categorías sin categoría superior.
func (r *CategoryRepo) ListRoots(ctx context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.do(ctx, func(st *state) error {
		out = cloneAll(st.categories.Roots())
		return nil
	})
	return out, err
}

// ListByUpper subcategorías directas.
func (r *CategoryRepo) ListByUpper(ctx context.Context, upperID int64) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.do(ctx, func(st *state) error {
		out = cloneAll(st.categories.Lower(upperID))
		return nil
	})
	return out, err
}

// ListAll todas las categorías.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.do(ctx, func(st *state) error {
		out = cloneAll(st.categories.All())
		return nil
	})
	return out, err
}

// ListAncestors devuelve vacío si la categoría no existe, igual que la consulta recursiva en PostgreSQL.
func (r *CategoryRepo) ListAncestors(ctx context.Context, id int64) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.do(ctx, func(st *state) error {
		if _, ok := st.categories.Get(id); !ok {
			return nil
		}
		chain, err := st.categories.Ancestors(id)
		if err != nil {
			return err
		}
		out = cloneAll(chain)
		return nil
	})
	return out, err
}

// ReassignUpper mueve las subcategorías de fromUpperID bajo toUpperID.
func (r *CategoryRepo) ReassignUpper(ctx context.Context, fromUpperID int64, toUpperID *int64) (int64, error) {
	var moved int64
	err := r.v.do(ctx, func(st *state) error {
		if err := checkUpper(st, toUpperID); err != nil {
			return err
		}
		now := time.Now()
		for _, c := range st.categories.Lower(fromUpperID) {
			next := c.Clone()
			next.SetUpperCategoryID(toUpperID)
			next.UpdatedAt = now
			st.categories.Put(next)
			moved++
		}
		return nil
	})
	return moved, err
}

// Delete borra la categoría y sus filas en la tabla intermedia; los artículos no se tocan.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.categories.Get(id); !ok {
			return nil
		}
		if len(st.categories.Lower(id)) > 0 {
			return domain.ErrCategoryHasLowerCategories
		}
		for k := range st.links {
			if k.categoryID == id {
				delete(st.links, k)
			}
		}
		st.categories.Remove(id)
		return nil
	})
}

func checkUpper(st *state, upperID *int64) error {
	if upperID == nil {
		return nil
	}
	if _, ok := st.categories.Get(*upperID); !ok {
		return domain.ErrUpperCategoryNotFound
	}
	return nil
}
