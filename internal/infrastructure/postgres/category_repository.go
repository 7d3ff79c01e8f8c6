package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/entity"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// maxAncestorDepth corta la consulta recursiva si los datos tuvieran un ciclo.
const maxAncestorDepth = 10000

const categoryColumns = `id, name, upper_category_id, created_at, updated_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste la categoría; el ID lo asigna la secuencia BIGSERIAL.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO category (name, upper_category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		category.Name, category.UpperCategoryID, category.CreatedAt, category.UpdatedAt,
	).Scan(&category.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUpperCategoryNotFound
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category WHERE id = $1`
	c, err := scanCategory(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Update guarda nombre, categoría superior y updated_at.
func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	query := `
		UPDATE category SET name = $2, upper_category_id = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, category.ID, category.Name, category.UpperCategoryID, category.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUpperCategoryNotFound
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update category %d: %w", category.ID, domain.ErrNotFound)
	}
	return nil
}

// UpdateName cambia solo name y updated_at, sin reescribir upper_category_id.
func (r *CategoryRepo) UpdateName(ctx context.Context, id int64, name string, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE category SET name = $2, updated_at = $3 WHERE id = $1`, id, name, updatedAt)
	if err != nil {
		return fmt.Errorf("update category name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update category %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListRoots lista las categorías sin categoría superior.
func (r *CategoryRepo) ListRoots(ctx context.Context) ([]*entity.Category, error) {
	return r.list(ctx, `SELECT `+categoryColumns+` FROM category WHERE upper_category_id IS NULL`)
}

// ListByUpper lista las subcategorías directas.
func (r *CategoryRepo) ListByUpper(ctx context.Context, upperID int64) ([]*entity.Category, error) {
	return r.list(ctx, `SELECT `+categoryColumns+` FROM category WHERE upper_category_id = $1`, upperID)
}

// ListAll lista todas las categorías.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]*entity.Category, error) {
	return r.list(ctx, `SELECT `+categoryColumns+` FROM category`)
}

// ListAncestors recorre la cadena hacia la raíz con una CTE recursiva.
func (r *CategoryRepo) ListAncestors(ctx context.Context, id int64) ([]*entity.Category, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT p.id, p.name, p.upper_category_id, p.created_at, p.updated_at, 1 AS depth
			FROM category c
			JOIN category p ON p.id = c.upper_category_id
			WHERE c.id = $1
			UNION ALL
			SELECT p.id, p.name, p.upper_category_id, p.created_at, p.updated_at, chain.depth + 1
			FROM chain
			JOIN category p ON p.id = chain.upper_category_id
			WHERE chain.depth <= $2
		)
		SELECT ` + categoryColumns + ` FROM chain ORDER BY depth`
	rows, err := r.q.Query(ctx, query, id, maxAncestorDepth)
	if err != nil {
		return nil, fmt.Errorf("list ancestors: %w", err)
	}
	out, err := collectCategories(rows)
	if err != nil {
		return nil, fmt.Errorf("list ancestors: %w", err)
	}
	if len(out) > maxAncestorDepth {
		return nil, domain.ErrCycle
	}
	return out, nil
}

// ReassignUpper mueve todas las subcategorías de fromUpperID bajo toUpperID.
func (r *CategoryRepo) ReassignUpper(ctx context.Context, fromUpperID int64, toUpperID *int64) (int64, error) {
	query := `
		UPDATE category SET upper_category_id = $2, updated_at = now()
		WHERE upper_category_id = $1`
	tag, err := r.q.Exec(ctx, query, fromUpperID, toUpperID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.ErrUpperCategoryNotFound
		}
		return 0, fmt.Errorf("reassign upper category: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete borra la categoría. category_item se limpia por ON DELETE CASCADE;
// si aún tiene subcategorías la FK (RESTRICT) lo impide.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM category WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryHasLowerCategories
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// list ejecuta la consulta y ordena por nombre con la misma colación que el árbol en memoria.
func (r *CategoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out, err := collectCategories(rows)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	tree.SortByName(out)
	return out, nil
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.UpperCategoryID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCategories(rows pgx.Rows) ([]*entity.Category, error) {
	defer rows.Close()
	out := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
