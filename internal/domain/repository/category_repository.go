package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Categorias-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// Las búsquedas devuelven (nil, nil) cuando el registro no existe.
type CategoryRepository interface {
	// Create persiste la categoría y le asigna el ID generado por el almacenamiento.
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	// Update guarda nombre, categoría superior y fecha de actualización.
	Update(ctx context.Context, category *entity.Category) error
	// UpdateName cambia solo el nombre; no toca la categoría superior.
	UpdateName(ctx context.Context, id int64, name string, updatedAt time.Time) error
	ListRoots(ctx context.Context) ([]*entity.Category, error)
	// ListByUpper devuelve las subcategorías directas (lado inverso de UpperCategoryID).
	ListByUpper(ctx context.Context, upperID int64) ([]*entity.Category, error)
	ListAll(ctx context.Context) ([]*entity.Category, error)
	// ListAncestors devuelve la cadena desde la categoría superior directa hasta la raíz.
	ListAncestors(ctx context.Context, id int64) ([]*entity.Category, error)
	// ReassignUpper mueve todas las subcategorías de fromUpperID bajo toUpperID (nil = raíz).
	ReassignUpper(ctx context.Context, fromUpperID int64, toUpperID *int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
