package repository

import (
	"context"

	"github.com/jhoicas/Categorias-api/internal/domain/entity"
)

// CategoryItemRepository administra la asociación muchos a muchos category_item.
// Es el único dueño de las filas de la tabla intermedia.
type CategoryItemRepository interface {
	// Add es idempotente: devuelve false si el par ya existía.
	Add(ctx context.Context, categoryID, itemID int64) (bool, error)
	// Remove devuelve false si el par no existía.
	Remove(ctx context.Context, categoryID, itemID int64) (bool, error)
	ListItems(ctx context.Context, categoryID int64) ([]*entity.Item, error)
	ListCategories(ctx context.Context, itemID int64) ([]*entity.Category, error)
	CountItems(ctx context.Context, categoryIDs []int64) (map[int64]int, error)
	RemoveByCategory(ctx context.Context, categoryID int64) (int64, error)
}
