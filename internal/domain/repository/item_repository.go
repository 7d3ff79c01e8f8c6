package repository

import (
	"context"

	"github.com/jhoicas/Categorias-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	// Delete elimina el artículo y sus filas en category_item.
	Delete(ctx context.Context, id int64) error
}
