package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Categorias-api/internal/application/dto"
	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/entity"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para artículos del catálogo.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un artículo. Precio y stock no pueden ser negativos.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("price no puede ser negativo: %w", domain.ErrInvalidInput)
	}
	if in.StockQuantity < 0 {
		return nil, fmt.Errorf("stock_quantity no puede ser negativo: %w", domain.ErrInvalidInput)
	}
	now := time.Now()
	item := &entity.Item{
		Name:          name,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	item, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Update actualiza los campos presentes en la petición.
func (uc *ItemUseCase) Update(ctx context.Context, id int64, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		item.Name = name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("price no puede ser negativo: %w", domain.ErrInvalidInput)
		}
		item.Price = *in.Price
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return nil, fmt.Errorf("stock_quantity no puede ser negativo: %w", domain.ErrInvalidInput)
		}
		item.StockQuantity = *in.StockQuantity
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista artículos con paginación.
func (uc *ItemUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.ItemListResponse{
		Items: toItemResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina el artículo; sus asociaciones con categorías desaparecen con él.
func (uc *ItemUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.mustGet(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ItemUseCase) mustGet(ctx context.Context, id int64) (*entity.Item, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:            i.ID,
		Name:          i.Name,
		Price:         i.Price,
		StockQuantity: i.StockQuantity,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func toItemResponses(list []*entity.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(list))
	for _, i := range list {
		out = append(out, *toItemResponse(i))
	}
	return out
}
