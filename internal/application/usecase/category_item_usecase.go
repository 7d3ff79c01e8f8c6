package usecase

import (
	"context"

	"github.com/jhoicas/Categorias-api/internal/application/dto"
	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
)

// CategoryItemUseCase administra qué artículos pertenecen a qué categorías.
// La asociación se guarda solo en category_item; ni la categoría ni el artículo tienen lista propia.
type CategoryItemUseCase struct {
	categories repository.CategoryRepository
	items      repository.ItemRepository
	links      repository.CategoryItemRepository
}

// NewCategoryItemUseCase construye el caso de uso.
func NewCategoryItemUseCase(
	categories repository.CategoryRepository,
	items repository.ItemRepository,
	links repository.CategoryItemRepository,
) *CategoryItemUseCase {
	return &CategoryItemUseCase{categories: categories, items: items, links: links}
}

// AddItem asocia el artículo a la categoría. Repetir la llamada no duplica la asociación.
func (uc *CategoryItemUseCase) AddItem(ctx context.Context, categoryID, itemID int64) (*dto.AssociationResponse, error) {
	if err := uc.ensureBoth(ctx, categoryID, itemID); err != nil {
		return nil, err
	}
	added, err := uc.links.Add(ctx, categoryID, itemID)
	if err != nil {
		return nil, err
	}
	return &dto.AssociationResponse{CategoryID: categoryID, ItemID: itemID, Changed: added}, nil
}

// RemoveItem quita la asociación; si no existía devuelve Changed=false.
func (uc *CategoryItemUseCase) RemoveItem(ctx context.Context, categoryID, itemID int64) (*dto.AssociationResponse, error) {
	if err := uc.ensureBoth(ctx, categoryID, itemID); err != nil {
		return nil, err
	}
	removed, err := uc.links.Remove(ctx, categoryID, itemID)
	if err != nil {
		return nil, err
	}
	return &dto.AssociationResponse{CategoryID: categoryID, ItemID: itemID, Changed: removed}, nil
}

// ListItems lista los artículos de la categoría.
func (uc *CategoryItemUseCase) ListItems(ctx context.Context, categoryID int64) (*dto.CategoryItemsResponse, error) {
	if err := uc.ensureCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	items, err := uc.links.ListItems(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryItemsResponse{CategoryID: categoryID, Items: toItemResponses(items)}, nil
}

// ListCategoriesOfItem lista las categorías a las que pertenece el artículo.
func (uc *CategoryItemUseCase) ListCategoriesOfItem(ctx context.Context, itemID int64) (*dto.CategoryListResponse, error) {
	if err := uc.ensureItem(ctx, itemID); err != nil {
		return nil, err
	}
	categories, err := uc.links.ListCategories(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryListResponse{Items: toCategoryResponses(categories)}, nil
}

func (uc *CategoryItemUseCase) ensureBoth(ctx context.Context, categoryID, itemID int64) error {
	if err := uc.ensureCategory(ctx, categoryID); err != nil {
		return err
	}
	return uc.ensureItem(ctx, itemID)
}

func (uc *CategoryItemUseCase) ensureCategory(ctx context.Context, id int64) error {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *CategoryItemUseCase) ensureItem(ctx context.Context, id int64) error {
	i, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if i == nil {
		return domain.ErrNotFound
	}
	return nil
}
