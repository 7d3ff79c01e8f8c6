package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/Categorias-api/internal/application/dto"
	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/entity"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
)

// DeletePolicy qué hacer con las subcategorías al borrar una categoría.
type DeletePolicy string

const (
	// DeleteRestrict rechaza el borrado si hay subcategorías.
	DeleteRestrict DeletePolicy = "restrict"
	// DeleteReparent mueve las subcategorías a la categoría superior de la borrada (o a raíz).
	DeleteReparent DeletePolicy = "reparent"
)

// ParseDeletePolicy valida el valor de configuración; vacío equivale a restrict.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DeleteRestrict:
		return DeleteRestrict, nil
	case DeleteReparent:
		return DeleteReparent, nil
	default:
		return "", fmt.Errorf("política de borrado desconocida %q: %w", s, domain.ErrInvalidInput)
	}
}

// CategoryUseCase casos de uso del árbol de categorías.
// Solo se escribe UpperCategoryID; las subcategorías se leen siempre del lado inverso.
type CategoryUseCase struct {
	repo   repository.CategoryRepository
	tx     TxRunner
	policy DeletePolicy
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, tx TxRunner, policy DeletePolicy) *CategoryUseCase {
	if policy == "" {
		policy = DeleteRestrict
	}
	return &CategoryUseCase{repo: repo, tx: tx, policy: policy}
}

// Policy devuelve la política de borrado en uso.
func (uc *CategoryUseCase) Policy() DeletePolicy { return uc.policy }

// Create crea una categoría sin ID (lo asigna el almacenamiento), opcionalmente bajo in.UpperCategoryID.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.UpperCategoryID != nil {
		upper, err := uc.repo.GetByID(ctx, *in.UpperCategoryID)
		if err != nil {
			return nil, err
		}
		if upper == nil {
			return nil, domain.ErrUpperCategoryNotFound
		}
	}
	category := entity.NewCategory(name, in.UpperCategoryID)
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// GetByID obtiene la categoría con su categoría superior y sus subcategorías directas.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id int64) (*dto.CategoryDetailResponse, error) {
	category, err := uc.mustGet(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	out := &dto.CategoryDetailResponse{CategoryResponse: *toCategoryResponse(category)}
	if category.UpperCategoryID != nil {
		upper, err := uc.repo.GetByID(ctx, *category.UpperCategoryID)
		if err != nil {
			return nil, err
		}
		out.UpperCategory = toCategoryResponse(upper)
	}
	lower, err := uc.repo.ListByUpper(ctx, id)
	if err != nil {
		return nil, err
	}
	out.LowerCategories = toCategoryResponses(lower)
	return out, nil
}

// Rename cambia el nombre de la categoría. Solo escribe el nombre, así un movimiento
// concurrente no se pierde; la respuesta se lee después de guardar.
func (uc *CategoryUseCase) Rename(ctx context.Context, id int64, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		if err := uc.repo.UpdateName(ctx, id, name, time.Now()); err != nil {
			return nil, err
		}
	}
	category, err := uc.mustGet(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// SetUpperCategory mueve la categoría bajo upperID; nil la convierte en raíz.
// Rechaza con ErrCycle que la categoría quede bajo sí misma o bajo una de sus descendientes.
func (uc *CategoryUseCase) SetUpperCategory(ctx context.Context, id int64, upperID *int64) (*dto.CategoryResponse, error) {
	var moved *entity.Category
	err := uc.tx.Run(ctx, func(categories repository.CategoryRepository, _ repository.CategoryItemRepository) error {
		category, err := uc.mustGet(ctx, categories, id)
		if err != nil {
			return err
		}
		if upperID != nil {
			if *upperID == id {
				return domain.ErrCycle
			}
			upper, err := categories.GetByID(ctx, *upperID)
			if err != nil {
				return err
			}
			if upper == nil {
				return domain.ErrUpperCategoryNotFound
			}
			ancestors, err := categories.ListAncestors(ctx, *upperID)
			if err != nil {
				return err
			}
			for _, a := range ancestors {
				if a.ID == id {
					return domain.ErrCycle
				}
			}
		}
		if sameUpper(category.UpperCategoryID, upperID) {
			moved = category
			return nil
		}
		category.SetUpperCategoryID(upperID)
		category.UpdatedAt = time.Now()
		if err := categories.Update(ctx, category); err != nil {
			return err
		}
		moved = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(moved), nil
}

// ListRoots lista las categorías raíz.
func (uc *CategoryUseCase) ListRoots(ctx context.Context) (*dto.CategoryListResponse, error) {
	roots, err := uc.repo.ListRoots(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryListResponse{Items: toCategoryResponses(roots)}, nil
}

// ListLowerCategories lista las subcategorías directas de la categoría.
func (uc *CategoryUseCase) ListLowerCategories(ctx context.Context, id int64) (*dto.CategoryListResponse, error) {
	if _, err := uc.mustGet(ctx, uc.repo, id); err != nil {
		return nil, err
	}
	lower, err := uc.repo.ListByUpper(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryListResponse{Items: toCategoryResponses(lower)}, nil
}

// Path devuelve la cadena raíz → categoría.
func (uc *CategoryUseCase) Path(ctx context.Context, id int64) (*dto.CategoryPathResponse, error) {
	category, err := uc.mustGet(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	ancestors, err := uc.repo.ListAncestors(ctx, id)
	if err != nil {
		return nil, err
	}
	path := make([]dto.CategoryResponse, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		path = append(path, *toCategoryResponse(ancestors[i]))
	}
	path = append(path, *toCategoryResponse(category))
	return &dto.CategoryPathResponse{Path: path}, nil
}

// Forest arma el bosque completo de categorías.
func (uc *CategoryUseCase) Forest(ctx context.Context) ([]*tree.Node, error) {
	all, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Build(all)
}

// Tree devuelve el bosque completo anidado.
func (uc *CategoryUseCase) Tree(ctx context.Context) (*dto.CategoryTreeResponse, error) {
	forest, err := uc.Forest(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.CategoryTreeResponse{Roots: toTreeNodes(forest)}
	for _, n := range forest {
		out.Total += n.Size()
	}
	return out, nil
}

// Delete borra la categoría según la política configurada. Sus filas en category_item se eliminan;
// los artículos nunca se borran.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) error {
	return uc.tx.Run(ctx, func(categories repository.CategoryRepository, links repository.CategoryItemRepository) error {
		category, err := uc.mustGet(ctx, categories, id)
		if err != nil {
			return err
		}
		lower, err := categories.ListByUpper(ctx, id)
		if err != nil {
			return err
		}
		if len(lower) > 0 {
			if uc.policy != DeleteReparent {
				return domain.ErrCategoryHasLowerCategories
			}
			if _, err := categories.ReassignUpper(ctx, id, category.UpperCategoryID); err != nil {
				return err
			}
		}
		if _, err := links.RemoveByCategory(ctx, id); err != nil {
			return err
		}
		return categories.Delete(ctx, id)
	})
}

// Import crea las ramas en una sola transacción, colgando las raíces de upperID (nil = raíz).
func (uc *CategoryUseCase) Import(ctx context.Context, drafts []tree.Draft, upperID *int64) (*dto.ImportCategoriesResponse, error) {
	if len(drafts) == 0 {
		return nil, fmt.Errorf("importación vacía: %w", domain.ErrInvalidInput)
	}
	out := &dto.ImportCategoriesResponse{}
	err := uc.tx.Run(ctx, func(categories repository.CategoryRepository, _ repository.CategoryItemRepository) error {
		if upperID != nil {
			upper, err := categories.GetByID(ctx, *upperID)
			if err != nil {
				return err
			}
			if upper == nil {
				return domain.ErrUpperCategoryNotFound
			}
		}
		var create func(d tree.Draft, upper *int64) (*entity.Category, error)
		create = func(d tree.Draft, upper *int64) (*entity.Category, error) {
			name, err := normalizeName(d.Name)
			if err != nil {
				return nil, err
			}
			c := entity.NewCategory(name, upper)
			if err := categories.Create(ctx, c); err != nil {
				return nil, err
			}
			out.Created++
			for _, l := range d.Lower {
				if _, err := create(l, &c.ID); err != nil {
					return nil, err
				}
			}
			return c, nil
		}
		for _, d := range drafts {
			root, err := create(d, upperID)
			if err != nil {
				return err
			}
			out.Roots = append(out.Roots, *toCategoryResponse(root))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *CategoryUseCase) mustGet(ctx context.Context, repo repository.CategoryRepository, id int64) (*entity.Category, error) {
	category, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	return category, nil
}

// maxNameLength límite de caracteres (runas) para nombres de categorías y artículos.
const maxNameLength = 200

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name es requerido: %w", domain.ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(name); n > maxNameLength {
		return "", fmt.Errorf("name tiene %d caracteres (máximo %d): %w", n, maxNameLength, domain.ErrInvalidInput)
	}
	return name, nil
}

func sameUpper(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	out := &dto.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.UpperCategoryID != nil {
		upper := *c.UpperCategoryID
		out.UpperCategoryID = &upper
	}
	return out
}

func toCategoryResponses(list []*entity.Category) []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out
}

func toTreeNodes(nodes []*tree.Node) []dto.CategoryTreeNode {
	out := make([]dto.CategoryTreeNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, dto.CategoryTreeNode{
			ID:              n.Category.ID,
			Name:            n.Category.Name,
			LowerCategories: toTreeNodes(n.Lower),
		})
	}
	return out
}
