package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría (raíz si UpperCategoryID es nil).
type CreateCategoryRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=200"`
	UpperCategoryID *int64 `json:"upper_category_id" validate:"omitempty,min=1"`
}

// UpdateCategoryRequest entrada para renombrar una categoría.
type UpdateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
}

// SetUpperCategoryRequest entrada para mover una categoría. null la convierte en raíz.
type SetUpperCategoryRequest struct {
	UpperCategoryID *int64 `json:"upper_category_id" validate:"omitempty,min=1"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	UpperCategoryID *int64    `json:"upper_category_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CategoryDetailResponse categoría con su categoría superior y subcategorías directas.
type CategoryDetailResponse struct {
	CategoryResponse
	UpperCategory   *CategoryResponse  `json:"upper_category,omitempty"`
	LowerCategories []CategoryResponse `json:"lower_categories"`
}

// CategoryListResponse lista de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
}

// CategoryTreeNode nodo del árbol anidado.
type CategoryTreeNode struct {
	ID              int64              `json:"id"`
	Name            string             `json:"name"`
	LowerCategories []CategoryTreeNode `json:"lower_categories"`
}

// CategoryTreeResponse bosque completo de categorías.
type CategoryTreeResponse struct {
	Roots []CategoryTreeNode `json:"roots"`
	Total int                `json:"total"`
}

// CategoryPathResponse migas de pan desde la raíz hasta la categoría (incluida).
type CategoryPathResponse struct {
	Path []CategoryResponse `json:"path"`
}

// ImportCategoriesResponse resultado de una importación de árbol.
type ImportCategoriesResponse struct {
	Created int                `json:"created"`
	Roots   []CategoryResponse `json:"roots"`
}
