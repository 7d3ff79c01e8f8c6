package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")

	// ErrFormatUnavailable el formato de exportación no está configurado.
	ErrFormatUnavailable = errors.New("formato no disponible")

	// Jerarquía de categorías.
	ErrUpperCategoryNotFound      = errors.New("la categoría superior no existe")
	ErrCycle                      = errors.New("la categoría superior no puede ser la misma categoría ni una de sus descendientes")
	ErrCategoryHasLowerCategories = errors.New("la categoría tiene subcategorías")
)
