package entity

import "time"

// Category representa un nodo del árbol de categorías.
// Solo se guarda la referencia a la categoría superior; las subcategorías se calculan
// consultando quién apunta a este nodo (no existe una lista propia que pueda desincronizarse).
type Category struct {
	ID              int64 // asignado por el almacenamiento al persistir; 0 = aún sin persistir
	Name            string
	UpperCategoryID *int64 // nil si es raíz
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewCategory construye una categoría sin identificador, opcionalmente bajo upperID.
func NewCategory(name string, upperID *int64) *Category {
	now := time.Now()
	c := &Category{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.SetUpperCategoryID(upperID)
	return c
}

// SetUpperCategoryID copia el puntero para que el llamador no comparta estado con la entidad.
func (c *Category) SetUpperCategoryID(upperID *int64) {
	if upperID == nil {
		c.UpperCategoryID = nil
		return
	}
	id := *upperID
	c.UpperCategoryID = &id
}

// Clone devuelve una copia independiente.
func (c *Category) Clone() *Category {
	cp := *c
	cp.SetUpperCategoryID(c.UpperCategoryID)
	return &cp
}
