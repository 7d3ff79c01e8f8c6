// Package tree arma y recorre la jerarquía de categorías en memoria.
//
// Solo UpperCategoryID es fuente de verdad. El índice mantiene, por cada categoría superior,
// el conjunto de IDs de sus subcategorías; las subcategorías nunca se guardan en la entidad.
package tree

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/entity"
)

// Node es una categoría con sus subcategorías ya resueltas.
type Node struct {
	Category *entity.Category
	Lower    []*Node
}

// Size cuenta el nodo y todos sus descendientes.
func (n *Node) Size() int {
	total := 1
	for _, l := range n.Lower {
		total += l.Size()
	}
	return total
}

// Walk recorre en preorden; depth es 0 para el nodo inicial.
func Walk(nodes []*Node, fn func(n *Node, depth int)) {
	var visit func(ns []*Node, depth int)
	visit = func(ns []*Node, depth int) {
		for _, n := range ns {
			fn(n, depth)
			visit(n.Lower, depth+1)
		}
	}
	visit(nodes, 0)
}

// Draft es una rama aún no persistida (importación XML, seed).
type Draft struct {
	Name  string
	Lower []Draft
}

// Index guarda las categorías por ID y el índice inverso categoría superior -> subcategorías.
// No es seguro para uso concurrente.
type Index struct {
	byID  map[int64]*entity.Category
	lower map[int64]map[int64]struct{}
	roots map[int64]struct{}
}

// NewIndex construye el índice. Las categorías se guardan tal cual (sin copiar).
func NewIndex(categories []*entity.Category) *Index {
	ix := &Index{
		byID:  make(map[int64]*entity.Category, len(categories)),
		lower: make(map[int64]map[int64]struct{}),
		roots: make(map[int64]struct{}),
	}
	for _, c := range categories {
		ix.Put(c)
	}
	return ix
}

// Len número de categorías indexadas.
func (ix *Index) Len() int { return len(ix.byID) }

// Get busca una categoría por ID.
func (ix *Index) Get(id int64) (*entity.Category, bool) {
	c, ok := ix.byID[id]
	return c, ok
}

// Put inserta o reemplaza la categoría y actualiza el índice inverso en el lado viejo y en el nuevo.
func (ix *Index) Put(c *entity.Category) {
	if prev, ok := ix.byID[c.ID]; ok {
		ix.unlink(prev)
	}
	ix.byID[c.ID] = c
	if c.UpperCategoryID == nil {
		ix.roots[c.ID] = struct{}{}
		return
	}
	set, ok := ix.lower[*c.UpperCategoryID]
	if !ok {
		set = make(map[int64]struct{})
		ix.lower[*c.UpperCategoryID] = set
	}
	set[c.ID] = struct{}{}
}

// Remove quita la categoría del índice. Sus subcategorías quedan apuntando a un ID inexistente;
// el llamador decide antes qué hacer con ellas.
func (ix *Index) Remove(id int64) {
	c, ok := ix.byID[id]
	if !ok {
		return
	}
	ix.unlink(c)
	delete(ix.byID, id)
}

func (ix *Index) unlink(c *entity.Category) {
	if c.UpperCategoryID == nil {
		delete(ix.roots, c.ID)
		return
	}
	if set, ok := ix.lower[*c.UpperCategoryID]; ok {
		delete(set, c.ID)
		if len(set) == 0 {
			delete(ix.lower, *c.UpperCategoryID)
		}
	}
}

// Lower devuelve las subcategorías directas ordenadas por nombre.
func (ix *Index) Lower(id int64) []*entity.Category {
	return ix.collect(ix.lower[id])
}

// Roots devuelve las categorías raíz ordenadas por nombre.
func (ix *Index) Roots() []*entity.Category {
	return ix.collect(ix.roots)
}

// All devuelve todas las categorías ordenadas por nombre.
func (ix *Index) All() []*entity.Category {
	out := make([]*entity.Category, 0, len(ix.byID))
	for _, c := range ix.byID {
		out = append(out, c)
	}
	SortByName(out)
	return out
}

func (ix *Index) collect(set map[int64]struct{}) []*entity.Category {
	out := make([]*entity.Category, 0, len(set))
	for id := range set {
		if c, ok := ix.byID[id]; ok {
			out = append(out, c)
		}
	}
	SortByName(out)
	return out
}

// Ancestors devuelve la cadena desde la categoría superior directa de id hasta la raíz.
func (ix *Index) Ancestors(id int64) ([]*entity.Category, error) {
	c, ok := ix.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	var chain []*entity.Category
	seen := map[int64]struct{}{id: {}}
	for c.UpperCategoryID != nil {
		upperID := *c.UpperCategoryID
		if _, loop := seen[upperID]; loop {
			return nil, fmt.Errorf("categoría %d: %w", upperID, domain.ErrCycle)
		}
		upper, ok := ix.byID[upperID]
		if !ok {
			return nil, fmt.Errorf("categoría %d: %w", upperID, domain.ErrUpperCategoryNotFound)
		}
		seen[upperID] = struct{}{}
		chain = append(chain, upper)
		c = upper
	}
	return chain, nil
}

// IsDescendant indica si candidate está en el subárbol de ancestor (sin contar ancestor).
func (ix *Index) IsDescendant(candidate, ancestor int64) bool {
	chain, err := ix.Ancestors(candidate)
	if err != nil {
		return false
	}
	for _, c := range chain {
		if c.ID == ancestor {
			return true
		}
	}
	return false
}

// Forest arma el bosque completo desde las raíces.
// Falla si alguna categoría apunta a una superior inexistente o forma un ciclo.
func (ix *Index) Forest() ([]*Node, error) {
	for _, c := range ix.byID {
		if c.UpperCategoryID != nil {
			if _, ok := ix.byID[*c.UpperCategoryID]; !ok {
				return nil, fmt.Errorf("categoría %d: %w", c.ID, domain.ErrUpperCategoryNotFound)
			}
		}
	}
	reached := 0
	var build func(c *entity.Category) *Node
	build = func(c *entity.Category) *Node {
		reached++
		n := &Node{Category: c}
		for _, l := range ix.Lower(c.ID) {
			n.Lower = append(n.Lower, build(l))
		}
		return n
	}
	roots := ix.Roots()
	forest := make([]*Node, 0, len(roots))
	for _, r := range roots {
		forest = append(forest, build(r))
	}
	// Lo que no se alcanza desde una raíz solo puede estar en un ciclo.
	if reached != len(ix.byID) {
		return nil, domain.ErrCycle
	}
	return forest, nil
}

// Build arma el bosque a partir de la lista plana.
func Build(categories []*entity.Category) ([]*Node, error) {
	return NewIndex(categories).Forest()
}

// SortByName ordena por nombre con reglas de intercalación en español y luego por ID.
func SortByName(categories []*entity.Category) {
	col := collate.New(language.Spanish)
	sort.SliceStable(categories, func(i, j int) bool {
		if cmp := col.CompareString(categories[i].Name, categories[j].Name); cmp != 0 {
			return cmp < 0
		}
		return categories[i].ID < categories[j].ID
	})
}
