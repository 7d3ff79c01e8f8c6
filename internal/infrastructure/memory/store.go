// Package memory implementa los puertos de persistencia en memoria.
//
// Las categorías viven en un tree.Index (categorías por ID + índice inverso de subcategorías),
// los artículos en un mapa y la tabla intermedia como un conjunto de pares (categoría, artículo).
// Los IDs los asigna el store con contadores monótonos.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Categorias-api/internal/application/usecase"
	"github.com/jhoicas/Categorias-api/internal/domain/entity"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
)

var _ usecase.TxRunner = (*Store)(nil)

type link struct {
	categoryID int64
	itemID     int64
}

type state struct {
	categories     *tree.Index
	items          map[int64]*entity.Item
	links          map[link]time.Time
	nextCategoryID int64
	nextItemID     int64
}

func newState() *state {
	return &state{
		categories: tree.NewIndex(nil),
		items:      make(map[int64]*entity.Item),
		links:      make(map[link]time.Time),
	}
}

func (st *state) clone() *state {
	all := st.categories.All()
	cats := make([]*entity.Category, 0, len(all))
	for _, c := range all {
		cats = append(cats, c.Clone())
	}
	cp := &state{
		categories:     tree.NewIndex(cats),
		items:          make(map[int64]*entity.Item, len(st.items)),
		links:          make(map[link]time.Time, len(st.links)),
		nextCategoryID: st.nextCategoryID,
		nextItemID:     st.nextItemID,
	}
	for id, it := range st.items {
		itCopy := *it
		cp.items[id] = &itCopy
	}
	for k, v := range st.links {
		cp.links[k] = v
	}
	return cp
}

// Store es el almacenamiento en memoria. Es seguro para uso concurrente: cada operación
// toma el mutex, y Run ejecuta la transacción sobre una copia que reemplaza al estado solo si fn no falla.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Categories devuelve el repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{v: view{s: s}} }

// Items devuelve el repositorio de artículos.
func (s *Store) Items() *ItemRepo { return &ItemRepo{v: view{s: s}} }

// CategoryItems devuelve el repositorio de la tabla intermedia.
func (s *Store) CategoryItems() *CategoryItemRepo { return &CategoryItemRepo{v: view{s: s}} }

// Run ejecuta fn con repositorios atados a una copia del estado y la confirma si fn termina sin error.
func (s *Store) Run(ctx context.Context, fn func(
	categories repository.CategoryRepository,
	links repository.CategoryItemRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	v := view{s: s, tx: tx}
	if err := fn(&CategoryRepo{v: v}, &CategoryItemRepo{v: v}); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// view decide sobre qué estado opera un repositorio: el de una transacción en curso
// (el mutex ya lo tiene Run) o el estado vivo, tomando el mutex.
type view struct {
	s  *Store
	tx *state
}

func (v view) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.st)
}

func cloneAll(cs []*entity.Category) []*entity.Category {
	out := make([]*entity.Category, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Clone())
	}
	return out
}
