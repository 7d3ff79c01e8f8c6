package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Categorias-api/internal/application/dto"
	"github.com/jhoicas/Categorias-api/internal/application/usecase"
	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
	"github.com/jhoicas/Categorias-api/internal/infrastructure/memory"
)

func newCategoryUseCase(t *testing.T, policy usecase.DeletePolicy) (*usecase.CategoryUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return usecase.NewCategoryUseCase(store.Categories(), store, policy), store
}

func create(t *testing.T, uc *usecase.CategoryUseCase, name string, upper *int64) *dto.CategoryResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: name, UpperCategoryID: upper})
	require.NoError(t, err)
	require.NotZero(t, out.ID, "el almacenamiento asigna el ID")
	return out
}

func lowerIDs(t *testing.T, uc *usecase.CategoryUseCase, id int64) []int64 {
	t.Helper()
	out, err := uc.ListLowerCategories(context.Background(), id)
	require.NoError(t, err)
	ids := make([]int64, 0, len(out.Items))
	for _, c := range out.Items {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestCategory_CrearRaizYSubcategoria(t *testing.T) {
	uc, _ := newCategoryUseCase(t, usecase.DeleteRestrict)
	ctx := context.Background()

	a := create(t, uc, "A", nil)
	assert.Nil(t, a.UpperCategoryID)

	b := create(t, uc, "B", &a.ID)
	require.NotNil(t, b.UpperCategoryID)
	assert.Equal(t, a.ID, *b.UpperCategoryID)
	assert.Equal(t, []int64{b.ID}, lowerIDs(t, uc, a.ID))

	detail, err := uc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.UpperCategory)
	assert.Equal(t, a.ID, detail.UpperCategory.ID)
	assert.Empty(t, detail.LowerCategories)
}

func TestCategory_RaizNuevaNoApareceComoSubcategoria(t *testing.T) {
	uc, _ := newCategoryUseCase(t, usecase.DeleteRestrict)
	a := create(t, uc, "A", nil)
	create(t, uc, "A1", &a.ID)
	r := create(t, uc, "Suelta", nil)

	assert.NotContains(t, lowerIDs(t, uc, a.ID), r.ID)

	roots, err := uc.ListRoots(context.Background())
	require.NoError(t, err)
	var rootIDs []int64
	for _, c := range roots.Items {
		rootIDs = append(rootIDs, c.ID)
	}
	assert.ElementsMatch(t, []int64{a.ID, r.ID}, rootIDs)
}

func TestCategory_CrearValidaEntrada(t *testing.T) {
	uc, _ := newCategoryUseCase(t, usecase.DeleteRestrict)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := int64(999)
	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "X", UpperCategoryID: &missing})
	assert.ErrorIs(t, err, domain.ErrUpperCategoryNotFound)

	out := create(t, uc, "  Hogar  ", nil)
	assert.Equal(t, "Hogar", out.Name)
}

func TestCategory_MoverMantieneLadoInverso(t *testing.T) {
	uc, _ := newCategoryUseCase(t, usecase.DeleteRestrict)
	ctx := context.Background()
	a := create(t, uc, "A", nil)
	b := create(t, uc, "B", nil)
	c := create(t, uc, "C", &a.ID)

	moved, err := uc.SetUpperCategory(ctx, c.ID, &b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, *moved.UpperCategoryID)
	assert.Empty(t, lowerIDs(t, uc, a.ID), "quitar la única subcategoría deja la lista vacía")
	assert.Equal(t, []int64{c.ID}, lowerIDs(t, uc, b.ID))

	moved, err = uc.SetUpperCategory(ctx, c.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, moved.UpperCategoryID)
	assert.Empty(t, lowerIDs(t, uc, b.ID))
}

func TestCategory_MoverRechazaCiclos(t *testing.T) {
	uc, _ := newCategoryUseCase(t, usecase.DeleteRestrict)
	ctx := context.Background()
	a := create(t, uc, "A", nil)
	b := create(t, uc, "B", &a.ID)
	c := create(t, uc, "C", &b.ID)

	_, err := uc.SetUpperCategory(ctx, a.ID, &a.ID)
	assert.ErrorIs(t, err, domain.ErrCycle, "bajo sí misma")

	_, err = uc.SetUpperCategory(ctx, a.ID, &c.ID)
	assert.ErrorIs(t, err, domain.ErrCycle, "bajo una descendiente")

	missing := int64(404)
	_, err = uc.SetUpperCategory(ctx, c.ID, &missing)
	assert.ErrorIs(t, err, domain.ErrUpperCategoryNotFound)

	_, err = uc.SetUpperCategory(ctx, missing, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// el árbol quedó intacto
	path, err := uc.Path(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, path.Path, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{path.Path[0].Name, path.Path[1].Name, path.Path[2].Name})
}

func TestCategory_Renombrar(t *testing.T) {
	uc, _ := newCategoryUseCase(t, usecase.DeleteRestrict)
	ctx := context.Background()
	a := create(t, uc, "A", nil)

	name := " Jardín "
	out, err := uc.Rename(ctx, a.ID, dto.UpdateCategoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jardín", out.Name)

	empty := ""
	_, err = uc.Rename(ctx, a.ID, dto.UpdateCategoryRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Rename(ctx, 999, dto.UpdateCategoryRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// moveFirst ejecuta before una sola vez antes de guardar el nombre, como haría un
// movimiento confirmado por otra petición en ese instante.
type moveFirst struct {
	repository.CategoryRepository
	before func()
}

func (r *moveFirst) UpdateName(ctx context.Context, id int64, name string, updatedAt time.Time) error {
	if r.before != nil {
		r.before()
		r.before = nil
	}
	return r.CategoryRepository.UpdateName(ctx, id, name, updatedAt)
}

func TestCategory_RenombrarNoPisaMovimientoConcurrente(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	mover := usecase.NewCategoryUseCase(store.Categories(), store, usecase.DeleteRestrict)
	a := create(t, mover, "A", nil)
	b := create(t, mover, "B", nil)

	repo := &moveFirst{CategoryRepository: store.Categories()}
	repo.before = func() {
		_, err := mover.SetUpperCategory(ctx, a.ID, &b.ID)
		require.NoError(t, err)
	}
	renamer := usecase.NewCategoryUseCase(repo, store, usecase.DeleteRestrict)

	name := "A2"
	out, err := renamer.Rename(ctx, a.ID, dto.UpdateCategoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "A2", out.Name)
	require.NotNil(t, out.UpperCategoryID, "la respuesta refleja el movimiento")
	assert.Equal(t, b.ID, *out.UpperCategoryID)

	assert.Equal(t, []int64{a.ID}, lowerIDs(t, mover, b.ID))
	detail, err := mover.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.UpperCategory)
	assert.Equal(t, b.ID, detail.UpperCategory.ID)
	assert.Equal(t, "A2", detail.Name)
}

func TestCategory_NombreMaximo200Caracteres(t *testing.T) {
	uc, _ := newCategoryUseCase(t, usecase.DeleteRestrict)
	ctx := context.Background()

	ok := strings.Repeat("ñ", 200)
	out := create(t, uc, ok, nil)
	assert.Equal(t, ok, out.Name)

	long := strings.Repeat("ñ", 201)
	_, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: long})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Rename(ctx, out.ID, dto.UpdateCategoryRequest{Name: &long})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Import(ctx, []tree.Draft{{Name: "Raíz", Lower: []tree.Draft{{Name: long}}}}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	full, err := uc.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, full.Total, "la importación rechazada no crea nada")
}

func TestCategory_Arbol(t *testing.T) {
	uc, _ := newCategoryUseCase(t, usecase.DeleteRestrict)
	a := create(t, uc, "Ropa", nil)
	create(t, uc, "Zapatos", &a.ID)
	create(t, uc, "Camisas", &a.ID)
	create(t, uc, "Libros", nil)

	out, err := uc.Tree(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, out.Total)
	require.Len(t, out.Roots, 2)
	assert.Equal(t, "Libros", out.Roots[0].Name)
	assert.Equal(t, "Ropa", out.Roots[1].Name)
	require.Len(t, out.Roots[1].LowerCategories, 2)
	assert.Equal(t, "Camisas", out.Roots[1].LowerCategories[0].Name)
}

func TestCategory_BorrarRestrict(t *testing.T) {
	uc, _ := newCategoryUseCase(t, usecase.DeleteRestrict)
	ctx := context.Background()
	a := create(t, uc, "A", nil)
	b := create(t, uc, "B", &a.ID)

	err := uc.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryHasLowerCategories)

	require.NoError(t, uc.Delete(ctx, b.ID))
	assert.Empty(t, lowerIDs(t, uc, a.ID))
	require.NoError(t, uc.Delete(ctx, a.ID))

	_, err = uc.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, a.ID), domain.ErrNotFound)
}

func TestCategory_BorrarReparent(t *testing.T) {
	uc, _ := newCategoryUseCase(t, usecase.DeleteReparent)
	ctx := context.Background()
	a := create(t, uc, "A", nil)
	b := create(t, uc, "B", &a.ID)
	c1 := create(t, uc, "C1", &b.ID)
	c2 := create(t, uc, "C2", &b.ID)

	require.NoError(t, uc.Delete(ctx, b.ID))
	assert.ElementsMatch(t, []int64{c1.ID, c2.ID}, lowerIDs(t, uc, a.ID))

	// borrar una raíz con subcategorías las convierte en raíces
	require.NoError(t, uc.Delete(ctx, a.ID))
	roots, err := uc.ListRoots(ctx)
	require.NoError(t, err)
	assert.Len(t, roots.Items, 2)
}

func TestCategory_BorrarConservaArticulos(t *testing.T) {
	uc, store := newCategoryUseCase(t, usecase.DeleteRestrict)
	ctx := context.Background()
	items := usecase.NewItemUseCase(store.Items())
	links := usecase.NewCategoryItemUseCase(store.Categories(), store.Items(), store.CategoryItems())

	a := create(t, uc, "A", nil)
	it, err := items.Create(ctx, dto.CreateItemRequest{Name: "Lápiz"})
	require.NoError(t, err)
	_, err = links.AddItem(ctx, a.ID, it.ID)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, a.ID))

	_, err = items.GetByID(ctx, it.ID)
	require.NoError(t, err, "el artículo sobrevive al borrado de la categoría")
	cats, err := links.ListCategoriesOfItem(ctx, it.ID)
	require.NoError(t, err)
	assert.Empty(t, cats.Items)
}

func TestCategory_ImportarEsAtomico(t *testing.T) {
	uc, _ := newCategoryUseCase(t, usecase.DeleteRestrict)
	ctx := context.Background()
	base := create(t, uc, "Base", nil)

	out, err := uc.Import(ctx, []tree.Draft{
		{Name: "Electrónica", Lower: []tree.Draft{{Name: "Audio"}, {Name: "Video"}}},
	}, &base.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Created)
	require.Len(t, out.Roots, 1)
	assert.Equal(t, base.ID, *out.Roots[0].UpperCategoryID)

	_, err = uc.Import(ctx, []tree.Draft{
		{Name: "Deportes", Lower: []tree.Draft{{Name: " "}}},
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	full, err := uc.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, full.Total, "la importación fallida no deja categorías a medias")
}

func TestParseDeletePolicy(t *testing.T) {
	p, err := usecase.ParseDeletePolicy("")
	require.NoError(t, err)
	assert.Equal(t, usecase.DeleteRestrict, p)

	p, err = usecase.ParseDeletePolicy(" Reparent ")
	require.NoError(t, err)
	assert.Equal(t, usecase.DeleteReparent, p)

	_, err = usecase.ParseDeletePolicy("cascade")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
