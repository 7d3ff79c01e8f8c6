package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/entity"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
)

func cat(id int64, name string, upper ...int64) *entity.Category {
	c := &entity.Category{ID: id, Name: name}
	if len(upper) > 0 {
		c.SetUpperCategoryID(&upper[0])
	}
	return c
}

func ids(cs []*entity.Category) []int64 {
	out := make([]int64, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestIndex_LowerEsInversoDeUpper(t *testing.T) {
	ix := tree.NewIndex([]*entity.Category{
		cat(1, "Libros"),
		cat(2, "Novela", 1),
		cat(3, "Ensayo", 1),
		cat(4, "Música"),
	})

	assert.Equal(t, []int64{3, 2}, ids(ix.Lower(1)), "Ensayo antes que Novela")
	assert.Empty(t, ix.Lower(4))
	assert.Equal(t, []int64{1, 4}, ids(ix.Roots()))

	for _, c := range ix.All() {
		if c.UpperCategoryID == nil {
			continue
		}
		assert.Contains(t, ids(ix.Lower(*c.UpperCategoryID)), c.ID)
	}
}

func TestIndex_PutMueveEntreCategoriasSuperiores(t *testing.T) {
	ix := tree.NewIndex([]*entity.Category{cat(1, "A"), cat(2, "B"), cat(3, "C", 1)})

	ix.Put(cat(3, "C", 2))

	assert.Empty(t, ix.Lower(1), "la categoría vieja ya no la lista")
	assert.Equal(t, []int64{3}, ids(ix.Lower(2)))

	ix.Put(cat(3, "C"))
	assert.Empty(t, ix.Lower(2))
	assert.Equal(t, []int64{1, 2, 3}, ids(ix.Roots()))
}

func TestIndex_RemoveUnicoHijoDejaVacio(t *testing.T) {
	ix := tree.NewIndex([]*entity.Category{cat(1, "A"), cat(2, "B", 1)})
	ix.Remove(2)

	assert.Empty(t, ix.Lower(1))
	_, ok := ix.Get(2)
	assert.False(t, ok)
	assert.Equal(t, 1, ix.Len())
}

func TestIndex_AncestorsYDescendientes(t *testing.T) {
	ix := tree.NewIndex([]*entity.Category{
		cat(1, "Raíz"),
		cat(2, "Nivel 1", 1),
		cat(3, "Nivel 2", 2),
	})

	chain, err := ix.Ancestors(3)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(chain))

	assert.True(t, ix.IsDescendant(3, 1))
	assert.False(t, ix.IsDescendant(1, 3))
	assert.False(t, ix.IsDescendant(1, 1))

	_, err = ix.Ancestors(99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndex_AncestorsDetectaCiclo(t *testing.T) {
	ix := tree.NewIndex([]*entity.Category{cat(1, "A", 2), cat(2, "B", 1)})

	_, err := ix.Ancestors(1)
	assert.ErrorIs(t, err, domain.ErrCycle)
}

func TestBuild_Bosque(t *testing.T) {
	forest, err := tree.Build([]*entity.Category{
		cat(1, "Zapatos"),
		cat(2, "Árboles"),
		cat(3, "Botas", 1),
		cat(4, "Sandalias", 1),
		cat(5, "Botas de agua", 3),
	})
	require.NoError(t, err)
	require.Len(t, forest, 2)

	assert.Equal(t, "Árboles", forest[0].Category.Name, "la intercalación ignora la tilde al ordenar")
	assert.Equal(t, "Zapatos", forest[1].Category.Name)
	assert.Equal(t, 4, forest[1].Size())

	var visited []string
	var depths []int
	tree.Walk(forest, func(n *tree.Node, depth int) {
		visited = append(visited, n.Category.Name)
		depths = append(depths, depth)
	})
	assert.Equal(t, []string{"Árboles", "Zapatos", "Botas", "Botas de agua", "Sandalias"}, visited)
	assert.Equal(t, []int{0, 0, 1, 2, 1}, depths)
}

func TestBuild_SuperiorInexistente(t *testing.T) {
	_, err := tree.Build([]*entity.Category{cat(1, "A", 42)})
	assert.ErrorIs(t, err, domain.ErrUpperCategoryNotFound)
}

func TestBuild_Ciclo(t *testing.T) {
	_, err := tree.Build([]*entity.Category{cat(1, "Raíz"), cat(2, "A", 3), cat(3, "B", 2)})
	assert.ErrorIs(t, err, domain.ErrCycle)
}

