package usecase_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Categorias-api/internal/application/dto"
	"github.com/jhoicas/Categorias-api/internal/application/usecase"
	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
	"github.com/jhoicas/Categorias-api/internal/infrastructure/memory"
)

type fakePDF struct {
	forest []*tree.Node
	counts map[int64]int
}

func (f *fakePDF) GenerateTreePDF(_ context.Context, forest []*tree.Node, counts map[int64]int) ([]byte, error) {
	f.forest, f.counts = forest, counts
	return []byte("%PDF-fake"), nil
}

// fakeXML escribe un nombre por línea y lee ramas de un nivel.
type fakeXML struct{}

func (fakeXML) Encode(w io.Writer, forest []*tree.Node) error {
	var err error
	tree.Walk(forest, func(n *tree.Node, depth int) {
		if err == nil {
			_, err = io.WriteString(w, strings.Repeat("-", depth)+n.Category.Name+"\n")
		}
	})
	return err
}

func (fakeXML) Decode(r io.Reader) ([]tree.Draft, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var out []tree.Draft
	for _, line := range strings.Fields(string(raw)) {
		out = append(out, tree.Draft{Name: line})
	}
	return out, nil
}

func TestReport_ExportaEImporta(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	categories := usecase.NewCategoryUseCase(store.Categories(), store, usecase.DeleteRestrict)
	items := usecase.NewItemUseCase(store.Items())
	links := usecase.NewCategoryItemUseCase(store.Categories(), store.Items(), store.CategoryItems())
	pdf := &fakePDF{}
	report := usecase.NewReportUseCase(categories, store.CategoryItems(), pdf, fakeXML{})

	a := create(t, categories, "A", nil)
	b := create(t, categories, "B", &a.ID)
	it, err := items.Create(ctx, dto.CreateItemRequest{Name: "I"})
	require.NoError(t, err)
	_, err = links.AddItem(ctx, b.ID, it.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.ExportXML(ctx, &buf))
	assert.Equal(t, "A\n-B\n", buf.String())

	doc, err := report.ExportPDF(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), doc)
	require.Len(t, pdf.forest, 1)
	assert.Equal(t, 1, pdf.counts[b.ID])
	assert.Zero(t, pdf.counts[a.ID])

	out, err := report.ImportXML(ctx, strings.NewReader("X Y"), &a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Created)
	assert.Len(t, lowerIDs(t, categories, a.ID), 3)
}

func TestReport_FormatoNoDisponible(t *testing.T) {
	store := memory.NewStore()
	categories := usecase.NewCategoryUseCase(store.Categories(), store, usecase.DeleteRestrict)
	report := usecase.NewReportUseCase(categories, store.CategoryItems(), nil, nil)

	_, err := report.ExportPDF(context.Background())
	assert.ErrorIs(t, err, domain.ErrFormatUnavailable)
	assert.ErrorIs(t, report.ExportXML(context.Background(), io.Discard), domain.ErrFormatUnavailable)
}
