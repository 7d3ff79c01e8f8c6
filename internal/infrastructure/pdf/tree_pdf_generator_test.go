package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Categorias-api/internal/domain/entity"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
	"github.com/jhoicas/Categorias-api/internal/infrastructure/pdf"
)

func TestGenerateTreePDF(t *testing.T) {
	one := int64(1)
	forest, err := tree.Build([]*entity.Category{
		{ID: 1, Name: "Electrónica"},
		{ID: 2, Name: "Audio", UpperCategoryID: &one},
	})
	require.NoError(t, err)

	doc, err := pdf.NewMarotoTreePDFGenerator("").GenerateTreePDF(context.Background(), forest, map[int64]int{2: 3})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")), "debe ser un PDF")
}

func TestGenerateTreePDF_Vacio(t *testing.T) {
	doc, err := pdf.NewMarotoTreePDFGenerator("Catálogo").GenerateTreePDF(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}
