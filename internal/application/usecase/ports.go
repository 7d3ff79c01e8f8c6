package usecase

import (
	"context"
	"io"

	"github.com/jhoicas/Categorias-api/internal/domain/repository"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Las operaciones que tocan la jerarquía (mover, borrar, importar) se serializan ahí para
// que dos movimientos concurrentes no puedan cerrar un ciclo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		categories repository.CategoryRepository,
		links repository.CategoryItemRepository,
	) error) error
}

// TreePDFGenerator genera el reporte PDF del árbol. itemCounts trae el número de artículos por categoría.
type TreePDFGenerator interface {
	GenerateTreePDF(ctx context.Context, forest []*tree.Node, itemCounts map[int64]int) ([]byte, error)
}

// TreeXMLCodec serializa el árbol a XML y lee ramas desde XML.
type TreeXMLCodec interface {
	Encode(w io.Writer, forest []*tree.Node) error
	Decode(r io.Reader) ([]tree.Draft, error)
}
