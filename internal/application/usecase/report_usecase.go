package usecase

import (
	"context"
	"io"

	"github.com/jhoicas/Categorias-api/internal/application/dto"
	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
	"github.com/jhoicas/Categorias-api/internal/domain/tree"
)

// ReportUseCase exporta el árbol (XML, PDF) e importa ramas desde XML.
type ReportUseCase struct {
	categories *CategoryUseCase
	links      repository.CategoryItemRepository
	pdf        TreePDFGenerator
	xml        TreeXMLCodec
}

// NewReportUseCase construye el caso de uso. pdf o xml pueden ser nil si el formato no está habilitado.
func NewReportUseCase(
	categories *CategoryUseCase,
	links repository.CategoryItemRepository,
	pdf TreePDFGenerator,
	xml TreeXMLCodec,
) *ReportUseCase {
	return &ReportUseCase{categories: categories, links: links, pdf: pdf, xml: xml}
}

// ExportXML escribe el bosque completo en w.
func (uc *ReportUseCase) ExportXML(ctx context.Context, w io.Writer) error {
	if uc.xml == nil {
		return domain.ErrFormatUnavailable
	}
	forest, err := uc.categories.Forest(ctx)
	if err != nil {
		return err
	}
	return uc.xml.Encode(w, forest)
}

// ImportXML lee ramas desde r y las crea bajo upperID (nil = raíz) en una sola transacción.
func (uc *ReportUseCase) ImportXML(ctx context.Context, r io.Reader, upperID *int64) (*dto.ImportCategoriesResponse, error) {
	if uc.xml == nil {
		return nil, domain.ErrFormatUnavailable
	}
	drafts, err := uc.xml.Decode(r)
	if err != nil {
		return nil, err
	}
	return uc.categories.Import(ctx, drafts, upperID)
}

// ExportPDF genera el reporte PDF del árbol con el número de artículos por categoría.
func (uc *ReportUseCase) ExportPDF(ctx context.Context) ([]byte, error) {
	if uc.pdf == nil {
		return nil, domain.ErrFormatUnavailable
	}
	forest, err := uc.categories.Forest(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0)
	tree.Walk(forest, func(n *tree.Node, _ int) {
		ids = append(ids, n.Category.ID)
	})
	counts, err := uc.links.CountItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateTreePDF(ctx, forest, counts)
}
