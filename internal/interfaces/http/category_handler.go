package http

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Categorias-api/internal/application/dto"
	"github.com/jhoicas/Categorias-api/internal/application/usecase"
)

// CategoryHandler maneja las peticiones HTTP del árbol de categorías.
type CategoryHandler struct {
	uc     *usecase.CategoryUseCase
	links  *usecase.CategoryItemUseCase
	report *usecase.ReportUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, links *usecase.CategoryItemUseCase, report *usecase.ReportUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc, links: links, report: report}
}

// Create godoc
// @Summary      Crear categoría
// @Description  Sin upper_category_id la categoría queda como raíz.
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoría con su categoría superior y subcategorías
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Rename godoc
// @Summary      Renombrar categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Nuevo nombre"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [patch]
func (h *CategoryHandler) Rename(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var in dto.UpdateCategoryRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Rename(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetUpperCategory godoc
// @Summary      Mover categoría
// @Description  upper_category_id null convierte la categoría en raíz. No se permite moverla bajo sí misma ni bajo una descendiente.
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la categoría"
// @Param        body  body  dto.SetUpperCategoryRequest  true  "Nueva categoría superior"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/upper [put]
func (h *CategoryHandler) SetUpperCategory(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var in dto.SetUpperCategoryRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetUpperCategory(c.UserContext(), id, in.UpperCategoryID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar categoría
// @Description  Con la política restrict falla si tiene subcategorías; con reparent las sube un nivel. Los artículos no se borran.
// @Tags         categories
// @Security     Bearer
// @Param        id   path  int  true  "ID de la categoría"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListRoots godoc
// @Summary      Listar categorías raíz
// @Tags         categories
// @Produce      json
// @Success      200  {object}  dto.CategoryListResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) ListRoots(c *fiber.Ctx) error {
	out, err := h.uc.ListRoots(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListLower godoc
// @Summary      Listar subcategorías directas
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/lower [get]
func (h *CategoryHandler) ListLower(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	out, err := h.uc.ListLowerCategories(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Path godoc
// @Summary      Ruta desde la raíz hasta la categoría
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryPathResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/path [get]
func (h *CategoryHandler) Path(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	out, err := h.uc.Path(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Tree godoc
// @Summary      Árbol completo
// @Tags         categories
// @Produce      json
// @Success      200  {object}  dto.CategoryTreeResponse
// @Router       /api/categories/tree [get]
func (h *CategoryHandler) Tree(c *fiber.Ctx) error {
	out, err := h.uc.Tree(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TreeXML godoc
// @Summary      Exportar el árbol en XML
// @Tags         categories
// @Produce      xml
// @Success      200
// @Router       /api/categories/tree.xml [get]
func (h *CategoryHandler) TreeXML(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.report.ExportXML(c.UserContext(), &buf); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.Send(buf.Bytes())
}

// TreePDF godoc
// @Summary      Reporte PDF del árbol con número de artículos por categoría
// @Tags         categories
// @Produce      application/pdf
// @Success      200
// @Router       /api/categories/tree.pdf [get]
func (h *CategoryHandler) TreePDF(c *fiber.Ctx) error {
	doc, err := h.report.ExportPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="categorias.pdf"`)
	return c.Send(doc)
}

// Import godoc
// @Summary      Importar ramas desde XML
// @Description  Cuerpo: <categorias><categoria nombre="..."> anidadas. Se crean en una sola transacción.
// @Tags         categories
// @Security     Bearer
// @Accept       xml
// @Produce      json
// @Param        upper_category_id  query  int  false  "Colgar las raíces importadas de esta categoría"
// @Success      201  {object}  dto.ImportCategoriesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/categories/import [post]
func (h *CategoryHandler) Import(c *fiber.Ctx) error {
	var upperID *int64
	if raw := c.Query("upper_category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return invalidID(c, "upper_category_id")
		}
		upperID = &id
	}
	if len(c.Body()) == 0 {
		return invalidBody(c)
	}
	out, err := h.report.ImportXML(c.UserContext(), bytes.NewReader(c.Body()), upperID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListItems godoc
// @Summary      Artículos de la categoría
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryItemsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/items [get]
func (h *CategoryHandler) ListItems(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	out, err := h.links.ListItems(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Asociar artículo a la categoría
// @Description  Idempotente: changed=false si ya estaba asociado.
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id      path  int  true  "ID de la categoría"
// @Param        itemId  path  int  true  "ID del artículo"
// @Success      200  {object}  dto.AssociationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/items/{itemId} [put]
func (h *CategoryHandler) AddItem(c *fiber.Ctx) error {
	categoryID, itemID, err := categoryItemIDs(c)
	if err != nil || categoryID == 0 {
		return err
	}
	out, err := h.links.AddItem(c.UserContext(), categoryID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar artículo de la categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id      path  int  true  "ID de la categoría"
// @Param        itemId  path  int  true  "ID del artículo"
// @Success      200  {object}  dto.AssociationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/items/{itemId} [delete]
func (h *CategoryHandler) RemoveItem(c *fiber.Ctx) error {
	categoryID, itemID, err := categoryItemIDs(c)
	if err != nil || categoryID == 0 {
		return err
	}
	out, err := h.links.RemoveItem(c.UserContext(), categoryID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// categoryItemIDs lee :id e :itemId; si alguno es inválido escribe el 400 y devuelve categoryID=0.
func categoryItemIDs(c *fiber.Ctx) (int64, int64, error) {
	categoryID, ok := parseID(c, "id")
	if !ok {
		return 0, 0, invalidID(c, "id")
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return 0, 0, invalidID(c, "itemId")
	}
	return categoryID, itemID, nil
}
