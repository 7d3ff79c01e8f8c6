package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Categorias-api/internal/application/dto"
	"github.com/jhoicas/Categorias-api/internal/application/usecase"
)

// ItemHandler maneja las peticiones HTTP de artículos.
type ItemHandler struct {
	uc    *usecase.ItemUseCase
	links *usecase.CategoryItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, links *usecase.CategoryItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc, links: links}
}

// Create godoc
// @Summary      Crear artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Produce      json
// @Param        limit   query  int  false  "Máximo 100"  default(20)
// @Param        offset  query  int  false  "Desplazamiento"  default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: 20}
	if ok, err := bindQuery(c, &page); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo
// @Tags         items
// @Produce      json
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
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

// Update godoc
// @Summary      Actualizar artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var in dto.UpdateItemRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar artículo
// @Description  Se quita también de todas sus categorías.
// @Tags         items
// @Security     Bearer
// @Param        id   path  int  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCategories godoc
// @Summary      Categorías a las que pertenece el artículo
// @Tags         items
// @Produce      json
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {object}  dto.CategoryListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/categories [get]
func (h *ItemHandler) ListCategories(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	out, err := h.links.ListCategoriesOfItem(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
