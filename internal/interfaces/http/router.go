package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Categorias-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC     *usecase.CategoryUseCase
	CategoryItemUC *usecase.CategoryItemUseCase
	ItemUC         *usecase.ItemUseCase
	ReportUC       *usecase.ReportUseCase
	JWTSecret      string
	Service        string
	Metrics        *Metrics                        // nil: sin /metrics
	HealthCheck    func(ctx context.Context) error // nil: siempre ok
}

// Router registra las rutas de la API.
// Lecturas públicas; escrituras protegidas por JWT + rol admin/editor si hay secret configurado.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics.Handler())
	}

	guard := writeGuard(deps.JWTSecret)
	w := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guard...), h)
	}

	api := app.Group("/api")

	// Categorías: las rutas fijas van antes de /:id
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.CategoryItemUC, deps.ReportUC)
	categories.Get("/", categoryHandler.ListRoots)
	categories.Get("/tree", categoryHandler.Tree)
	categories.Get("/tree.xml", categoryHandler.TreeXML)
	categories.Get("/tree.pdf", categoryHandler.TreePDF)
	categories.Post("/", w(categoryHandler.Create)...)
	categories.Post("/import", w(categoryHandler.Import)...)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Patch("/:id", w(categoryHandler.Rename)...)
	categories.Delete("/:id", w(categoryHandler.Delete)...)
	categories.Put("/:id/upper", w(categoryHandler.SetUpperCategory)...)
	categories.Get("/:id/lower", categoryHandler.ListLower)
	categories.Get("/:id/path", categoryHandler.Path)
	categories.Get("/:id/items", categoryHandler.ListItems)
	categories.Put("/:id/items/:itemId", w(categoryHandler.AddItem)...)
	categories.Delete("/:id/items/:itemId", w(categoryHandler.RemoveItem)...)

	// Artículos
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.CategoryItemUC)
	items.Get("/", itemHandler.List)
	items.Post("/", w(itemHandler.Create)...)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", w(itemHandler.Update)...)
	items.Delete("/:id", w(itemHandler.Delete)...)
	items.Get("/:id/categories", itemHandler.ListCategories)
}

func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.HealthCheck(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "degraded", "service": deps.Service, "error": err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.Service})
	}
}
