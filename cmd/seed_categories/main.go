// seed_categories carga un árbol de categorías desde un XML <categorias> en el almacenamiento configurado.
//
// Uso: go run ./cmd/seed_categories [-upper ID] [ruta/categorias.xml]
// Por defecto lee categorias.xml del directorio actual. Acepta UTF-8 e ISO-8859-1.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Categorias-api/internal/application/usecase"
	"github.com/jhoicas/Categorias-api/internal/infrastructure/storage"
	"github.com/jhoicas/Categorias-api/internal/infrastructure/xmltree"
	"github.com/jhoicas/Categorias-api/pkg/config"
	"github.com/jhoicas/Categorias-api/pkg/logger"
)

func main() {
	upper := flag.Int64("upper", 0, "ID de la categoría bajo la que se cuelgan las raíces importadas (0 = raíz)")
	flag.Parse()

	xmlPath := "categorias.xml"
	if flag.NArg() > 0 {
		xmlPath = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_categories"})

	f, err := os.Open(xmlPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", xmlPath).Msg("abrir XML")
	}
	defer f.Close()

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	var upperID *int64
	if *upper > 0 {
		upperID = upper
	}

	categoryUC := usecase.NewCategoryUseCase(backend.Categories, backend.Tx, usecase.DeleteRestrict)
	reportUC := usecase.NewReportUseCase(categoryUC, backend.CategoryItems, nil, xmltree.NewCodec())
	out, err := reportUC.ImportXML(ctx, f, upperID)
	if err != nil {
		log.Fatal().Err(err).Str("file", xmlPath).Msg("importar árbol")
	}
	log.Info().
		Str("file", xmlPath).
		Int("created", out.Created).
		Int("roots", len(out.Roots)).
		Msg("árbol importado")
}
