// Package storage elige el backend de persistencia según STORAGE_DRIVER y expone
// los repositorios y el TxRunner listos para los casos de uso.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/Categorias-api/internal/application/usecase"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
	"github.com/jhoicas/Categorias-api/internal/infrastructure/memory"
	"github.com/jhoicas/Categorias-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Categorias-api/pkg/config"
	"github.com/jhoicas/Categorias-api/pkg/logger"
)

// Backend repositorios de un mismo almacenamiento.
type Backend struct {
	Driver        string
	Categories    repository.CategoryRepository
	Items         repository.ItemRepository
	CategoryItems repository.CategoryItemRepository
	Tx            usecase.TxRunner

	ping  func(ctx context.Context) error
	close func()
}

// Open abre el almacenamiento configurado. Con postgres aplica las migraciones si DB_MIGRATE=true.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &Backend{
			Driver:        "memory",
			Categories:    store.Categories(),
			Items:         store.Items(),
			CategoryItems: store.CategoryItems(),
			Tx:            store,
		}, nil
	case "postgres":
		if cfg.DB.Migrate {
			version, err := postgres.RunMigrations(postgres.ResolveDSN(cfg.DB))
			if err != nil {
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			log.Info().Uint("version", version).Msg("esquema actualizado")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &Backend{
			Driver:        "postgres",
			Categories:    postgres.NewCategoryRepository(pool),
			Items:         postgres.NewItemRepository(pool),
			CategoryItems: postgres.NewCategoryItemRepository(pool),
			Tx:            postgres.NewTxRunner(pool),
			ping:          pool.Ping,
			close:         pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Storage.Driver)
	}
}

// Ping verifica que el almacenamiento responda.
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Close libera las conexiones.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}
