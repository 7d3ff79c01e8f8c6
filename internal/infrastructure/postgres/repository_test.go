package postgres_test

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Categorias-api/internal/application/dto"
	"github.com/jhoicas/Categorias-api/internal/application/usecase"
	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/internal/domain/entity"
	"github.com/jhoicas/Categorias-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Categorias-api/pkg/config"
)

var (
	db         *pgxpool.Pool
	skipReason string
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		skipReason = "modo -short"
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		skipReason = "docker no disponible: " + err.Error()
		os.Exit(m.Run())
	}

	resource, err := pool.Run("postgres", "17.2-alpine", []string{
		"POSTGRES_USER=postgres",
		"POSTGRES_PASSWORD=postgres",
		"POSTGRES_DB=categorias",
	})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}
	_ = resource.Expire(600) // matar el contenedor a los 10 minutos pase lo que pase

	port, _ := strconv.Atoi(resource.GetPort("5432/tcp"))
	cfg := config.DBConfig{
		Host:     "localhost",
		Port:     port,
		User:     "postgres",
		Password: "postgres",
		DBName:   "categorias",
		SSLMode:  "disable",
		MaxConns: 5,
	}

	pool.MaxWait = 2 * time.Minute
	if err := pool.Retry(func() error {
		if _, err := postgres.RunMigrations(cfg.DSN()); err != nil {
			return err
		}
		var err error
		db, err = postgres.NewPool(context.Background(), cfg)
		return err
	}); err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("Could not connect to database: %s", err)
	}

	code := m.Run()

	db.Close()
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge resource: %s", err)
	}
	os.Exit(code)
}

// setUp deja las tablas vacías y las secuencias en 1.
func setUp(t *testing.T) context.Context {
	t.Helper()
	if db == nil {
		t.Skip(skipReason)
	}
	ctx := context.Background()
	_, err := db.Exec(ctx, `TRUNCATE category_item, item, category RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return ctx
}

func newCategory(t *testing.T, repo *postgres.CategoryRepo, name string, upper *int64) *entity.Category {
	t.Helper()
	c := entity.NewCategory(name, upper)
	require.NoError(t, repo.Create(context.Background(), c))
	require.NotZero(t, c.ID)
	return c
}

func names(cs []*entity.Category) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func TestCategoryRepo_LadoInverso(t *testing.T) {
	ctx := setUp(t)
	repo := postgres.NewCategoryRepository(db)

	a := newCategory(t, repo, "A", nil)
	b := newCategory(t, repo, "B", &a.ID)
	c := newCategory(t, repo, "C", &b.ID)

	lower, err := repo.ListByUpper(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names(lower))

	roots, err := repo.ListRoots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, names(roots))

	ancestors, err := repo.ListAncestors(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, names(ancestors))

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	none, err := repo.ListAncestors(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCategoryRepo_ErroresDeIntegridad(t *testing.T) {
	ctx := setUp(t)
	repo := postgres.NewCategoryRepository(db)

	missing := int64(404)
	err := repo.Create(ctx, entity.NewCategory("X", &missing))
	assert.ErrorIs(t, err, domain.ErrUpperCategoryNotFound)

	a := newCategory(t, repo, "A", nil)
	newCategory(t, repo, "B", &a.ID)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), domain.ErrCategoryHasLowerCategories)

	ghost := &entity.Category{ID: 999, Name: "fantasma", UpdatedAt: time.Now()}
	assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrNotFound)
}

func TestCategoryRepo_UpdateNameConservaSuperior(t *testing.T) {
	ctx := setUp(t)
	repo := postgres.NewCategoryRepository(db)
	a := newCategory(t, repo, "A", nil)
	b := newCategory(t, repo, "B", nil)

	moved := b.Clone()
	moved.SetUpperCategoryID(&a.ID)
	require.NoError(t, repo.Update(ctx, moved))

	require.NoError(t, repo.UpdateName(ctx, b.ID, "B2", time.Now()))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B2", got.Name)
	require.NotNil(t, got.UpperCategoryID, "el cambio de nombre no revierte el movimiento")
	assert.Equal(t, a.ID, *got.UpperCategoryID)

	assert.ErrorIs(t, repo.UpdateName(ctx, 999, "x", time.Now()), domain.ErrNotFound)
}

func TestCategoryRepo_ReassignUpper(t *testing.T) {
	ctx := setUp(t)
	repo := postgres.NewCategoryRepository(db)
	a := newCategory(t, repo, "A", nil)
	newCategory(t, repo, "A1", &a.ID)
	newCategory(t, repo, "A2", &a.ID)

	moved, err := repo.ReassignUpper(ctx, a.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, moved)

	roots, err := repo.ListRoots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A1", "A2"}, names(roots))
}

func TestCategoryItemRepo_IdempotenteYCascade(t *testing.T) {
	ctx := setUp(t)
	categories := postgres.NewCategoryRepository(db)
	items := postgres.NewItemRepository(db)
	links := postgres.NewCategoryItemRepository(db)

	c := newCategory(t, categories, "C", nil)
	it := &entity.Item{Name: "I1", Price: decimal.RequireFromString("12.50"), StockQuantity: 4, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, items.Create(ctx, it))

	added, err := links.Add(ctx, c.ID, it.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = links.Add(ctx, c.ID, it.ID)
	require.NoError(t, err)
	assert.False(t, added)

	list, err := links.ListItems(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, decimal.RequireFromString("12.5").Equal(list[0].Price))

	counts, err := links.CountItems(ctx, []int64{c.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, counts[c.ID])

	_, err = links.Add(ctx, c.ID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, items.Delete(ctx, it.ID))
	list, err = links.ListItems(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "borrar el artículo borra sus asociaciones")
}

func TestTxRunner_CasosDeUso(t *testing.T) {
	ctx := setUp(t)
	categories := postgres.NewCategoryRepository(db)
	uc := usecase.NewCategoryUseCase(categories, postgres.NewTxRunner(db), usecase.DeleteReparent)

	a, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "A"})
	require.NoError(t, err)
	b, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "B", UpperCategoryID: &a.ID})
	require.NoError(t, err)
	c, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "C", UpperCategoryID: &b.ID})
	require.NoError(t, err)

	_, err = uc.SetUpperCategory(ctx, a.ID, &c.ID)
	assert.ErrorIs(t, err, domain.ErrCycle)

	require.NoError(t, uc.Delete(ctx, b.ID))
	lower, err := uc.ListLowerCategories(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, lower.Items, 1)
	assert.Equal(t, c.ID, lower.Items[0].ID)

	_, err = uc.Import(ctx, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
