package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Categorias-api/pkg/config"
)

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working directory
// and restores the previous one when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "restrict", cfg.Category.DeletePolicy)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.True(t, cfg.DB.Migrate)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("CATEGORY_DELETE_POLICY", "reparent")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_WRITE_TIMEOUT", "45")
	t.Setenv("HTTP_READ_TIMEOUT", "2m")
	t.Setenv("DB_MIGRATE", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "reparent", cfg.Category.DeletePolicy)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 45*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 2*time.Minute, cfg.HTTP.ReadTimeout)
	assert.False(t, cfg.DB.Migrate)
}

func TestLoad_Invalido(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("CATEGORY_DELETE_POLICY", "cascade")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("CATEGORY_DELETE_POLICY", "restrict")
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err = config.Load()
	assert.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err = config.Load()
	assert.Error(t, err, "production exige JWT_SECRET")
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "categorias", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/categorias?sslmode=disable", c.DSN())
}
