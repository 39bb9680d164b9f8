// seed carga un catálogo de sedes y productos (YAML, JSON o TOML) en PostgreSQL.
//
// Uso: go run ./cmd/seed [ruta/catalogo.yaml]
// Por defecto usa SEED_FILE o catalog.yaml en el directorio actual.
package main

import (
	"context"
	"os"

	"github.com/jhoicas/stock-ledger/internal/infrastructure/catalog"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name}).Component("seed")

	path := cfg.Storage.SeedFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		path = "catalog.yaml"
	}

	c, err := catalog.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migrar esquema")
	}
	if err := postgres.SeedCatalog(ctx, pool, c); err != nil {
		log.Fatal().Err(err).Msg("sembrar catálogo")
	}
	log.Info().Str("file", path).Int("sites", len(c.Sites)).Int("products", len(c.Products)).Msg("catálogo cargado")
}
