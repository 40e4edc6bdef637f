// import_products carga el catálogo de materiales desde un CSV (exportación de 1C o Excel).
// Crea los productos nuevos y actualiza los existentes por código.
//
// Uso: go run ./cmd/import_products -file catalogo.csv [-encoding windows-1251] [-delimiter ";"] [-dry-run]
//
// Columnas (cabecera obligatoria, en cualquier orden): code, name, unit, price, min_quantity, barcode.
// También se aceptan las cabeceras en ruso (код, наименование, ед, цена, мин, штрихкод).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/GukMaksim/construction-inventory/internal/application/analytics"
	"github.com/GukMaksim/construction-inventory/internal/application/usecase"
	"github.com/GukMaksim/construction-inventory/internal/infrastructure/postgres"
	"github.com/GukMaksim/construction-inventory/pkg/config"
	"github.com/GukMaksim/construction-inventory/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	file := flag.String("file", "", "ruta del CSV")
	encoding := flag.String("encoding", "utf-8", "utf-8 | windows-1251")
	delimiter := flag.String("delimiter", ";", "separador de columnas")
	dryRun := flag.Bool("dry-run", false, "solo validar, sin escribir")
	flag.Parse()

	if *file == "" || len([]rune(*delimiter)) != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("abrir CSV")
	}
	defer f.Close()

	in, err := decodeReader(f, *encoding)
	if err != nil {
		log.Fatal().Err(err).Msg("codificación")
	}
	rows, rowErrs := readCatalog(in, []rune(*delimiter)[0])
	for _, e := range rowErrs {
		log.Warn().Err(e).Msg("fila descartada")
	}
	log.Info().Int("validas", len(rows)).Int("descartadas", len(rowErrs)).Msg("CSV leído")
	if *dryRun {
		return
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Los informes cacheados por la API dependen del precio y del mínimo: invalidarlos tras importar.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	uc := usecase.NewProductUseCase(postgres.NewProductRepository(pool), postgres.NewStockMovementRepository(pool)).
		WithCache(analytics.NewCache(redisClient, cfg.Reports.CacheTTL))
	var created, updated, failed int
	for _, row := range rows {
		_, isNew, err := uc.Upsert(ctx, row.request)
		switch {
		case err != nil:
			failed++
			log.Error().Err(err).Int("line", row.line).Str("code", row.request.Code).Msg("no importado")
		case isNew:
			created++
		default:
			updated++
		}
	}
	log.Info().Int("creados", created).Int("actualizados", updated).Int("errores", failed).Msg("importación terminada")
	if failed > 0 {
		os.Exit(1)
	}
}
