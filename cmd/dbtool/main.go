package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"magnetic-field-service/internal/adapters/repositories"
	"magnetic-field-service/internal/config"
	"magnetic-field-service/internal/platform/db"
	"magnetic-field-service/internal/platform/obs"
	"magnetic-field-service/internal/ports"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Driver string `help:"Database driver (sqlite or pgx)." env:"DB_DRIVER" default:"sqlite" enum:"sqlite,pgx"`
	DSN    string `help:"SQLite file path or Postgres URL. Defaults to DB_PATH or DATABASE_URL."`
	Runs   int    `help:"After initializing, list this many recent runs." default:"0"`
}

func main() {
	loaded := config.Load()
	obs.SetupLogging(os.Stderr, config.Get("LOG_LEVEL", "info"))
	if !loaded {
		log.Debug().Msg("No .env file found (using environment variables)")
	}

	kong.Parse(&CLI,
		kong.Name("dbtool"),
		kong.Description("Initialize the field run schema."))

	dsn := CLI.DSN
	if dsn == "" {
		if CLI.Driver == "pgx" {
			dsn = config.Get("DATABASE_URL", "")
		} else {
			dsn = config.Get("DB_PATH", "data/runs.db")
		}
	}
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	conn, err := db.OpenDriver(CLI.Driver, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	log.Info().Str("driver", CLI.Driver).Msg("initializing database schema")
	if err := repositories.InitSchemaFor(conn, CLI.Driver); err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}
	log.Info().Msg("schema ready")

	if CLI.Runs <= 0 {
		return
	}

	var repo ports.RunRepository
	if CLI.Driver == "pgx" {
		repo = repositories.NewSQLRunRepository(conn)
	} else {
		repo = repositories.NewSqliteRunRepository(conn)
	}

	runs, err := repo.ListRuns(context.Background(), CLI.Runs)
	if err != nil {
		log.Fatal().Err(err).Msg("list runs")
	}
	for _, run := range runs {
		fmt.Printf("%6d  %s  current=%g segments=%d targets=%d strict=%t wire=%s\n",
			run.ID, run.CreatedAt.Format(time.RFC3339), run.Current,
			run.Segments, run.Targets, run.Strict, run.WireHash)
	}
}
