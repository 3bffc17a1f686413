package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/db/migrations"
	"github.com/gokatarajesh/vitaena/internal/config"
)

// DSN renders the libpq connection string for cfg.
func DSN(cfg config.Postgres) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)
}

// Migrate runs a goose command (up, down, status) against dsn. An empty dir
// uses the migrations embedded in the binary.
func Migrate(ctx context.Context, dsn, command, dir string, logger zerolog.Logger) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	var fsys fs.FS = migrations.FS
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("migration directory %s: %w", dir, err)
		}
		fsys = os.DirFS(dir)
	}
	goose.SetBaseFS(fsys)
	goose.SetTableName("goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		logger.Info().Msg("migrations applied successfully")
	case "down":
		if err := goose.DownContext(ctx, sqlDB, "."); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		logger.Info().Msg("migrations rolled back successfully")
	case "status":
		if err := goose.StatusContext(ctx, sqlDB, "."); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q, use up, down or status", command)
	}
	return nil
}
