package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Progress storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"vitaena"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080" validate:"required"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`

	Content  Content
	Progress Progress
	Session  Session
	SQLite   SQLite
	Postgres Postgres
	Redis    Redis
	CORS     CORS
}

// Content locates the exercise catalog. An empty Dir serves the embedded one.
type Content struct {
	Dir string `env:"CONTENT_DIR" envDefault:""`
}

// Progress selects where verdicts and last-visited markers are kept.
type Progress struct {
	Backend   string `env:"PROGRESS_BACKEND" envDefault:"sqlite" validate:"oneof=sqlite redis postgres memory"`
	Namespace string `env:"PROGRESS_NAMESPACE" envDefault:""`
	Channel   string `env:"PROGRESS_CHANNEL" envDefault:"progress:updates"`
}

// Session tunes interaction instances. A zero seed shuffles from the clock.
type Session struct {
	ShuffleSeed int64 `env:"SESSION_SHUFFLE_SEED" envDefault:"0"`
}

// SQLite is the device-local progress file.
type SQLite struct {
	Path string `env:"SQLITE_PATH" envDefault:"data/progress.db"`
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host        string `env:"PG_HOST" envDefault:"localhost"`
	Port        int    `env:"PG_PORT" envDefault:"5432"`
	User        string `env:"PG_USER" envDefault:"vitaena"`
	Password    string `env:"PG_PASSWORD" envDefault:""`
	Database    string `env:"PG_DATABASE" envDefault:"vitaena"`
	SSLMode     string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns    int32  `env:"PG_MAX_CONNS" envDefault:"5"`
	AutoMigrate bool   `env:"PG_AUTO_MIGRATE" envDefault:"true"`
}

// Redis holds progress storage + pub/sub configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := validator.New().StructCtx(ctx, cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
