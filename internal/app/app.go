package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/content"
	"github.com/gokatarajesh/vitaena/internal/audio"
	"github.com/gokatarajesh/vitaena/internal/catalog"
	"github.com/gokatarajesh/vitaena/internal/config"
	"github.com/gokatarajesh/vitaena/internal/db"
	"github.com/gokatarajesh/vitaena/internal/db/repository"
	"github.com/gokatarajesh/vitaena/internal/logging"
	"github.com/gokatarajesh/vitaena/internal/metrics"
	"github.com/gokatarajesh/vitaena/internal/progress"
	"github.com/gokatarajesh/vitaena/internal/report"
	"github.com/gokatarajesh/vitaena/internal/server"
	"github.com/gokatarajesh/vitaena/internal/session"
	"github.com/gokatarajesh/vitaena/internal/sidebar"
	"github.com/gokatarajesh/vitaena/internal/storage/redisstore"
	"github.com/gokatarajesh/vitaena/internal/storage/sqlite"
	ws "github.com/gokatarajesh/vitaena/pkg/http/ws"
)

// Application aggregates shared infrastructure (catalog, progress, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	backend     progressBackend
	store       *progress.Store
	http        *http.Server
	broadcaster *sidebar.Broadcaster
	detach      func()
	bgCancels   []context.CancelFunc
}

// New bootstraps logger, catalog, progress storage and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Str("backend", cfg.Progress.Backend).Msg("starting application bootstrap")

	cat, err := LoadCatalog(cfg.Content, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("topics", len(cat.ListTopics())).Msg("catalog loaded")

	m := metrics.New(prometheus.DefaultRegisterer)

	backend, err := openProgress(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("progress storage unavailable, results kept for this session only")
		m.StorageFailure("open")
		backend = progressBackend{}
	}
	var kv progress.KV
	if backend.kv != nil {
		kv = progress.WithNamespace(backend.kv, cfg.Progress.Namespace)
	}
	store := progress.NewStore(kv, logger, progress.StoreOptions{Metrics: m})

	manager := session.NewManager(store, logger, session.ManagerOptions{
		Seed:    cfg.Session.ShuffleSeed,
		Player:  audio.NopPlayer{},
		Metrics: m,
	})

	hub := ws.NewHub(logger)
	broadcaster := sidebar.NewBroadcaster(cat, store, hub, backend.relay, logger)
	detach := broadcaster.Attach(store)

	apiServer := server.NewHTTPServer(cfg, logger, store, server.Handlers{
		Topics:   catalog.NewHTTPHandlers(cat, store, logger),
		Sessions: session.NewHTTPHandlers(manager, cat, logger),
		Progress: sidebar.NewHTTPHandlers(cat, store, m, logger),
		Stream:   sidebar.NewWSHandler(hub, cat, store, m, logger),
		Reports:  report.NewHTTPHandler(cat, store, logger),
	})

	return &Application{
		cfg:         cfg,
		logger:      logger,
		backend:     backend,
		store:       store,
		http:        apiServer,
		broadcaster: broadcaster,
		detach:      detach,
		bgCancels:   make([]context.CancelFunc, 0, 1),
	}, nil
}

// LoadCatalog reads topics from cfg.Dir, or from the embedded content when
// Dir is empty.
func LoadCatalog(cfg config.Content, logger zerolog.Logger) (*catalog.Catalog, error) {
	var fsys fs.FS = content.FS
	if cfg.Dir != "" {
		if _, err := os.Stat(cfg.Dir); err != nil {
			return nil, fmt.Errorf("content directory %s: %w", cfg.Dir, err)
		}
		fsys = os.DirFS(cfg.Dir)
	}
	loader, err := catalog.NewLoader(fsys, logger)
	if err != nil {
		return nil, fmt.Errorf("catalog loader: %w", err)
	}
	cat, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

// progressBackend is an opened progress KV plus what it holds open. relay is
// only set for Redis, where several processes share one progress namespace.
type progressBackend struct {
	kv    progress.KV
	relay sidebar.Relay
	close func() error
}

func openProgress(ctx context.Context, cfg *config.App, logger zerolog.Logger) (progressBackend, error) {
	switch cfg.Progress.Backend {
	case config.BackendMemory:
		return progressBackend{kv: progress.NewMemoryKV()}, nil

	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return progressBackend{}, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		sqlDB, err := sqlite.Open(cfg.SQLite.Path, logger)
		if err != nil {
			return progressBackend{}, err
		}
		if err := sqlDB.Migrate(); err != nil {
			sqlDB.Close()
			return progressBackend{}, fmt.Errorf("migrate sqlite: %w", err)
		}
		kv := sqlite.NewProgressKV(sqlDB)
		return progressBackend{kv: kv, close: kv.Close}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return progressBackend{}, fmt.Errorf("connect redis: %w", err)
		}
		return progressBackend{
			kv:    redisstore.NewProgressKV(client, logger),
			relay: redisstore.NewPublisher(client, cfg.Progress.Channel, logger),
			close: client.Close,
		}, nil

	case config.BackendPostgres:
		dsn := db.DSN(cfg.Postgres)
		if cfg.Postgres.AutoMigrate {
			if err := db.Migrate(ctx, dsn, "up", "", logger); err != nil {
				return progressBackend{}, err
			}
		}
		poolCfg, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return progressBackend{}, fmt.Errorf("parse postgres config: %w", err)
		}
		if cfg.Postgres.MaxConns > 0 {
			poolCfg.MaxConns = cfg.Postgres.MaxConns
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return progressBackend{}, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return progressBackend{}, fmt.Errorf("ping postgres: %w", err)
		}
		return progressBackend{
			kv:    repository.NewProgressRepository(pool),
			close: func() error { pool.Close(); return nil },
		}, nil
	}
	return progressBackend{}, fmt.Errorf("unknown progress backend %q", cfg.Progress.Backend)
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		a.close()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.close()
	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) close() {
	for _, cancel := range a.bgCancels {
		cancel()
	}
	if a.detach != nil {
		a.detach()
	}
	if a.backend.close != nil {
		if err := a.backend.close(); err != nil {
			a.logger.Error().Err(err).Msg("progress storage shutdown error")
		}
	}
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.broadcaster != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.broadcaster.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Msg("progress broadcaster stopped")
			}
		}()
	}
}
