package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/adapter/source"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/config"
	"github.com/rl1809/storefront/internal/port"
)

// buildSource assembles the configured catalog source, wrapped in the Redis
// cache when one is configured and reachable. The returned func closes any
// connections it opened.
func buildSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.CatalogSource, func(), error) {
	var (
		src     port.CatalogSource
		closers []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Catalog.Source {
	case config.SourceMySQL:
		db, err := openMySQL(ctx, cfg.Catalog.MySQLDSN, logger)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { db.Close() })
		src = storage.NewMySQLAdapter(db)

	default:
		src = source.NewHTTPCatalog(&http.Client{}, cfg.Catalog.URL)
		logger.Info("using http catalog", zap.String("url", cfg.Catalog.URL))
	}

	if cfg.Catalog.RedisAddr == "" {
		return src, cleanup, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Catalog.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", zap.String("addr", cfg.Catalog.RedisAddr), zap.Error(err))
		rdb.Close()
		return src, cleanup, nil
	}
	logger.Info("connected to redis", zap.Duration("ttl", cfg.Catalog.CacheTTL))
	closers = append(closers, func() { rdb.Close() })

	return storage.NewCachedSource(src, storage.NewRedisAdapter(rdb, cfg.Catalog.CacheTTL)), cleanup, nil
}

func openMySQL(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}
	logger.Info("connected to mysql")
	return db, nil
}
