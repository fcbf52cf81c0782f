package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/adapter/source"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/logging"
	"github.com/rl1809/storefront/internal/port"
)

var errNoMySQL = errors.New("seed requires MYSQL_DSN")

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copy the HTTP catalog into the MySQL products table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

// catalogWriter replaces the stored product list.
type catalogWriter interface {
	SaveProducts(ctx context.Context, products []domain.Product) error
}

func runSeed(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Catalog.MySQLDSN == "" {
		return errNoMySQL
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Verbose: verbose})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := openMySQL(ctx, cfg.Catalog.MySQLDSN, logger)
	if err != nil {
		logger.Error("failed to open catalog database", zap.Error(err))
		return err
	}
	defer db.Close()

	n, err := seedCatalog(ctx, source.NewHTTPCatalog(&http.Client{}, cfg.Catalog.URL), storage.NewMySQLAdapter(db))
	if err != nil {
		logger.Error("seed failed", zap.Error(err))
		return err
	}
	logger.Info("catalog seeded", zap.Int("products", n), zap.String("from", cfg.Catalog.URL))
	return nil
}

// seedCatalog fetches the product list and stores it only if it is a valid catalog.
func seedCatalog(ctx context.Context, from port.CatalogSource, to catalogWriter) (int, error) {
	products, err := from.FetchProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch catalog: %w", err)
	}
	if err := domain.ValidateProducts(products); err != nil {
		return 0, err
	}
	if err := to.SaveProducts(ctx, products); err != nil {
		return 0, fmt.Errorf("save catalog: %w", err)
	}
	return len(products), nil
}
