package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

var errLoadAborted = errors.New("catalog load aborted")

// CatalogLoader fetches the catalog exactly once per session.
type CatalogLoader struct {
	source port.CatalogSource
	log    *zap.Logger

	once    sync.Once
	catalog domain.Catalog
	err     error
}

func NewCatalogLoader(source port.CatalogSource, log *zap.Logger) *CatalogLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogLoader{source: source, log: log}
}

// Load performs the single fetch. Later calls return the first outcome without
// touching the source. A failed load yields the empty catalog together with the error,
// which has already been logged.
func (l *CatalogLoader) Load(ctx context.Context) (domain.Catalog, error) {
	l.once.Do(func() {
		l.catalog, l.err = domain.EmptyCatalog(), errLoadAborted

		start := time.Now()
		products, err := l.source.FetchProducts(ctx)
		if err == nil {
			err = domain.ValidateProducts(products)
		}
		if err != nil {
			l.err = fmt.Errorf("load catalog: %w", err)
			l.log.Error("error fetching products", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
			return
		}

		l.catalog, l.err = domain.NewCatalog(products), nil
		l.log.Info("catalog loaded",
			zap.Int("products", len(l.catalog.Products)),
			zap.Int("categories", len(l.catalog.Categories)-1),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
	return l.catalog, l.err
}
