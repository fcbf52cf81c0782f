package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
)

// Store serializes actions from concurrent callers onto a single State.
// Each dispatch replaces the whole state under one lock.
type Store struct {
	mu    sync.Mutex
	state State
	log   *zap.Logger

	ready     chan struct{}
	readyOnce sync.Once
}

func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		state: NewState(),
		log:   log,
		ready: make(chan struct{}),
	}
}

// Dispatch reduces a into the current state and returns the resulting state.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, a)
	if err != nil {
		s.log.Debug("action rejected", zap.String("action", a.Name()), zap.Error(err))
		return s.state, err
	}
	s.state = next
	s.log.Debug("action applied", zap.String("action", a.Name()))

	if !next.Loading {
		s.readyOnce.Do(func() { close(s.ready) })
	}
	return next, nil
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ready is closed once the catalog load has completed, successfully or not.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// LoadCatalog runs the session's catalog load and always completes it in the
// store. A panicking source is recovered and recorded as a failed load.
func (s *Store) LoadCatalog(ctx context.Context, loader *CatalogLoader) {
	loaded := CatalogLoaded{Err: errLoadAborted}
	defer func() {
		if r := recover(); r != nil {
			loaded = CatalogLoaded{Catalog: domain.EmptyCatalog(), Err: fmt.Errorf("%w: panic: %v", errLoadAborted, r)}
			s.log.Error("catalog load panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
		_, _ = s.Dispatch(loaded)
	}()

	catalog, err := loader.Load(ctx)
	loaded = CatalogLoaded{Catalog: catalog, Err: err}
}
