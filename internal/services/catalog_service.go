package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"shuttlego/internal/clock"
	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
	"shuttlego/internal/metrics"
	"shuttlego/internal/repositories"
	"shuttlego/internal/utils"
)

// CatalogService caches the active routes, shuttles and schedules. A failed
// load leaves the previous catalog untouched.
type CatalogService struct {
	Store   repositories.CatalogStore
	Clock   clock.Clock
	Metrics *metrics.Metrics

	mu     sync.RWMutex
	cached models.Catalog
	group  singleflight.Group
}

func NewCatalogService(store repositories.CatalogStore, clk clock.Clock, m *metrics.Metrics) *CatalogService {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &CatalogService{Store: store, Clock: clk, Metrics: m}
}

// Load fetches the three tables in parallel. Concurrent callers share one fetch.
func (s *CatalogService) Load(ctx context.Context) (models.Catalog, error) {
	v, err, _ := s.group.Do("catalog", func() (any, error) {
		return s.load(ctx)
	})
	if err != nil {
		return s.Snapshot(), err
	}
	return v.(models.Catalog), nil
}

func (s *CatalogService) load(ctx context.Context) (models.Catalog, error) {
	var next models.Catalog

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		routes, err := s.Store.ActiveRoutes(gctx)
		if err != nil {
			return domain.BackendUnavailableError{Op: "load routes", Err: err}
		}
		next.Routes = routes
		return nil
	})
	g.Go(func() error {
		shuttles, err := s.Store.ActiveShuttles(gctx)
		if err != nil {
			return domain.BackendUnavailableError{Op: "load shuttles", Err: err}
		}
		next.Shuttles = shuttles
		return nil
	})
	g.Go(func() error {
		schedules, err := s.Store.ActiveSchedules(gctx)
		if err != nil {
			return domain.BackendUnavailableError{Op: "load schedules", Err: err}
		}
		next.Schedules = schedules
		return nil
	})

	if err := g.Wait(); err != nil {
		s.Metrics.RecordCatalogRefresh(false)
		utils.LogError("", "catalog", "load", err)
		return models.Catalog{}, err
	}

	next.LoadedAt = s.Clock.Now()
	s.mu.Lock()
	s.cached = next
	s.mu.Unlock()
	s.Metrics.RecordCatalogRefresh(true)
	return next, nil
}

// Snapshot returns the cached catalog without touching the store.
func (s *CatalogService) Snapshot() models.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached
}

// Current returns the cached catalog, loading it first if nothing is cached yet.
func (s *CatalogService) Current(ctx context.Context) (models.Catalog, error) {
	if c := s.Snapshot(); !c.Empty() {
		return c, nil
	}
	return s.Load(ctx)
}

// RunRefresher reloads the catalog every interval until ctx is cancelled.
// It runs beside booking commits; occupancy is authoritative in the store, not here.
func (s *CatalogService) RunRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("catalog refresher stopped")
			return
		case <-ticker.C:
			if _, err := s.Load(ctx); err != nil {
				slog.Warn("catalog refresh failed, keeping previous catalog", slog.String("error", err.Error()))
			}
		}
	}
}
