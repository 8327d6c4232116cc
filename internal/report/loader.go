package report

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fleetops/fleet-reports/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher reads the eight record collections from the fleet backend
type Fetcher interface {
	FetchAttendance(ctx context.Context, q models.RangeQuery) ([]models.Attendance, error)
	FetchFuel(ctx context.Context, q models.RangeQuery) ([]models.Fuel, error)
	FetchMaintenance(ctx context.Context, q models.RangeQuery) ([]models.Maintenance, error)
	FetchAdvances(ctx context.Context, q models.RangeQuery) ([]models.Advance, error)
	FetchBorderTax(ctx context.Context, q models.RangeQuery) ([]models.BorderTax, error)
	FetchFastag(ctx context.Context, q models.RangeQuery) ([]models.FastagRecharge, error)
	FetchParking(ctx context.Context, q models.RangeQuery) ([]models.Parking, error)
	FetchAccidents(ctx context.Context, q models.RangeQuery) ([]models.Accident, error)
}

// SnapshotCache stores complete snapshots under versioned keys
type SnapshotCache interface {
	BuildKey(ctx context.Context, scope string, parts ...string) (string, error)
	Load(ctx context.Context, key string, dest interface{}) (bool, error)
	Store(ctx context.Context, key string, value interface{}) error
	Bump(ctx context.Context, scope string) error
}

// Loader builds snapshots, fetching all categories in parallel
type Loader struct {
	fetcher     Fetcher
	cache       SnapshotCache
	parallelism int
	logger      *zap.Logger
	now         func() time.Time
}

// NewLoader creates a new Loader. cache may be nil to always hit the backend.
func NewLoader(fetcher Fetcher, cache SnapshotCache, parallelism int, logger *zap.Logger) *Loader {
	if parallelism <= 0 {
		parallelism = len(models.AllKinds)
	}
	return &Loader{
		fetcher:     fetcher,
		cache:       cache,
		parallelism: parallelism,
		logger:      logger,
		now:         time.Now,
	}
}

// Load returns the snapshot for q, served from the cache when present. A
// category whose fetch fails is logged and left empty; only a cancelled
// context fails the load. Snapshots with failed categories are never cached.
func (l *Loader) Load(ctx context.Context, q models.RangeQuery) (*Snapshot, error) {
	return l.load(ctx, q, true)
}

// LoadFresh always fetches from the backend and replaces the cached snapshot
func (l *Loader) LoadFresh(ctx context.Context, q models.RangeQuery) (*Snapshot, error) {
	return l.load(ctx, q, false)
}

func (l *Loader) load(ctx context.Context, q models.RangeQuery, useCached bool) (*Snapshot, error) {
	key := ""
	if l.cache != nil {
		k, err := l.cache.BuildKey(ctx, q.CompanyID, "snapshot", q.CompanyID, rangeToken(q.StartDate), rangeToken(q.EndDate))
		if err != nil {
			l.logger.Warn("Snapshot cache unavailable", zap.Error(err))
		} else {
			key = k
		}
		if key != "" && useCached {
			var cached Snapshot
			hit, err := l.cache.Load(ctx, key, &cached)
			if err != nil {
				l.logger.Warn("Failed to read cached snapshot", zap.String("key", key), zap.Error(err))
			} else if hit {
				l.logger.Debug("Snapshot cache hit", zap.String("key", key))
				return &cached, nil
			}
		}
	}

	snap := l.fetchAll(ctx, q)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("snapshot load aborted: %w", err)
	}

	if key != "" && len(snap.Failed) == 0 {
		if err := l.cache.Store(ctx, key, snap); err != nil {
			l.logger.Warn("Failed to cache snapshot", zap.String("key", key), zap.Error(err))
		}
	}
	return snap, nil
}

// Invalidate drops every cached snapshot of a company
func (l *Loader) Invalidate(ctx context.Context, companyID string) error {
	if l.cache == nil {
		return nil
	}
	if err := l.cache.Bump(ctx, companyID); err != nil {
		return fmt.Errorf("failed to invalidate snapshots: %w", err)
	}
	return nil
}

func (l *Loader) fetchAll(ctx context.Context, q models.RangeQuery) *Snapshot {
	snap := &Snapshot{Query: q}

	var mu sync.Mutex
	onErr := func(kind models.Kind, err error) {
		l.logger.Warn("Category fetch failed, using empty list",
			zap.String("category", string(kind)),
			zap.String("company_id", q.CompanyID),
			zap.Error(err))
		mu.Lock()
		snap.Failed = append(snap.Failed, kind)
		mu.Unlock()
	}

	g := new(errgroup.Group)
	g.SetLimit(l.parallelism)

	fetchInto(ctx, g, q, models.KindAttendance, &snap.Attendance, l.fetcher.FetchAttendance, onErr)
	fetchInto(ctx, g, q, models.KindFuel, &snap.Fuel, l.fetcher.FetchFuel, onErr)
	fetchInto(ctx, g, q, models.KindMaintenance, &snap.Maintenance, l.fetcher.FetchMaintenance, onErr)
	fetchInto(ctx, g, q, models.KindAdvance, &snap.Advances, l.fetcher.FetchAdvances, onErr)
	fetchInto(ctx, g, q, models.KindBorderTax, &snap.BorderTax, l.fetcher.FetchBorderTax, onErr)
	fetchInto(ctx, g, q, models.KindFastag, &snap.Fastag, l.fetcher.FetchFastag, onErr)
	fetchInto(ctx, g, q, models.KindParking, &snap.Parking, l.fetcher.FetchParking, onErr)
	fetchInto(ctx, g, q, models.KindAccident, &snap.Accidents, l.fetcher.FetchAccidents, onErr)

	// Fetch goroutines report failures through onErr and never return errors
	_ = g.Wait()

	sort.Slice(snap.Failed, func(i, j int) bool {
		return kindIndex(snap.Failed[i]) < kindIndex(snap.Failed[j])
	})
	snap.FetchedAt = l.now()

	l.logger.Info("Snapshot fetched",
		zap.String("company_id", q.CompanyID),
		zap.String("start_date", q.StartDate),
		zap.String("end_date", q.EndDate),
		zap.Int("attendance", len(snap.Attendance)),
		zap.Int("failed_categories", len(snap.Failed)))

	return snap
}

func fetchInto[T any](
	ctx context.Context,
	g *errgroup.Group,
	q models.RangeQuery,
	kind models.Kind,
	dst *[]T,
	fetch func(context.Context, models.RangeQuery) ([]T, error),
	onErr func(models.Kind, error),
) {
	g.Go(func() error {
		records, err := fetch(ctx, q)
		if err != nil {
			onErr(kind, err)
			records = nil
		}
		if records == nil {
			records = []T{}
		}
		*dst = records
		return nil
	})
}

func kindIndex(k models.Kind) int {
	for i, kind := range models.AllKinds {
		if kind == k {
			return i
		}
	}
	return len(models.AllKinds)
}

func rangeToken(date string) string {
	if date == "" {
		return "-"
	}
	return date
}
