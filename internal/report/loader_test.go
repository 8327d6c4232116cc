package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	fail  map[models.Kind]bool
	data  Snapshot
}

func (f *fakeFetcher) hit(kind models.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[kind] {
		return errors.New("backend unavailable")
	}
	return nil
}

func (f *fakeFetcher) FetchAttendance(ctx context.Context, q models.RangeQuery) ([]models.Attendance, error) {
	return f.data.Attendance, f.hit(models.KindAttendance)
}

func (f *fakeFetcher) FetchFuel(ctx context.Context, q models.RangeQuery) ([]models.Fuel, error) {
	return f.data.Fuel, f.hit(models.KindFuel)
}

func (f *fakeFetcher) FetchMaintenance(ctx context.Context, q models.RangeQuery) ([]models.Maintenance, error) {
	return f.data.Maintenance, f.hit(models.KindMaintenance)
}

func (f *fakeFetcher) FetchAdvances(ctx context.Context, q models.RangeQuery) ([]models.Advance, error) {
	return f.data.Advances, f.hit(models.KindAdvance)
}

func (f *fakeFetcher) FetchBorderTax(ctx context.Context, q models.RangeQuery) ([]models.BorderTax, error) {
	return f.data.BorderTax, f.hit(models.KindBorderTax)
}

func (f *fakeFetcher) FetchFastag(ctx context.Context, q models.RangeQuery) ([]models.FastagRecharge, error) {
	return f.data.Fastag, f.hit(models.KindFastag)
}

func (f *fakeFetcher) FetchParking(ctx context.Context, q models.RangeQuery) ([]models.Parking, error) {
	return f.data.Parking, f.hit(models.KindParking)
}

func (f *fakeFetcher) FetchAccidents(ctx context.Context, q models.RangeQuery) ([]models.Accident, error) {
	return f.data.Accidents, f.hit(models.KindAccident)
}

type memoryCache struct {
	version int
	items   map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{version: 1, items: map[string][]byte{}}
}

func (c *memoryCache) BuildKey(ctx context.Context, scope string, parts ...string) (string, error) {
	return strings.Join(append(parts, string(rune('0'+c.version))), ":"), nil
}

func (c *memoryCache) Load(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Store(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}

func (c *memoryCache) Bump(ctx context.Context, scope string) error {
	c.version++
	return nil
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()
	query := models.RangeQuery{CompanyID: "C1", StartDate: "2024-05-01", EndDate: "2024-05-31"}

	t.Run("failed categories degrade to empty lists", func(t *testing.T) {
		fetcher := &fakeFetcher{
			fail: map[models.Kind]bool{models.KindFuel: true, models.KindAccident: true},
			data: Snapshot{Attendance: []models.Attendance{staffDuty("A1", "D1", "Ravi", "2024-05-01", 600)}},
		}
		loader := NewLoader(fetcher, nil, 0, zap.NewNop())

		snap, err := loader.Load(ctx, query)

		require.NoError(t, err)
		assert.Equal(t, 8, fetcher.calls)
		assert.Len(t, snap.Attendance, 1)
		assert.NotNil(t, snap.Fuel)
		assert.Empty(t, snap.Fuel)
		assert.Equal(t, []models.Kind{models.KindFuel, models.KindAccident}, snap.Failed)
		assert.Equal(t, query, snap.Query)
	})

	t.Run("complete snapshots are served from cache until bumped", func(t *testing.T) {
		fetcher := &fakeFetcher{data: Snapshot{Fuel: []models.Fuel{{ID: "F1", Amount: 900}}}}
		cache := newMemoryCache()
		loader := NewLoader(fetcher, cache, 4, zap.NewNop())

		_, err := loader.Load(ctx, query)
		require.NoError(t, err)
		snap, err := loader.Load(ctx, query)
		require.NoError(t, err)

		assert.Equal(t, 8, fetcher.calls)
		require.Len(t, snap.Fuel, 1)
		assert.Equal(t, 900.0, snap.Fuel[0].Amount.Float())

		require.NoError(t, loader.Invalidate(ctx, "C1"))
		_, err = loader.Load(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, 16, fetcher.calls)
	})

	t.Run("fresh load bypasses the cache and replaces the entry", func(t *testing.T) {
		fetcher := &fakeFetcher{data: Snapshot{Attendance: []models.Attendance{staffDuty("A1", "D1", "Ravi", "2024-05-01", 600)}}}
		cache := newMemoryCache()
		loader := NewLoader(fetcher, cache, 0, zap.NewNop())

		_, err := loader.Load(ctx, query)
		require.NoError(t, err)
		require.Equal(t, 8, fetcher.calls)

		fetcher.data.Attendance = append(fetcher.data.Attendance, staffDuty("A2", "D2", "Amit", "2024-05-02", 500))

		snap, err := loader.LoadFresh(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, 16, fetcher.calls)
		assert.Len(t, snap.Attendance, 2)

		cached, err := loader.Load(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, 16, fetcher.calls)
		assert.Len(t, cached.Attendance, 2)
	})

	t.Run("partial snapshots are not cached", func(t *testing.T) {
		fetcher := &fakeFetcher{fail: map[models.Kind]bool{models.KindParking: true}}
		cache := newMemoryCache()
		loader := NewLoader(fetcher, cache, 0, zap.NewNop())

		_, err := loader.Load(ctx, query)
		require.NoError(t, err)

		assert.Empty(t, cache.items)
	})

	t.Run("cancelled context fails the load", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		loader := NewLoader(&fakeFetcher{}, nil, 0, zap.NewNop())

		_, err := loader.Load(cctx, query)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
