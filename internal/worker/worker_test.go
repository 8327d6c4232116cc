package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	calls   atomic.Int32
	reaped  int
	ttlSeen atomic.Int64
}

func (s *fakeStore) ReapIdle(ttl time.Duration) int {
	s.calls.Add(1)
	s.ttlSeen.Store(int64(ttl))
	return s.reaped
}

func (s *fakeStore) Count() int { return 0 }

type recordingWorker struct {
	name     string
	startErr error
	log      *[]string
	mu       *sync.Mutex
}

func (w *recordingWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	*w.log = append(*w.log, "start:"+w.name)
	return w.startErr
}

func (w *recordingWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	*w.log = append(*w.log, "stop:"+w.name)
}

func (w *recordingWorker) Name() string { return w.name }

func TestManager_StartStopOrder(t *testing.T) {
	var (
		log []string
		mu  sync.Mutex
	)
	m := NewManager(zap.NewNop())
	m.Register(&recordingWorker{name: "a", log: &log, mu: &mu})
	m.Register(&recordingWorker{name: "b", log: &log, mu: &mu})
	assert.Equal(t, 2, m.Count())

	require.NoError(t, m.StartAll(context.Background()))
	assert.Equal(t, []string{"a", "b"}, m.Running())
	m.StopAll()
	m.StopAll()

	assert.Equal(t, []string{"start:a", "start:b", "stop:b", "stop:a"}, log)
	assert.Empty(t, m.Running())
}

func TestManager_StartFailureStopsStarted(t *testing.T) {
	var (
		log []string
		mu  sync.Mutex
	)
	boom := errors.New("boom")
	m := NewManager(zap.NewNop())
	m.Register(&recordingWorker{name: "a", log: &log, mu: &mu})
	m.Register(&recordingWorker{name: "b", log: &log, mu: &mu, startErr: boom})
	m.Register(&recordingWorker{name: "c", log: &log, mu: &mu})

	err := m.StartAll(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "b")
	assert.Equal(t, []string{"start:a", "start:b", "stop:a"}, log)
	assert.Empty(t, m.Running())
}

func TestSessionReaper_ReapsOnTick(t *testing.T) {
	store := &fakeStore{reaped: 1}
	r := NewSessionReaper(store, time.Hour, 5*time.Millisecond, zap.NewNop())

	require.NoError(t, r.Start(context.Background()))
	assert.Error(t, r.Start(context.Background()), "second start is rejected")

	assert.Eventually(t, func() bool { return store.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(time.Hour), store.ttlSeen.Load())

	r.Stop()
	after := store.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, store.calls.Load(), "no reaping after stop")

	// stopping twice is harmless
	r.Stop()
}

func TestSessionReaper_RejectsZeroTTL(t *testing.T) {
	r := NewSessionReaper(&fakeStore{}, 0, time.Second, zap.NewNop())
	assert.Error(t, r.Start(context.Background()))
}

func TestSessionReaper_ReapOnce(t *testing.T) {
	store := &fakeStore{reaped: 3}
	r := NewSessionReaper(store, time.Minute, 0, zap.NewNop())
	assert.Equal(t, 3, r.ReapOnce())
	assert.Equal(t, "SessionReaper", r.Name())
}
