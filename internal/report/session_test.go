package report

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	store := NewSessionStore()

	t.Run("init requires company and valid range", func(t *testing.T) {
		_, err := store.Init("", "Acme", "", "")
		assert.ErrorIs(t, err, ErrMissingCompany)

		_, err = store.Init("C1", "Acme", "2024-06-01", "2024-05-01")
		assert.ErrorIs(t, err, ErrInvalidDateRange)

		_, err = store.Init("C1", "Acme", "01-05-2024", "")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("init, update, teardown", func(t *testing.T) {
		s, err := store.Init("C1", "Acme", "2024-05-01", "2024-05-31")
		require.NoError(t, err)

		state := s.State()
		assert.Equal(t, "C1", state.CompanyID)
		assert.True(t, state.AllSelected)

		got, err := store.Get(s.ID())
		require.NoError(t, err)
		assert.Same(t, s, got)

		end := "2024-06-30"
		require.NoError(t, s.Update(SessionUpdate{EndDate: &end}))
		assert.Equal(t, "2024-06-30", s.View().Query.EndDate)

		require.NoError(t, store.Teardown(s.ID()))
		_, err = store.Get(s.ID())
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.ErrorIs(t, store.Teardown(s.ID()), ErrSessionNotFound)
	})
}

func TestSession_StaleResponsesAreDiscarded(t *testing.T) {
	store := NewSessionStore()
	s, err := store.Init("C1", "Acme", "", "")
	require.NoError(t, err)

	t.Run("older token loses to newer", func(t *testing.T) {
		oldToken, _ := s.BeginRequest()
		newToken, _ := s.BeginRequest()

		require.NoError(t, s.Commit(newToken, &Snapshot{FetchedAt: time.Unix(2, 0)}))
		assert.ErrorIs(t, s.Commit(oldToken, &Snapshot{FetchedAt: time.Unix(1, 0)}), ErrStaleResponse)
		assert.Equal(t, time.Unix(2, 0), s.View().Snapshot.FetchedAt)
	})

	t.Run("scope change supersedes in-flight fetch", func(t *testing.T) {
		token, _ := s.BeginRequest()
		start := "2024-01-01"
		require.NoError(t, s.Update(SessionUpdate{StartDate: &start}))

		assert.ErrorIs(t, s.Commit(token, &Snapshot{}), ErrStaleResponse)
		assert.Nil(t, s.View().Snapshot)
	})

	t.Run("concurrent fetches keep exactly the latest", func(t *testing.T) {
		var wg sync.WaitGroup
		tokens := make(chan uint64, 20)
		for i := 0; i < 20; i++ {
			token, _ := s.BeginRequest()
			tokens <- token
		}
		close(tokens)

		accepted := make(chan uint64, 20)
		for token := range tokens {
			wg.Add(1)
			go func(tok uint64) {
				defer wg.Done()
				if s.Commit(tok, &Snapshot{}) == nil {
					accepted <- tok
				}
			}(token)
		}
		wg.Wait()
		close(accepted)

		var got []uint64
		for tok := range accepted {
			got = append(got, tok)
		}
		assert.Len(t, got, 1)
	})
}

func TestSession_ViewIsIsolated(t *testing.T) {
	store := NewSessionStore()
	s, err := store.Init("C1", "Acme", "", "")
	require.NoError(t, err)

	view := s.View()
	require.True(t, s.Toggle(CategoryFuel))
	s.SetSearch("ravi")

	assert.True(t, view.Selection.Has(CategoryFuel))
	assert.Empty(t, view.Search)

	before := s.View().Selection
	assert.False(t, s.Toggle("tolls"))
	assert.Equal(t, before, s.View().Selection)
}

func TestSessionStore_ReapIdle(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.now = func() time.Time { return now }

	idle, err := store.Init("C1", "Acme", "", "")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	active, err := store.Init("C2", "Other", "", "")
	require.NoError(t, err)

	assert.Equal(t, 1, store.ReapIdle(time.Hour))
	_, err = store.Get(idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(active.ID())
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Count())
}
