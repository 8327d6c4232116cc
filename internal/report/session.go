package report

import (
	"fmt"
	"sync"
	"time"

	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/google/uuid"
)

// Session is the report state of one signed-in back-office user: the
// selected company and date window, the category toggles, the search text
// and the last accepted snapshot. It lives from login (Init) through
// updates to logout (Teardown).
type Session struct {
	mu sync.Mutex

	id          string
	companyID   string
	companyName string
	startDate   string
	endDate     string
	selection   *Selection
	search      string
	snapshot    *Snapshot

	// token is the id of the most recently issued fetch; only its
	// response may replace the snapshot
	token uint64

	createdAt time.Time
	lastSeen  time.Time
}

// SessionState is a point-in-time copy of a session for API responses
type SessionState struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"company_id"`
	CompanyName string     `json:"company_name"`
	StartDate   string     `json:"start_date,omitempty"`
	EndDate     string     `json:"end_date,omitempty"`
	Categories  []Category `json:"categories"`
	AllSelected bool       `json:"all_selected"`
	Search      string     `json:"search,omitempty"`
	FetchedAt   *time.Time `json:"fetched_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastSeen    time.Time  `json:"last_seen"`
}

// SessionUpdate changes the report scope. Nil fields are left alone.
type SessionUpdate struct {
	CompanyID   *string
	CompanyName *string
	StartDate   *string
	EndDate     *string
}

// View is a consistent read of everything a feed or export pass needs
type View struct {
	SessionID   string
	CompanyID   string
	CompanyName string
	Query       models.RangeQuery
	Selection   *Selection
	Search      string
	Snapshot    *Snapshot
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// State returns a copy of the session state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SessionState{
		ID:          s.id,
		CompanyID:   s.companyID,
		CompanyName: s.companyName,
		StartDate:   s.startDate,
		EndDate:     s.endDate,
		Categories:  s.selection.Categories(),
		AllSelected: s.selection.AllSelected(),
		Search:      s.search,
		CreatedAt:   s.createdAt,
		LastSeen:    s.lastSeen,
	}
	if s.snapshot != nil {
		fetched := s.snapshot.FetchedAt
		state.FetchedAt = &fetched
	}
	return state
}

// Update applies a scope change. Changing company or dates drops the
// snapshot and supersedes any fetch in flight.
func (s *Session) Update(u SessionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	companyID, start, end := s.companyID, s.startDate, s.endDate
	if u.CompanyID != nil {
		companyID = *u.CompanyID
	}
	if u.StartDate != nil {
		start = *u.StartDate
	}
	if u.EndDate != nil {
		end = *u.EndDate
	}
	if companyID == "" {
		return ErrMissingCompany
	}
	if err := validateRange(start, end); err != nil {
		return err
	}

	if companyID != s.companyID || start != s.startDate || end != s.endDate {
		s.snapshot = nil
		s.token++
	}
	s.companyID, s.startDate, s.endDate = companyID, start, end
	if u.CompanyName != nil {
		s.companyName = *u.CompanyName
	}
	return nil
}

// Toggle flips a category. Unknown ids leave the selection unchanged and
// report false.
func (s *Session) Toggle(c Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Toggle(c)
}

// SelectAll applies the select-all/clear-all toggle
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.SelectAll()
}

// SetSearch replaces the free-text filter
func (s *Session) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = term
}

// BeginRequest issues a new fetch token and returns the query to run
func (s *Session) BeginRequest() (uint64, models.RangeQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	return s.token, s.queryLocked()
}

// Commit stores the snapshot of the fetch identified by token, unless a
// newer fetch was issued meanwhile
func (s *Session) Commit(token uint64, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token {
		return ErrStaleResponse
	}
	s.snapshot = snap
	return nil
}

// Invalidate drops the snapshot so the next read re-fetches
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
}

// View returns a consistent copy for a feed or export pass. Snapshot is
// nil when nothing has been fetched for the current scope.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		SessionID:   s.id,
		CompanyID:   s.companyID,
		CompanyName: s.companyName,
		Query:       s.queryLocked(),
		Selection:   s.selection.Clone(),
		Search:      s.search,
		Snapshot:    s.snapshot,
	}
}

func (s *Session) queryLocked() models.RangeQuery {
	return models.RangeQuery{CompanyID: s.companyID, StartDate: s.startDate, EndDate: s.endDate}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionStore owns all live sessions
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Init opens a session for a company with every category selected
func (st *SessionStore) Init(companyID, companyName, startDate, endDate string) (*Session, error) {
	if companyID == "" {
		return nil, ErrMissingCompany
	}
	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}

	now := st.now()
	s := &Session{
		id:          uuid.NewString(),
		companyID:   companyID,
		companyName: companyName,
		startDate:   startDate,
		endDate:     endDate,
		selection:   NewSelection(AllCategories...),
		createdAt:   now,
		lastSeen:    now,
	}

	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()
	return s, nil
}

// Get returns a live session and marks it as used
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(st.now())
	return s, nil
}

// Teardown closes a session
func (st *SessionStore) Teardown(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

// ReapIdle closes sessions unused for longer than ttl and returns how many
func (st *SessionStore) ReapIdle(ttl time.Duration) int {
	cutoff := st.now().Add(-ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	reaped := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			reaped++
		}
	}
	return reaped
}

// Count returns the number of live sessions
func (st *SessionStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func validateRange(start, end string) error {
	if start != "" && models.CalendarDate(start) != start {
		return fmt.Errorf("%w: bad start date %q", ErrInvalidDateRange, start)
	}
	if end != "" && models.CalendarDate(end) != end {
		return fmt.Errorf("%w: bad end date %q", ErrInvalidDateRange, end)
	}
	if start != "" && end != "" && start > end {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange, start, end)
	}
	return nil
}
