package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetops/fleet-reports/internal/application/port"
	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/fleetops/fleet-reports/internal/report"
	"go.uber.org/zap"
)

// OpenSessionInput starts a report session at login
type OpenSessionInput struct {
	CompanyID   string
	CompanyName string
	StartDate   string
	EndDate     string
}

// ReportService drives report sessions: scope, toggles, search, fetching
// and record deletion
type ReportService interface {
	OpenSession(in OpenSessionInput) (report.SessionState, error)
	GetSession(id string) (report.SessionState, error)
	UpdateSession(id string, u report.SessionUpdate) (report.SessionState, error)
	CloseSession(id string) error
	ToggleCategory(id string, c report.Category) (report.SessionState, error)
	SelectAll(id string) (report.SessionState, error)
	SetSearch(id, term string) (report.SessionState, error)
	Refresh(ctx context.Context, id string) (*report.Snapshot, error)
	View(ctx context.Context, id string) (report.View, error)
	Feed(ctx context.Context, id string) (*report.Feed, error)
	DeleteRecord(ctx context.Context, id string, kind models.Kind, recordID string) error
}

type reportServiceImpl struct {
	sessions *report.SessionStore
	loader   port.SnapshotLoader
	deleter  port.RecordDeleter
	rules    report.WageRules
	logger   *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	sessions *report.SessionStore,
	loader port.SnapshotLoader,
	deleter port.RecordDeleter,
	rules report.WageRules,
	logger *zap.Logger,
) ReportService {
	return &reportServiceImpl{
		sessions: sessions,
		loader:   loader,
		deleter:  deleter,
		rules:    rules,
		logger:   logger,
	}
}

// OpenSession creates a session with every category selected
func (s *reportServiceImpl) OpenSession(in OpenSessionInput) (report.SessionState, error) {
	sess, err := s.sessions.Init(in.CompanyID, in.CompanyName, in.StartDate, in.EndDate)
	if err != nil {
		return report.SessionState{}, err
	}
	s.logger.Info("Report session opened",
		zap.String("session_id", sess.ID()),
		zap.String("company_id", in.CompanyID))
	return sess.State(), nil
}

// GetSession returns the session state
func (s *reportServiceImpl) GetSession(id string) (report.SessionState, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return report.SessionState{}, err
	}
	return sess.State(), nil
}

// UpdateSession changes company or dates
func (s *reportServiceImpl) UpdateSession(id string, u report.SessionUpdate) (report.SessionState, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return report.SessionState{}, err
	}
	if err := sess.Update(u); err != nil {
		return report.SessionState{}, err
	}
	return sess.State(), nil
}

// CloseSession tears a session down at logout
func (s *reportServiceImpl) CloseSession(id string) error {
	if err := s.sessions.Teardown(id); err != nil {
		return err
	}
	s.logger.Info("Report session closed", zap.String("session_id", id))
	return nil
}

// ToggleCategory flips one category. Unknown ids are a no-op.
func (s *reportServiceImpl) ToggleCategory(id string, c report.Category) (report.SessionState, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return report.SessionState{}, err
	}
	if !sess.Toggle(c) {
		s.logger.Debug("Ignoring toggle of unknown category",
			zap.String("session_id", id),
			zap.String("category", string(c)))
	}
	return sess.State(), nil
}

// SelectAll applies the select-all/clear-all toggle
func (s *reportServiceImpl) SelectAll(id string) (report.SessionState, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return report.SessionState{}, err
	}
	sess.SelectAll()
	return sess.State(), nil
}

// SetSearch replaces the search text
func (s *reportServiceImpl) SetSearch(id, term string) (report.SessionState, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return report.SessionState{}, err
	}
	sess.SetSearch(term)
	return sess.State(), nil
}

// Refresh fetches the session's scope and commits the snapshot. It returns
// report.ErrStaleResponse when a newer fetch started meanwhile; the
// snapshot is then discarded.
func (s *reportServiceImpl) Refresh(ctx context.Context, id string) (*report.Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, sess, true)
}

// refresh fetches and commits the session scope. fresh skips the snapshot
// cache; only the lazy first load of a view may use it.
func (s *reportServiceImpl) refresh(ctx context.Context, sess *report.Session, fresh bool) (*report.Snapshot, error) {
	token, q := sess.BeginRequest()

	load := s.loader.Load
	if fresh {
		load = s.loader.LoadFresh
	}
	snap, err := load(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load report data: %w", err)
	}

	if err := sess.Commit(token, snap); err != nil {
		s.logger.Debug("Discarding superseded snapshot",
			zap.String("session_id", sess.ID()),
			zap.Uint64("token", token))
		return nil, err
	}

	if len(snap.Failed) > 0 {
		failed := make([]string, len(snap.Failed))
		for i, k := range snap.Failed {
			failed[i] = string(k)
		}
		s.logger.Warn("Report refreshed with missing categories",
			zap.String("session_id", sess.ID()),
			zap.Strings("failed", failed))
	}
	return snap, nil
}

// View returns the session view, fetching first when no snapshot is held
func (s *reportServiceImpl) View(ctx context.Context, id string) (report.View, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return report.View{}, err
	}

	view := sess.View()
	if view.Snapshot != nil {
		return view, nil
	}

	if _, err := s.refresh(ctx, sess, false); err != nil && !errors.Is(err, report.ErrStaleResponse) {
		return report.View{}, err
	}

	// A concurrent refresh may have won; use whatever is committed now
	view = sess.View()
	if view.Snapshot == nil {
		return report.View{}, report.ErrStaleResponse
	}
	return view, nil
}

// Feed builds the interactive table for the session
func (s *reportServiceImpl) Feed(ctx context.Context, id string) (*report.Feed, error) {
	view, err := s.View(ctx, id)
	if err != nil {
		return nil, err
	}
	feed := report.BuildFeed(report.FeedInput{
		Snapshot:    view.Snapshot,
		Selection:   view.Selection,
		Search:      view.Search,
		CompanyName: view.CompanyName,
		Rules:       s.rules,
	})
	return &feed, nil
}

// DeleteRecord deletes a record on the backend, then re-fetches. Local
// state is never edited in place; a failed delete leaves it untouched.
func (s *reportServiceImpl) DeleteRecord(ctx context.Context, id string, kind models.Kind, recordID string) error {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return err
	}

	if err := s.deleter.Delete(ctx, kind, recordID); err != nil {
		s.logger.Warn("Record delete failed",
			zap.String("kind", string(kind)),
			zap.String("record_id", recordID),
			zap.Error(err))
		return err
	}

	companyID := sess.View().CompanyID
	if err := s.loader.Invalidate(ctx, companyID); err != nil {
		s.logger.Warn("Failed to invalidate cached snapshots",
			zap.String("company_id", companyID),
			zap.Error(err))
	}
	sess.Invalidate()

	s.logger.Info("Record deleted",
		zap.String("kind", string(kind)),
		zap.String("record_id", recordID),
		zap.String("company_id", companyID))

	if _, err := s.refresh(ctx, sess, true); err != nil && !errors.Is(err, report.ErrStaleResponse) {
		// The delete itself succeeded; the next read fetches again
		s.logger.Warn("Re-fetch after delete failed", zap.Error(err))
	}
	return nil
}
