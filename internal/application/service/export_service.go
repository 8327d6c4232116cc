package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetops/fleet-reports/internal/application/port"
	"github.com/fleetops/fleet-reports/internal/export"
	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/fleetops/fleet-reports/internal/report"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportService produces the two workbook downloads and keeps their history
type ExportService interface {
	ExportDailyLog(ctx context.Context, sessionID string) (*export.Result, error)
	ExportPremium(ctx context.Context, sessionID string) (*export.Result, error)
	ListExports(ctx context.Context, companyID string, limit int) ([]*models.ExportLog, error)
	DownloadExport(ctx context.Context, exportID string) (*export.Result, error)
}

type exportServiceImpl struct {
	reports  ReportService
	flat     *export.FlatExporter
	workbook *export.WorkbookExporter
	repo     port.ExportLogRepository
	archive  port.ExportArchive
	rules    report.WageRules
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService creates a new ExportService. archive may be nil.
func NewExportService(
	reports ReportService,
	repo port.ExportLogRepository,
	archive port.ExportArchive,
	rules report.WageRules,
	logger *zap.Logger,
) ExportService {
	return &exportServiceImpl{
		reports:  reports,
		flat:     export.NewFlatExporter(logger),
		workbook: export.NewWorkbookExporter(rules, logger),
		repo:     repo,
		archive:  archive,
		rules:    rules,
		logger:   logger,
		now:      time.Now,
	}
}

// ExportDailyLog writes the session's filtered feed as a flat table
func (s *exportServiceImpl) ExportDailyLog(ctx context.Context, sessionID string) (*export.Result, error) {
	view, err := s.reports.View(ctx, sessionID)
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

	now := s.now()
	result, err := s.flat.Export(feed.Rows, export.Meta{CompanyName: view.CompanyName, ExportDate: now})
	if err != nil {
		return nil, err
	}

	s.record(ctx, view, models.ExportKindDailyLog, result, now)
	return result, nil
}

// ExportPremium writes one sheet per selected category
func (s *exportServiceImpl) ExportPremium(ctx context.Context, sessionID string) (*export.Result, error) {
	view, err := s.reports.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result, err := s.workbook.Export(export.WorkbookInput{
		Snapshot:  view.Snapshot,
		Selection: view.Selection,
		Meta:      export.Meta{CompanyName: view.CompanyName, ExportDate: now},
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, view, models.ExportKindPremium, result, now)
	return result, nil
}

// ListExports returns a company's export history, newest first
func (s *exportServiceImpl) ListExports(ctx context.Context, companyID string, limit int) ([]*models.ExportLog, error) {
	if companyID == "" {
		return nil, report.ErrMissingCompany
	}
	return s.repo.ListByCompany(ctx, companyID, limit)
}

// DownloadExport returns the archived workbook of a recorded export
func (s *exportServiceImpl) DownloadExport(ctx context.Context, exportID string) (*export.Result, error) {
	log, err := s.repo.GetByExportID(ctx, exportID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, fmt.Errorf("%w: %s", ErrExportNotFound, exportID)
	}
	if log.ArchivePath == "" || s.archive == nil {
		return nil, fmt.Errorf("%w: %s", ErrExportNotArchived, exportID)
	}

	content, err := s.archive.Load(log.ArchivePath)
	if err != nil {
		s.logger.Error("Failed to read archived export",
			zap.String("export_id", exportID),
			zap.String("path", log.ArchivePath),
			zap.Error(err))
		return nil, fmt.Errorf("failed to read archived export: %w", err)
	}

	return &export.Result{
		FileName: log.FileName,
		Content:  content,
		RowCount: log.RowCount,
	}, nil
}

// record archives and logs a finished export. Failures here never fail
// the download.
func (s *exportServiceImpl) record(ctx context.Context, view report.View, kind string, result *export.Result, now time.Time) {
	log := &models.ExportLog{
		ExportID:    uuid.NewString(),
		SessionID:   view.SessionID,
		CompanyID:   view.CompanyID,
		CompanyName: view.CompanyName,
		Kind:        kind,
		FileName:    result.FileName,
		RowCount:    result.RowCount,
		SheetCount:  len(result.Sheets),
		StartDate:   view.Query.StartDate,
		EndDate:     view.Query.EndDate,
		CreatedAt:   now.UTC(),
	}

	if s.archive != nil {
		path, err := s.archive.Save(view.CompanyID, now, result.FileName, result.Content)
		if err != nil {
			s.logger.Warn("Failed to archive export",
				zap.String("file_name", result.FileName),
				zap.Error(err))
		} else {
			log.ArchivePath = path
		}
	}

	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Error("Failed to record export",
			zap.String("export_id", log.ExportID),
			zap.Error(err))
		return
	}

	s.logger.Info("Export recorded",
		zap.String("export_id", log.ExportID),
		zap.String("kind", kind),
		zap.String("company_id", view.CompanyID))
}
