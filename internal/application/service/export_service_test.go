package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetops/fleet-reports/internal/export"
	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/fleetops/fleet-reports/internal/report"
)

var fixedNow = time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)

func newExportService(t *testing.T, repo *fakeExportRepo, archive *fakeArchive) (ExportService, ReportService, string) {
	t.Helper()
	reports := newReportService(&fakeLoader{}, &fakeDeleter{})
	id := openSession(t, reports)

	var svc ExportService
	if archive != nil {
		svc = NewExportService(reports, repo, archive, report.DefaultWageRules(), zap.NewNop())
	} else {
		svc = NewExportService(reports, repo, nil, report.DefaultWageRules(), zap.NewNop())
	}
	svc.(*exportServiceImpl).now = func() time.Time { return fixedNow }
	return svc, reports, id
}

func TestExportService_ExportDailyLog(t *testing.T) {
	ctx := context.Background()
	repo := &fakeExportRepo{}
	archive := &fakeArchive{}
	svc, _, id := newExportService(t, repo, archive)

	result, err := svc.ExportDailyLog(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Daily_Log_Acme_Travels_2024-05-03.xlsx", result.FileName)
	assert.Equal(t, 3, result.RowCount)
	assert.NotEmpty(t, result.Content)

	require.Len(t, repo.logs, 1)
	log := repo.logs[0]
	assert.Equal(t, models.ExportKindDailyLog, log.Kind)
	assert.Equal(t, "C1", log.CompanyID)
	assert.Equal(t, id, log.SessionID)
	assert.Equal(t, 1, log.SheetCount)
	assert.Equal(t, "2024-05-01", log.StartDate)
	assert.Equal(t, "/archive/C1/2024-05/Daily_Log_Acme_Travels_2024-05-03.xlsx", log.ArchivePath)
	assert.Equal(t, result.Content, archive.saved[log.ArchivePath])
}

func TestExportService_ExportDailyLogEmpty(t *testing.T) {
	ctx := context.Background()
	repo := &fakeExportRepo{}
	svc, reports, id := newExportService(t, repo, nil)

	_, err := reports.SetSearch(id, "no such driver")
	require.NoError(t, err)

	result, err := svc.ExportDailyLog(ctx, id)
	assert.ErrorIs(t, err, export.ErrNoData)
	assert.Nil(t, result)
	assert.Empty(t, repo.logs)
}

func TestExportService_ExportPremium(t *testing.T) {
	ctx := context.Background()

	t.Run("ignores search and records history", func(t *testing.T) {
		repo := &fakeExportRepo{}
		svc, reports, id := newExportService(t, repo, nil)
		_, err := reports.SetSearch(id, "no such driver")
		require.NoError(t, err)

		result, err := svc.ExportPremium(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Premium_Fleet_Export_2024-05-03.xlsx", result.FileName)
		assert.Equal(t, []string{"Staff Drivers", export.VehicleSummarySheet, "Fuel"}, result.Sheets)

		require.Len(t, repo.logs, 1)
		assert.Equal(t, models.ExportKindPremium, repo.logs[0].Kind)
		assert.Equal(t, 3, repo.logs[0].SheetCount)
		assert.Empty(t, repo.logs[0].ArchivePath)
	})

	t.Run("no selected data", func(t *testing.T) {
		repo := &fakeExportRepo{}
		svc, reports, id := newExportService(t, repo, nil)
		_, err := reports.SelectAll(id)
		require.NoError(t, err)

		_, err = svc.ExportPremium(ctx, id)
		assert.ErrorIs(t, err, export.ErrNoData)
		assert.Empty(t, repo.logs)
	})

	t.Run("history and archive failures do not fail the export", func(t *testing.T) {
		repo := &fakeExportRepo{err: errors.New("database is locked")}
		svc, _, id := newExportService(t, repo, &fakeArchive{err: errors.New("disk full")})

		result, err := svc.ExportPremium(ctx, id)
		require.NoError(t, err)
		assert.NotEmpty(t, result.Content)
	})
}

func TestExportService_ListExports(t *testing.T) {
	ctx := context.Background()
	repo := &fakeExportRepo{}
	svc, _, id := newExportService(t, repo, nil)

	_, err := svc.ExportDailyLog(ctx, id)
	require.NoError(t, err)
	_, err = svc.ExportPremium(ctx, id)
	require.NoError(t, err)

	logs, err := svc.ListExports(ctx, "C1", 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ExportKindPremium, logs[0].Kind)

	_, err = svc.ListExports(ctx, "", 10)
	assert.ErrorIs(t, err, report.ErrMissingCompany)
}

func TestExportService_DownloadExport(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the archived workbook", func(t *testing.T) {
		repo := &fakeExportRepo{}
		svc, _, id := newExportService(t, repo, &fakeArchive{})

		original, err := svc.ExportPremium(ctx, id)
		require.NoError(t, err)
		require.Len(t, repo.logs, 1)

		got, err := svc.DownloadExport(ctx, repo.logs[0].ExportID)
		require.NoError(t, err)
		assert.Equal(t, original.FileName, got.FileName)
		assert.Equal(t, original.Content, got.Content)
		assert.Equal(t, original.RowCount, got.RowCount)
	})

	t.Run("unknown export", func(t *testing.T) {
		svc, _, _ := newExportService(t, &fakeExportRepo{}, &fakeArchive{})

		_, err := svc.DownloadExport(ctx, "missing")
		assert.ErrorIs(t, err, ErrExportNotFound)
	})

	t.Run("export recorded without archive", func(t *testing.T) {
		repo := &fakeExportRepo{}
		svc, _, id := newExportService(t, repo, nil)

		_, err := svc.ExportDailyLog(ctx, id)
		require.NoError(t, err)

		_, err = svc.DownloadExport(ctx, repo.logs[0].ExportID)
		assert.ErrorIs(t, err, ErrExportNotArchived)
	})

	t.Run("archived file gone", func(t *testing.T) {
		repo := &fakeExportRepo{}
		archive := &fakeArchive{}
		svc, _, id := newExportService(t, repo, archive)

		_, err := svc.ExportDailyLog(ctx, id)
		require.NoError(t, err)
		archive.saved = nil

		_, err = svc.DownloadExport(ctx, repo.logs[0].ExportID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrExportNotFound)
	})
}
