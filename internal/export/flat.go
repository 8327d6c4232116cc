package export

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/fleetops/fleet-reports/internal/report"
)

// DailyLogSheet is the only sheet of the flat export
const DailyLogSheet = "Daily Log"

var dailyLogHeaders = []string{
	"Date", "Name", "Car", "In", "Out", "KM", "Daily", "Bonus", "T/P", "Company", "Remarks",
}

// FlatExporter writes the interactive feed as a single table
type FlatExporter struct {
	logger *zap.Logger
}

// NewFlatExporter creates a new flat exporter
func NewFlatExporter(logger *zap.Logger) *FlatExporter {
	return &FlatExporter{logger: logger}
}

// Export renders feed rows in the order given. Wages must already be
// attributed; the rows are not re-ledgered.
func (e *FlatExporter) Export(rows []report.Row, meta Meta) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	w, err := newWorkbookWriter()
	if err != nil {
		return nil, err
	}
	defer w.close()

	spec := sheetSpec{name: DailyLogSheet, headers: dailyLogHeaders}
	for _, row := range rows {
		spec.rows = append(spec.rows, dailyLogRow(row))
	}
	if err := w.addSheet(spec); err != nil {
		return nil, fmt.Errorf("failed to write daily log: %w", err)
	}

	result, err := w.finish(DailyLogFileName(meta.CompanyName, meta.ExportDate))
	if err != nil {
		return nil, err
	}

	e.logger.Info("Daily log exported",
		zap.String("file_name", result.FileName),
		zap.Int("rows", result.RowCount))
	return result, nil
}

func dailyLogRow(r report.Row) []interface{} {
	if r.EntryType == models.KindAttendance {
		return []interface{}{
			orDash(r.Date),
			orDash(r.Name),
			orDash(r.Car),
			orDash(r.In),
			orDash(r.Out),
			r.KM,
			r.Daily,
			r.Bonus,
			r.TollParking,
			orDash(r.Company),
			orDash(r.Remarks),
		}
	}

	remarks := r.EntryType.Label()
	if r.Remarks != "" {
		remarks += ": " + r.Remarks
	}
	return []interface{}{
		orDash(r.Date),
		orDash(r.Name),
		orDash(r.Car),
		placeholder,
		placeholder,
		r.KM,
		r.Amount,
		0.0,
		0.0,
		placeholder,
		remarks,
	}
}
