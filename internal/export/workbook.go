package export

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/fleetops/fleet-reports/internal/report"
)

// WorkbookInput is what the categorized export is built from
type WorkbookInput struct {
	Snapshot  *report.Snapshot
	Selection *report.Selection
	Meta      Meta
}

// WorkbookExporter writes one sheet per selected category that has data
type WorkbookExporter struct {
	rules  report.WageRules
	logger *zap.Logger
}

// NewWorkbookExporter creates a new multi-sheet exporter
func NewWorkbookExporter(rules report.WageRules, logger *zap.Logger) *WorkbookExporter {
	return &WorkbookExporter{rules: rules, logger: logger}
}

// Export builds the categorized workbook. The search term does not apply.
func (e *WorkbookExporter) Export(in WorkbookInput) (*Result, error) {
	if in.Selection == nil || in.Selection.Len() == 0 {
		return nil, ErrNoCategoryData
	}

	specs := e.sheets(in.Snapshot, in.Selection)
	if len(specs) == 0 {
		return nil, ErrNoCategoryData
	}

	w, err := newWorkbookWriter()
	if err != nil {
		return nil, err
	}
	defer w.close()

	for _, spec := range specs {
		if err := w.addSheet(spec); err != nil {
			return nil, err
		}
	}

	result, err := w.finish(PremiumFileName(in.Meta.ExportDate))
	if err != nil {
		return nil, err
	}

	e.logger.Info("Premium workbook exported",
		zap.String("file_name", result.FileName),
		zap.Strings("sheets", result.Sheets),
		zap.Int("rows", result.RowCount))
	return result, nil
}

// sheets lays out every non-empty selected category in toggle order
func (e *WorkbookExporter) sheets(snap *report.Snapshot, sel *report.Selection) []sheetSpec {
	duties := snap.Entries(models.KindAttendance)

	var specs []sheetSpec
	for _, c := range report.AllCategories {
		if !sel.Has(c) {
			continue
		}

		var spec sheetSpec
		switch c {
		case report.CategoryDrivers, report.CategoryFreelancers, report.CategoryOutsideCars:
			spec = e.attendanceSheet(c, duties)
		case report.CategoryVehicles:
			spec = vehicleSheet(snap)
		default:
			spec = recordSheetFor(c, snap)
		}

		if len(spec.rows) > 0 {
			specs = append(specs, spec)
		}
	}
	return specs
}

// attendanceSheet sorts a partition by driver name then date and charges
// wages in that order through its own ledger
func (e *WorkbookExporter) attendanceSheet(c report.Category, duties []models.Entry) sheetSpec {
	var part []models.Entry
	for _, d := range duties {
		if report.PartitionOf(d.Attendance) == c {
			part = append(part, d)
		}
	}
	sort.SliceStable(part, func(i, j int) bool {
		ni := strings.ToLower(part[i].Attendance.DriverName())
		nj := strings.ToLower(part[j].Attendance.DriverName())
		if ni != nj {
			return ni < nj
		}
		return part[i].Date < part[j].Date
	})

	ledger := e.rules.NewLedger()
	spec := sheetSpec{name: attendanceSheetNames[c]}

	if c == report.CategoryOutsideCars {
		spec.headers = outsideHeaders
		for _, d := range part {
			spec.rows = append(spec.rows, outsideRow(d.Attendance, d.Date, ledger.Charge(d.Attendance, d.Date)))
		}
		spec.total = totalRow(len(outsideHeaders), spec.rows, outsideWageCol)
		return spec
	}

	spec.headers = dutyHeaders
	for _, d := range part {
		spec.rows = append(spec.rows, dutyRow(d.Attendance, d.Date, ledger.Charge(d.Attendance, d.Date)))
	}
	spec.total = totalRow(len(dutyHeaders), spec.rows, dutyTotalCols...)
	return spec
}

// vehicleSheet covers all attendance regardless of the partition toggles
func vehicleSheet(snap *report.Snapshot) sheetSpec {
	spec := sheetSpec{name: VehicleSummarySheet, headers: vehicleHeaders}
	if snap == nil {
		return spec
	}
	for _, v := range SummarizeVehicles(snap.Attendance) {
		spec.rows = append(spec.rows, vehicleRow(v))
	}
	spec.total = totalRow(len(vehicleHeaders), spec.rows, 3, 4, 5, 6, 7, 8)
	return spec
}

func recordSheetFor(c report.Category, snap *report.Snapshot) sheetSpec {
	for _, rs := range recordSheets {
		if rs.category != c {
			continue
		}
		entries := snap.Entries(rs.kind)
		report.SortByDateDesc(entries)

		spec := sheetSpec{name: rs.name, headers: rs.headers}
		for _, en := range entries {
			spec.rows = append(spec.rows, rs.row(en))
		}
		spec.total = totalRow(len(rs.headers), spec.rows, rs.amountCol)
		return spec
	}
	return sheetSpec{}
}
