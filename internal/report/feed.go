package report

import "github.com/fleetops/fleet-reports/internal/models"

// Company tags for duties not run by staff on company cars
const (
	CompanyTagOutside    = "OUTSIDE"
	CompanyTagFreelancer = "FREELANCER"
)

// Row is one line of the interactive report table
type Row struct {
	EntryType   models.Kind `json:"entryType"`
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Name        string      `json:"name"`
	Car         string      `json:"car"`
	In          string      `json:"in,omitempty"`
	Out         string      `json:"out,omitempty"`
	KM          float64     `json:"km"`
	Daily       float64     `json:"daily"` // visible wage after the per-day dedup
	Bonus       float64     `json:"bonus"`
	TollParking float64     `json:"tollParking"`
	Amount      float64     `json:"amount"` // non-attendance records' own amount
	Company     string      `json:"company,omitempty"`
	Remarks     string      `json:"remarks,omitempty"`
	Active      bool        `json:"active,omitempty"`
	Record      interface{} `json:"record"`
}

// FeedTotals sums the numeric columns of a feed
type FeedTotals struct {
	KM          float64 `json:"km"`
	Daily       float64 `json:"daily"`
	Bonus       float64 `json:"bonus"`
	TollParking float64 `json:"tollParking"`
	Amount      float64 `json:"amount"`
}

// Feed is the merged, filtered and wage-attributed report
type Feed struct {
	Rows   []Row         `json:"rows"`
	Count  int           `json:"count"`
	Totals FeedTotals    `json:"totals"`
	Failed []models.Kind `json:"failed_categories,omitempty"`
}

// FeedInput is everything a feed pass depends on
type FeedInput struct {
	Snapshot    *Snapshot
	Selection   *Selection
	Search      string
	CompanyName string
	Rules       WageRules
}

// BuildFeed merges, sorts, filters, then attributes wages in display order
func BuildFeed(in FeedInput) Feed {
	entries := Search(Merge(in.Snapshot, in.Selection), in.Search)
	rows := BuildRows(entries, in.Rules.NewLedger(), in.CompanyName)

	feed := Feed{Rows: rows, Count: len(rows)}
	if in.Snapshot != nil {
		feed.Failed = in.Snapshot.Failed
	}
	for _, r := range rows {
		feed.Totals.KM += r.KM
		feed.Totals.Daily += r.Daily
		feed.Totals.Bonus += r.Bonus
		feed.Totals.TollParking += r.TollParking
		feed.Totals.Amount += r.Amount
	}
	return feed
}

// BuildRows projects entries into table rows, charging wages through the
// ledger in iteration order
func BuildRows(entries []models.Entry, ledger *WageLedger, companyName string) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		row := Row{
			EntryType: e.Kind,
			ID:        e.RecordID(),
			Date:      e.Date,
			Name:      e.DriverName(),
			Car:       e.CarNumber(),
			Remarks:   e.Remarks(),
			Record:    e.Payload(),
		}

		switch e.Kind {
		case models.KindAttendance:
			a := e.Attendance
			row.In = a.InTime()
			row.Out = a.OutTime()
			row.KM = a.KM()
			row.Daily = ledger.Charge(a, e.Date)
			row.Bonus = a.Bonus()
			row.TollParking = a.TollParking()
			row.Company = CompanyTag(a, companyName)
			row.Active = a.IsActive()
		case models.KindFuel:
			row.Amount = e.Amount()
			row.KM = e.Fuel.Odometer.Float()
		case models.KindMaintenance:
			row.Amount = e.Amount()
			row.KM = e.Maintenance.CurrentKm.Float()
		case models.KindAdvance, models.KindBorderTax, models.KindFastag, models.KindParking, models.KindAccident:
			row.Amount = e.Amount()
		}

		rows = append(rows, row)
	}
	return rows
}

// CompanyTag labels who a duty belongs to
func CompanyTag(a *models.Attendance, companyName string) string {
	switch PartitionOf(a) {
	case CategoryOutsideCars:
		return CompanyTagOutside
	case CategoryFreelancers:
		return CompanyTagFreelancer
	default:
		return companyName
	}
}
