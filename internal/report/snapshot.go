package report

import (
	"time"

	"github.com/fleetops/fleet-reports/internal/models"
)

// Snapshot is the set of record collections fetched for one
// (company, date range) query. It is read-only once built.
type Snapshot struct {
	Query       models.RangeQuery       `json:"query"`
	Attendance  []models.Attendance     `json:"attendance"`
	Fuel        []models.Fuel           `json:"fuel"`
	Maintenance []models.Maintenance    `json:"maintenance"`
	Advances    []models.Advance        `json:"advances"`
	BorderTax   []models.BorderTax      `json:"border_tax"`
	Fastag      []models.FastagRecharge `json:"fastag"`
	Parking     []models.Parking        `json:"parking"`
	Accidents   []models.Accident       `json:"accidents"`
	Failed      []models.Kind           `json:"failed,omitempty"` // categories whose fetch failed and were left empty
	FetchedAt   time.Time               `json:"fetched_at"`
}

// Entries normalizes one collection into tagged entries, in source order
func (s *Snapshot) Entries(kind models.Kind) []models.Entry {
	if s == nil {
		return nil
	}
	switch kind {
	case models.KindAttendance:
		return tag(s.Attendance, func(r *models.Attendance) models.Entry {
			return models.Entry{Kind: kind, Date: models.CalendarDate(r.Date), Attendance: r}
		})
	case models.KindFuel:
		return tag(s.Fuel, func(r *models.Fuel) models.Entry {
			return models.Entry{Kind: kind, Date: models.CalendarDate(r.Date), Fuel: r}
		})
	case models.KindMaintenance:
		return tag(s.Maintenance, func(r *models.Maintenance) models.Entry {
			return models.Entry{Kind: kind, Date: models.CalendarDate(r.BillDate), Maintenance: r}
		})
	case models.KindAdvance:
		return tag(s.Advances, func(r *models.Advance) models.Entry {
			return models.Entry{Kind: kind, Date: models.CalendarDate(r.Date), Advance: r}
		})
	case models.KindBorderTax:
		return tag(s.BorderTax, func(r *models.BorderTax) models.Entry {
			return models.Entry{Kind: kind, Date: models.CalendarDate(r.Date), BorderTax: r}
		})
	case models.KindFastag:
		return tag(s.Fastag, func(r *models.FastagRecharge) models.Entry {
			return models.Entry{Kind: kind, Date: models.CalendarDate(r.Date), Fastag: r}
		})
	case models.KindParking:
		return tag(s.Parking, func(r *models.Parking) models.Entry {
			return models.Entry{Kind: kind, Date: models.CalendarDate(r.Date), Parking: r}
		})
	case models.KindAccident:
		return tag(s.Accidents, func(r *models.Accident) models.Entry {
			return models.Entry{Kind: kind, Date: models.CalendarDate(r.Date), Accident: r}
		})
	default:
		return nil
	}
}

// Count returns the number of records of a kind
func (s *Snapshot) Count(kind models.Kind) int {
	return len(s.Entries(kind))
}

func tag[T any](records []T, build func(*T) models.Entry) []models.Entry {
	entries := make([]models.Entry, 0, len(records))
	for i := range records {
		entries = append(entries, build(&records[i]))
	}
	return entries
}
