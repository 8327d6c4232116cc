package report

import (
	"encoding/json"

	"github.com/fleetops/fleet-reports/internal/models"
)

// Category is a report toggle. Attendance is never toggled directly: it is
// split into drivers, freelancers and outsideCars, and "vehicles" includes
// all of it.
type Category string

// Report categories
const (
	CategoryDrivers     Category = "drivers"
	CategoryFreelancers Category = "freelancers"
	CategoryOutsideCars Category = "outsideCars"
	CategoryVehicles    Category = "vehicles"
	CategoryFuel        Category = "fuel"
	CategoryMaintenance Category = "maintenance"
	CategoryAdvance     Category = "advance"
	CategoryBorderTax   Category = "borderTax"
	CategoryFastag      Category = "fastag"
	CategoryParking     Category = "parking"
	CategoryAccident    Category = "accident"
)

// AllCategories lists every toggle in display order
var AllCategories = []Category{
	CategoryDrivers,
	CategoryFreelancers,
	CategoryOutsideCars,
	CategoryVehicles,
	CategoryFuel,
	CategoryMaintenance,
	CategoryAdvance,
	CategoryBorderTax,
	CategoryFastag,
	CategoryParking,
	CategoryAccident,
}

// ParseCategory validates a toggle id
func ParseCategory(s string) (Category, bool) {
	for _, c := range AllCategories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// CategoryForKind maps a non-attendance kind to its toggle
func CategoryForKind(kind models.Kind) (Category, bool) {
	switch kind {
	case models.KindFuel:
		return CategoryFuel, true
	case models.KindMaintenance:
		return CategoryMaintenance, true
	case models.KindAdvance:
		return CategoryAdvance, true
	case models.KindBorderTax:
		return CategoryBorderTax, true
	case models.KindFastag:
		return CategoryFastag, true
	case models.KindParking:
		return CategoryParking, true
	case models.KindAccident:
		return CategoryAccident, true
	default:
		return "", false
	}
}

// PartitionOf classifies a duty into exactly one of outsideCars,
// freelancers or drivers. An outside car wins over a freelancer flag.
func PartitionOf(a *models.Attendance) Category {
	switch {
	case a.IsOutsideCar():
		return CategoryOutsideCars
	case a.IsFreelance():
		return CategoryFreelancers
	default:
		return CategoryDrivers
	}
}

// Selection is the set of active toggles. Not safe for concurrent use.
type Selection struct {
	selected map[Category]bool
}

// NewSelection creates a selection with the given toggles on. Unknown ids are ignored.
func NewSelection(categories ...Category) *Selection {
	s := &Selection{selected: make(map[Category]bool, len(AllCategories))}
	for _, c := range categories {
		if _, ok := ParseCategory(string(c)); ok {
			s.selected[c] = true
		}
	}
	return s
}

// Toggle flips membership of c. Unknown ids are a no-op and return false.
func (s *Selection) Toggle(c Category) bool {
	if _, ok := ParseCategory(string(c)); !ok {
		return false
	}
	if s.selected[c] {
		delete(s.selected, c)
	} else {
		s.selected[c] = true
	}
	return true
}

// SelectAll clears the selection when everything is selected, otherwise
// selects everything
func (s *Selection) SelectAll() {
	if s.AllSelected() {
		s.selected = make(map[Category]bool, len(AllCategories))
		return
	}
	for _, c := range AllCategories {
		s.selected[c] = true
	}
}

// Has reports whether c is on
func (s *Selection) Has(c Category) bool {
	return s.selected[c]
}

// AllSelected reports whether every toggle is on
func (s *Selection) AllSelected() bool {
	return len(s.selected) == len(AllCategories)
}

// Len returns the number of toggles on
func (s *Selection) Len() int {
	return len(s.selected)
}

// Categories returns the toggles that are on, in display order
func (s *Selection) Categories() []Category {
	out := make([]Category, 0, len(s.selected))
	for _, c := range AllCategories {
		if s.selected[c] {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns an independent copy
func (s *Selection) Clone() *Selection {
	return NewSelection(s.Categories()...)
}

// IncludesAttendance reports whether a duty is visible: its own partition
// is on, or vehicles is on
func (s *Selection) IncludesAttendance(a *models.Attendance) bool {
	return s.Has(CategoryVehicles) || s.Has(PartitionOf(a))
}

// Includes reports whether an entry is visible under the selection
func (s *Selection) Includes(e models.Entry) bool {
	if e.Kind == models.KindAttendance {
		return s.IncludesAttendance(e.Attendance)
	}
	c, ok := CategoryForKind(e.Kind)
	return ok && s.Has(c)
}

// MarshalJSON encodes the selection as an ordered list
func (s *Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Categories())
}
