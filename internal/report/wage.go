package report

import (
	"fmt"

	"github.com/fleetops/fleet-reports/internal/models"
)

// DefaultDailyWage applies when neither the duty, the driver nor the
// vehicle carries a wage
const DefaultDailyWage = 500.0

// UnidentifiedPolicy decides how duties with no driver id, vehicle id or
// driver name are charged
type UnidentifiedPolicy string

const (
	// UnidentifiedSeparate charges every unidentifiable duty its wage
	UnidentifiedSeparate UnidentifiedPolicy = "separate"
	// UnidentifiedShared puts all unidentifiable duties of a date in one
	// bucket, so only the first is charged. Matches legacy exports.
	UnidentifiedShared UnidentifiedPolicy = "shared"
)

// ParseUnidentifiedPolicy validates a policy name
func ParseUnidentifiedPolicy(s string) (UnidentifiedPolicy, error) {
	switch UnidentifiedPolicy(s) {
	case UnidentifiedSeparate, UnidentifiedShared:
		return UnidentifiedPolicy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// WageRules configures daily wage attribution
type WageRules struct {
	DefaultWage  float64
	Unidentified UnidentifiedPolicy
}

// DefaultWageRules returns the stock rules
func DefaultWageRules() WageRules {
	return WageRules{DefaultWage: DefaultDailyWage, Unidentified: UnidentifiedSeparate}
}

// NewLedger starts an empty wage pass
func (r WageRules) NewLedger() *WageLedger {
	return &WageLedger{rules: r, paid: make(map[wageKey]struct{})}
}

// IdentityOf returns who a duty is charged to: the driver id, else the
// vehicle id, else the driver name. ok is false when none is present.
func IdentityOf(a *models.Attendance) (identity string, ok bool) {
	switch {
	case a.Driver != nil && a.Driver.ID != "":
		return a.Driver.ID, true
	case a.Vehicle != nil && a.Vehicle.ID != "":
		return a.Vehicle.ID, true
	case a.Driver != nil && a.Driver.Name != "":
		return a.Driver.Name, true
	default:
		return "", false
	}
}

// BaseWage resolves the full daily wage of a duty: the duty override, the
// driver's wage, the vehicle's duty amount, then the fallback
func BaseWage(a *models.Attendance, fallback float64) float64 {
	switch {
	case a.DailyWage.Valid:
		return a.DailyWage.Value
	case a.Driver != nil && a.Driver.DailyWage.Valid:
		return a.Driver.DailyWage.Value
	case a.Vehicle != nil && a.Vehicle.DutyAmount.Valid:
		return a.Vehicle.DutyAmount.Value
	default:
		return fallback
	}
}

type wageKey struct {
	identity string
	date     string
}

// WageLedger charges each (identity, date) its daily wage once, to the
// first duty presented. Duties must be presented in display order; a new
// ledger is needed for every render or export pass.
type WageLedger struct {
	rules WageRules
	paid  map[wageKey]struct{}
}

// Charge returns the wage shown for the duty: the base wage on the first
// duty of its (identity, date), zero afterwards
func (l *WageLedger) Charge(a *models.Attendance, date string) float64 {
	identity, ok := IdentityOf(a)
	if !ok && l.rules.Unidentified == UnidentifiedSeparate {
		return BaseWage(a, l.rules.DefaultWage)
	}

	key := wageKey{identity: identity, date: date}
	if _, seen := l.paid[key]; seen {
		return 0
	}
	l.paid[key] = struct{}{}
	return BaseWage(a, l.rules.DefaultWage)
}
