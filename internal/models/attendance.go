package models

import "strings"

// Attendance is one driver/vehicle duty session (punch-in to punch-out)
type Attendance struct {
	ID              string           `json:"_id"`
	Driver          *DriverRef       `json:"driver"`
	Vehicle         *VehicleRef      `json:"vehicle"`
	Date            string           `json:"date"`
	PunchIn         *PunchIn         `json:"punchIn"`
	PunchOut        *PunchOut        `json:"punchOut"` // nil while the duty is active
	Fuel            *DutyFuel        `json:"fuel"`
	Parking         []DutyParking    `json:"parking"`
	TotalKM         OptionalAmount   `json:"totalKM"`
	PendingExpenses []PendingExpense `json:"pendingExpenses"`
	IsFreelancer    bool             `json:"isFreelancer"`
	DailyWage       OptionalAmount   `json:"dailyWage"` // per-duty override
}

// PunchIn is the start-of-duty snapshot
type PunchIn struct {
	Time   string   `json:"time"`
	KM     Amount   `json:"km"`
	Photos []string `json:"photos"`
}

// PunchOut is the end-of-duty snapshot including driver-claimed extras
type PunchOut struct {
	Time              string   `json:"time"`
	KM                Amount   `json:"km"`
	Photos            []string `json:"photos"`
	Remarks           string   `json:"remarks"`
	OtherRemarks      string   `json:"otherRemarks"`
	AllowanceTA       Amount   `json:"allowanceTA"`
	NightStayAmount   Amount   `json:"nightStayAmount"`
	TollParkingAmount Amount   `json:"tollParkingAmount"`
}

// DutyFuel is fuel bought during a duty
type DutyFuel struct {
	Amount  Amount          `json:"amount"`
	Entries []DutyFuelEntry `json:"entries"`
}

// DutyFuelEntry is a single fill-up logged inside a duty
type DutyFuelEntry struct {
	Amount Amount `json:"amount"`
	KM     Amount `json:"km"`
	Type   string `json:"type"`
}

// DutyParking is a parking charge logged inside a duty
type DutyParking struct {
	Amount   Amount `json:"amount"`
	Location string `json:"location"`
}

// PendingExpense is a driver expense awaiting admin review
type PendingExpense struct {
	Type   string `json:"type"`
	Amount Amount `json:"amount"`
	Status string `json:"status"` // pending, approved, rejected
}

// Pending expense statuses
const (
	ExpenseStatusPending  = "pending"
	ExpenseStatusApproved = "approved"
	ExpenseStatusRejected = "rejected"
)

// DriverName returns the driver's name or ""
func (a *Attendance) DriverName() string {
	return driverName(a.Driver)
}

// CarNumber returns the vehicle's registration or ""
func (a *Attendance) CarNumber() string {
	return carNumber(a.Vehicle)
}

// IsActive reports whether the duty has not been punched out yet
func (a *Attendance) IsActive() bool {
	return a.PunchOut == nil
}

// IsOutsideCar reports whether the duty ran on a hired vehicle
func (a *Attendance) IsOutsideCar() bool {
	return a.Vehicle != nil && a.Vehicle.IsOutsideCar
}

// IsFreelance reports whether the driver is a freelancer, by either flag
func (a *Attendance) IsFreelance() bool {
	return a.IsFreelancer || (a.Driver != nil && a.Driver.IsFreelancer)
}

// StartKM returns the punch-in odometer reading
func (a *Attendance) StartKM() float64 {
	if a.PunchIn == nil {
		return 0
	}
	return a.PunchIn.KM.Float()
}

// EndKM returns the punch-out odometer reading
func (a *Attendance) EndKM() float64 {
	if a.PunchOut == nil {
		return 0
	}
	return a.PunchOut.KM.Float()
}

// KM returns the distance driven. totalKM wins when recorded, otherwise the
// odometer delta once punched out. Active duties report zero.
func (a *Attendance) KM() float64 {
	if a.TotalKM.Valid {
		return a.TotalKM.Value
	}
	if a.PunchOut == nil || a.PunchIn == nil {
		return 0
	}
	if delta := a.EndKM() - a.StartKM(); delta > 0 {
		return delta
	}
	return 0
}

// Bonus is the TA allowance plus the night stay amount
func (a *Attendance) Bonus() float64 {
	if a.PunchOut == nil {
		return 0
	}
	return a.PunchOut.AllowanceTA.Float() + a.PunchOut.NightStayAmount.Float()
}

// TollParking is the punch-out toll/parking claim, falling back to the sum
// of the duty's parking entries
func (a *Attendance) TollParking() float64 {
	if a.PunchOut != nil && a.PunchOut.TollParkingAmount != 0 {
		return a.PunchOut.TollParkingAmount.Float()
	}
	total := 0.0
	for _, p := range a.Parking {
		total += p.Amount.Float()
	}
	return total
}

// FuelCost is the fuel spent during the duty
func (a *Attendance) FuelCost() float64 {
	if a.Fuel == nil {
		return 0
	}
	if a.Fuel.Amount != 0 {
		return a.Fuel.Amount.Float()
	}
	total := 0.0
	for _, e := range a.Fuel.Entries {
		total += e.Amount.Float()
	}
	return total
}

// InTime returns the punch-in clock time (HH:MM) or ""
func (a *Attendance) InTime() string {
	if a.PunchIn == nil {
		return ""
	}
	return ClockTime(a.PunchIn.Time)
}

// OutTime returns the punch-out clock time (HH:MM) or ""
func (a *Attendance) OutTime() string {
	if a.PunchOut == nil {
		return ""
	}
	return ClockTime(a.PunchOut.Time)
}

// Remarks joins the punch-out remarks fields
func (a *Attendance) Remarks() string {
	if a.PunchOut == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	for _, s := range []string{a.PunchOut.Remarks, a.PunchOut.OtherRemarks} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " | ")
}

// PendingExpenseTotal sums expenses still awaiting review
func (a *Attendance) PendingExpenseTotal() float64 {
	total := 0.0
	for _, e := range a.PendingExpenses {
		if e.Status == ExpenseStatusPending {
			total += e.Amount.Float()
		}
	}
	return total
}
