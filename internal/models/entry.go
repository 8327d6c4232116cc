package models

import "fmt"

// Kind discriminates the record collections merged into the report feed
type Kind string

// Entry kinds
const (
	KindAttendance  Kind = "attendance"
	KindFuel        Kind = "fuel"
	KindMaintenance Kind = "maintenance"
	KindAdvance     Kind = "advance"
	KindBorderTax   Kind = "borderTax"
	KindFastag      Kind = "fastag"
	KindParking     Kind = "parking"
	KindAccident    Kind = "accident"
)

// AllKinds lists every kind in fetch order
var AllKinds = []Kind{
	KindAttendance,
	KindFuel,
	KindMaintenance,
	KindAdvance,
	KindBorderTax,
	KindFastag,
	KindParking,
	KindAccident,
}

// ParseKind validates a kind string
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown entry kind: %q", s)
}

// Label is the human readable category name
func (k Kind) Label() string {
	switch k {
	case KindAttendance:
		return "Attendance"
	case KindFuel:
		return "Fuel"
	case KindMaintenance:
		return "Maintenance"
	case KindAdvance:
		return "Advance"
	case KindBorderTax:
		return "Border Tax"
	case KindFastag:
		return "Fastag"
	case KindParking:
		return "Parking"
	case KindAccident:
		return "Accident"
	default:
		return string(k)
	}
}

// Entry is one tagged record of the merged feed. Exactly one payload
// pointer, the one matching Kind, is non-nil.
type Entry struct {
	Kind Kind
	Date string // YYYY-MM-DD, "" when the source date is missing or invalid

	Attendance  *Attendance
	Fuel        *Fuel
	Maintenance *Maintenance
	Advance     *Advance
	BorderTax   *BorderTax
	Fastag      *FastagRecharge
	Parking     *Parking
	Accident    *Accident
}

// Payload returns the underlying record
func (e Entry) Payload() interface{} {
	switch e.Kind {
	case KindAttendance:
		return e.Attendance
	case KindFuel:
		return e.Fuel
	case KindMaintenance:
		return e.Maintenance
	case KindAdvance:
		return e.Advance
	case KindBorderTax:
		return e.BorderTax
	case KindFastag:
		return e.Fastag
	case KindParking:
		return e.Parking
	case KindAccident:
		return e.Accident
	default:
		return nil
	}
}

// RecordID returns the backend id of the underlying record
func (e Entry) RecordID() string {
	switch e.Kind {
	case KindAttendance:
		return e.Attendance.ID
	case KindFuel:
		return e.Fuel.ID
	case KindMaintenance:
		return e.Maintenance.ID
	case KindAdvance:
		return e.Advance.ID
	case KindBorderTax:
		return e.BorderTax.ID
	case KindFastag:
		return e.Fastag.ID
	case KindParking:
		return e.Parking.ID
	case KindAccident:
		return e.Accident.ID
	default:
		return ""
	}
}

// DriverName returns the driver name the record exposes, or ""
func (e Entry) DriverName() string {
	switch e.Kind {
	case KindAttendance:
		return e.Attendance.DriverName()
	case KindFuel:
		return e.Fuel.DriverName
	case KindAdvance:
		return driverName(e.Advance.Driver)
	case KindParking:
		return e.Parking.Driver
	case KindAccident:
		return driverName(e.Accident.Driver)
	case KindMaintenance, KindBorderTax, KindFastag:
		return ""
	default:
		return ""
	}
}

// CarNumber returns the vehicle registration the record exposes, or ""
func (e Entry) CarNumber() string {
	switch e.Kind {
	case KindAttendance:
		return e.Attendance.CarNumber()
	case KindFuel:
		return carNumber(e.Fuel.Vehicle)
	case KindMaintenance:
		return carNumber(e.Maintenance.Vehicle)
	case KindBorderTax:
		return carNumber(e.BorderTax.Vehicle)
	case KindFastag:
		return e.Fastag.CarNumber
	case KindParking:
		return carNumber(e.Parking.Vehicle)
	case KindAccident:
		return carNumber(e.Accident.Vehicle)
	case KindAdvance:
		return ""
	default:
		return ""
	}
}

// Amount returns the record's own amount. Attendance has no single amount
// (its wage is resolved by the report) and returns zero.
func (e Entry) Amount() float64 {
	switch e.Kind {
	case KindFuel:
		return e.Fuel.Amount.Float()
	case KindMaintenance:
		return e.Maintenance.Amount.Float()
	case KindAdvance:
		return e.Advance.Amount.Float()
	case KindBorderTax:
		return e.BorderTax.Amount.Float()
	case KindFastag:
		return e.Fastag.Amount.Float()
	case KindParking:
		return e.Parking.Amount.Float()
	case KindAccident:
		return e.Accident.Amount.Float()
	default:
		return 0
	}
}

// Remarks returns the free-text note of the record
func (e Entry) Remarks() string {
	switch e.Kind {
	case KindAttendance:
		return e.Attendance.Remarks()
	case KindFuel:
		return e.Fuel.PaymentSource
	case KindMaintenance:
		return e.Maintenance.Description
	case KindAdvance:
		return e.Advance.Remark
	case KindBorderTax:
		return e.BorderTax.Remarks
	case KindFastag:
		return e.Fastag.Remarks
	case KindParking:
		return e.Parking.Remark
	case KindAccident:
		return e.Accident.Description
	default:
		return ""
	}
}
