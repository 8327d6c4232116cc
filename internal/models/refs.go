package models

import (
	"bytes"
	"encoding/json"
)

// DriverRef is a driver reference as returned by the backend. It is either
// a populated document or a bare id string.
type DriverRef struct {
	ID           string         `json:"_id"`
	Name         string         `json:"name"`
	Mobile       string         `json:"mobile"`
	IsFreelancer bool           `json:"isFreelancer"`
	DailyWage    OptionalAmount `json:"dailyWage"`
}

// UnmarshalJSON accepts both the populated and the id-only form
func (d *DriverRef) UnmarshalJSON(data []byte) error {
	if id, ok := bareID(data); ok {
		*d = DriverRef{ID: id}
		return nil
	}
	type alias DriverRef
	var v alias
	// Mismatched field types keep whatever decoded
	_ = json.Unmarshal(data, &v)
	*d = DriverRef(v)
	return nil
}

// VehicleRef is a vehicle reference, populated or id-only
type VehicleRef struct {
	ID           string         `json:"_id"`
	CarNumber    string         `json:"carNumber"`
	Model        string         `json:"model,omitempty"`
	IsOutsideCar bool           `json:"isOutsideCar"`
	DutyAmount   OptionalAmount `json:"dutyAmount"`
}

// UnmarshalJSON accepts both the populated and the id-only form
func (v *VehicleRef) UnmarshalJSON(data []byte) error {
	if id, ok := bareID(data); ok {
		*v = VehicleRef{ID: id}
		return nil
	}
	type alias VehicleRef
	var a alias
	_ = json.Unmarshal(data, &a)
	*v = VehicleRef(a)
	return nil
}

func bareID(data []byte) (string, bool) {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", false
	}
	return id, true
}

func driverName(d *DriverRef) string {
	if d == nil {
		return ""
	}
	return d.Name
}

func carNumber(v *VehicleRef) string {
	if v == nil {
		return ""
	}
	return v.CarNumber
}
