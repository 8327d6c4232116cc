package models

// Accident is an accident log entry with its repair cost
type Accident struct {
	ID          string      `json:"_id"`
	Date        string      `json:"date"`
	Vehicle     *VehicleRef `json:"vehicle"`
	Driver      *DriverRef  `json:"driver"`
	Location    string      `json:"location"`
	Amount      Amount      `json:"amount"` // repair cost
	Status      string      `json:"status"` // Pending, Resolved
	Description string      `json:"description"`
	Photos      []string    `json:"photos"`
}

// Accident statuses
const (
	AccidentStatusPending  = "Pending"
	AccidentStatusResolved = "Resolved"
)
