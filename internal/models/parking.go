package models

// Parking is a standalone parking charge
type Parking struct {
	ID       string      `json:"_id"`
	Date     string      `json:"date"`
	Vehicle  *VehicleRef `json:"vehicle"`
	Driver   string      `json:"driver"`
	Amount   Amount      `json:"amount"`
	Location string      `json:"location"`
	Remark   string      `json:"remark"`
	Source   string      `json:"source"`
}
