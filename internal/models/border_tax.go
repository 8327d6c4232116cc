package models

// BorderTax is a state-border permit/tax payment
type BorderTax struct {
	ID         string      `json:"_id"`
	Date       string      `json:"date"`
	Vehicle    *VehicleRef `json:"vehicle"`
	BorderName string      `json:"borderName"`
	Amount     Amount      `json:"amount"`
	Remarks    string      `json:"remarks"`
}
