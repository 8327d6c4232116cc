package models

// Fuel is a standalone fuel purchase
type Fuel struct {
	ID            string      `json:"_id"`
	Date          string      `json:"date"`
	Vehicle       *VehicleRef `json:"vehicle"`
	FuelType      string      `json:"fuelType"`
	Quantity      Amount      `json:"quantity"` // litres
	Rate          Amount      `json:"rate"`     // per litre
	Amount        Amount      `json:"amount"`
	Odometer      Amount      `json:"odometer"`
	PaymentSource string      `json:"paymentSource"`
	DriverName    string      `json:"driverName"`
}
