package models

// Maintenance is a garage bill against a vehicle
type Maintenance struct {
	ID              string      `json:"_id"`
	BillDate        string      `json:"billDate"`
	Vehicle         *VehicleRef `json:"vehicle"`
	MaintenanceType string      `json:"maintenanceType"`
	Category        string      `json:"category"`
	Description     string      `json:"description"`
	GarageName      string      `json:"garageName"`
	BillNumber      string      `json:"billNumber"`
	Amount          Amount      `json:"amount"`
	CurrentKm       Amount      `json:"currentKm"`
	NextServiceKm   Amount      `json:"nextServiceKm"`
	BillPhoto       string      `json:"billPhoto"`
}
