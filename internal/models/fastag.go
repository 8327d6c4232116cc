package models

// FastagRecharge is a toll-tag top-up. The car is a plain registration
// string, not a vehicle reference.
type FastagRecharge struct {
	ID        string `json:"_id"`
	Date      string `json:"date"`
	CarNumber string `json:"carNumber"`
	Amount    Amount `json:"amount"`
	Method    string `json:"method"`
	Remarks   string `json:"remarks"`
}
