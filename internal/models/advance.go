package models

// Advance is cash handed to a driver ahead of wages
type Advance struct {
	ID     string     `json:"_id"`
	Date   string     `json:"date"`
	Driver *DriverRef `json:"driver"`
	Amount Amount     `json:"amount"`
	Remark string     `json:"remark"`
	Status string     `json:"status"` // Pending, Recovered
}

// Advance statuses
const (
	AdvanceStatusPending   = "Pending"
	AdvanceStatusRecovered = "Recovered"
)

// StatusLabel is the label the back office shows for the status
func (a *Advance) StatusLabel() string {
	switch a.Status {
	case AdvanceStatusPending:
		return "Advance Success"
	case AdvanceStatusRecovered:
		return "Fully Recovered"
	default:
		return a.Status
	}
}
