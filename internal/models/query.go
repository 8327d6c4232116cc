package models

// RangeQuery scopes a category fetch to a company and an optional
// inclusive date window (YYYY-MM-DD, empty for open ends)
type RangeQuery struct {
	CompanyID string `json:"company_id"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}
