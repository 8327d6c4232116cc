package models

import "time"

// ExportLog records a generated workbook
type ExportLog struct {
	ID          int64     `json:"id"`
	ExportID    string    `json:"export_id"` // UUID
	SessionID   string    `json:"session_id"`
	CompanyID   string    `json:"company_id"`
	CompanyName string    `json:"company_name"`
	Kind        string    `json:"kind"` // DAILY_LOG, PREMIUM
	FileName    string    `json:"file_name"`
	ArchivePath string    `json:"archive_path,omitempty"`
	RowCount    int       `json:"row_count"`
	SheetCount  int       `json:"sheet_count"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Export kinds
const (
	ExportKindDailyLog = "DAILY_LOG"
	ExportKindPremium  = "PREMIUM"
)
