package export

import (
	"regexp"
	"strings"
	"time"
)

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Meta describes who and when an export is for
type Meta struct {
	CompanyName string
	ExportDate  time.Time
}

// Result is a generated workbook held in memory
type Result struct {
	FileName string
	Content  []byte
	Sheets   []string
	RowCount int // data rows across all sheets, TOTAL rows excluded
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// DailyLogFileName names the flat export
func DailyLogFileName(companyName string, date time.Time) string {
	return "Daily_Log_" + fileToken(companyName) + "_" + date.Format("2006-01-02") + ".xlsx"
}

// PremiumFileName names the multi-sheet export
func PremiumFileName(date time.Time) string {
	return "Premium_Fleet_Export_" + date.Format("2006-01-02") + ".xlsx"
}

func fileToken(name string) string {
	token := strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_"), "_")
	if token == "" {
		return "Company"
	}
	return token
}
