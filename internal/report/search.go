package report

import (
	"strings"

	"github.com/fleetops/fleet-reports/internal/models"
)

// Search keeps entries whose driver name or car number contains term,
// case-insensitively. An empty term keeps everything.
func Search(entries []models.Entry, term string) []models.Entry {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return entries
	}

	filtered := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.DriverName()), needle) ||
			strings.Contains(strings.ToLower(e.CarNumber()), needle) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
