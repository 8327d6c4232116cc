package report

import (
	"sort"

	"github.com/fleetops/fleet-reports/internal/models"
)

// Merge concatenates every visible entry of the snapshot and orders the
// result most recent date first
func Merge(snap *Snapshot, sel *Selection) []models.Entry {
	var merged []models.Entry
	for _, kind := range models.AllKinds {
		for _, e := range snap.Entries(kind) {
			if sel.Includes(e) {
				merged = append(merged, e)
			}
		}
	}
	SortByDateDesc(merged)
	return merged
}

// SortByDateDesc orders entries by date string, descending. Ties keep their
// relative order; entries without a date sink to the end.
func SortByDateDesc(entries []models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
}
