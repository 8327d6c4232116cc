package export

import (
	"sort"
	"strings"

	"github.com/fleetops/fleet-reports/internal/models"
)

// VehicleSummary aggregates every duty run by one vehicle
type VehicleSummary struct {
	Key         string
	CarNumber   string
	Model       string
	Outside     bool
	DaysWorked  int
	KM          float64
	TollParking float64
	FuelCost    float64
	GrossDuty   float64 // duty amount, once per day worked
}

// NetRevenue is gross duty less running costs
func (v VehicleSummary) NetRevenue() float64 {
	return v.GrossDuty - v.FuelCost - v.TollParking
}

// SummarizeVehicles groups duties by vehicle id, falling back to the car
// number. Duties with neither are skipped. The result is ordered by car number.
func SummarizeVehicles(duties []models.Attendance) []VehicleSummary {
	type acc struct {
		summary VehicleSummary
		days    map[string]bool // date -> duty amount already counted
	}

	byKey := make(map[string]*acc)
	for i := range duties {
		a := &duties[i]
		if a.Vehicle == nil {
			continue
		}
		key := a.Vehicle.ID
		if key == "" {
			key = a.Vehicle.CarNumber
		}
		if key == "" {
			continue
		}

		v, ok := byKey[key]
		if !ok {
			v = &acc{
				summary: VehicleSummary{Key: key, CarNumber: a.Vehicle.CarNumber, Model: a.Vehicle.Model},
				days:    make(map[string]bool),
			}
			byKey[key] = v
		}
		if v.summary.CarNumber == "" {
			v.summary.CarNumber = a.Vehicle.CarNumber
		}
		if v.summary.Model == "" {
			v.summary.Model = a.Vehicle.Model
		}
		v.summary.Outside = v.summary.Outside || a.IsOutsideCar()
		v.summary.KM += a.KM()
		v.summary.TollParking += a.TollParking()
		v.summary.FuelCost += a.FuelCost()

		date := models.CalendarDate(a.Date)
		paid, seen := v.days[date]
		if !seen {
			v.summary.DaysWorked++
		}
		if !paid && a.Vehicle.DutyAmount.Valid {
			v.summary.GrossDuty += a.Vehicle.DutyAmount.Value
			paid = true
		}
		v.days[date] = paid
	}

	out := make([]VehicleSummary, 0, len(byKey))
	for _, v := range byKey {
		out = append(out, v.summary)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := strings.ToUpper(out[i].CarNumber), strings.ToUpper(out[j].CarNumber)
		if ci != cj {
			return ci < cj
		}
		return out[i].Key < out[j].Key
	})
	return out
}
