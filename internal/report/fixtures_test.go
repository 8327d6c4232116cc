package report

import "github.com/fleetops/fleet-reports/internal/models"

func staffDuty(id, driverID, name, date string, wage float64) models.Attendance {
	return models.Attendance{
		ID:       id,
		Date:     date,
		Driver:   &models.DriverRef{ID: driverID, Name: name, DailyWage: models.Some(wage)},
		Vehicle:  &models.VehicleRef{ID: "V-" + driverID, CarNumber: "KA01" + driverID},
		PunchIn:  &models.PunchIn{Time: date + "T08:00:00.000Z", KM: 1000},
		PunchOut: &models.PunchOut{Time: date + "T20:00:00.000Z", KM: 1100},
	}
}

func freelanceDuty(id, name, date string) models.Attendance {
	return models.Attendance{
		ID:           id,
		Date:         date,
		Driver:       &models.DriverRef{ID: "F-" + id, Name: name},
		IsFreelancer: true,
	}
}

func outsideDuty(id, car, date string, duty float64) models.Attendance {
	return models.Attendance{
		ID:      id,
		Date:    date,
		Vehicle: &models.VehicleRef{ID: "OV-" + id, CarNumber: car, IsOutsideCar: true, DutyAmount: models.Some(duty)},
	}
}

func dailies(rows []Row) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Daily)
	}
	return out
}

func ids(entries []models.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.RecordID())
	}
	return out
}
