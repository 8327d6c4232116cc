package export

import (
	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/fleetops/fleet-reports/internal/report"
)

const missing = "N/A"

// recordSheet lays out one non-attendance category
type recordSheet struct {
	category  report.Category
	kind      models.Kind
	name      string
	headers   []string
	amountCol int
	row       func(e models.Entry) []interface{}
}

var recordSheets = []recordSheet{
	{
		category:  report.CategoryFuel,
		kind:      models.KindFuel,
		name:      "Fuel",
		headers:   []string{"Date", "Car", "Driver", "Fuel Type", "Quantity (L)", "Rate", "Amount", "Odometer", "Payment Source"},
		amountCol: 6,
		row: func(e models.Entry) []interface{} {
			f := e.Fuel
			return []interface{}{
				orDash(e.Date), orNA(e.CarNumber()), orNA(f.DriverName), orDash(f.FuelType),
				f.Quantity.Float(), f.Rate.Float(), f.Amount.Float(), f.Odometer.Float(), orDash(f.PaymentSource),
			}
		},
	},
	{
		category:  report.CategoryMaintenance,
		kind:      models.KindMaintenance,
		name:      "Maintenance",
		headers:   []string{"Bill Date", "Car", "Type", "Category", "Description", "Garage", "Bill No", "Amount", "Current KM", "Next Service KM"},
		amountCol: 7,
		row: func(e models.Entry) []interface{} {
			m := e.Maintenance
			return []interface{}{
				orDash(e.Date), orNA(e.CarNumber()), orDash(m.MaintenanceType), orDash(m.Category),
				orDash(m.Description), orDash(m.GarageName), orDash(m.BillNumber),
				m.Amount.Float(), m.CurrentKm.Float(), m.NextServiceKm.Float(),
			}
		},
	},
	{
		category:  report.CategoryAdvance,
		kind:      models.KindAdvance,
		name:      "Advances",
		headers:   []string{"Date", "Driver", "Mobile", "Amount", "Status", "Remark"},
		amountCol: 3,
		row: func(e models.Entry) []interface{} {
			a := e.Advance
			mobile := ""
			if a.Driver != nil {
				mobile = a.Driver.Mobile
			}
			return []interface{}{
				orDash(e.Date), orNA(e.DriverName()), orDash(mobile), a.Amount.Float(),
				orDash(a.StatusLabel()), orDash(a.Remark),
			}
		},
	},
	{
		category:  report.CategoryBorderTax,
		kind:      models.KindBorderTax,
		name:      "Border Tax",
		headers:   []string{"Date", "Car", "Border", "Amount", "Remarks"},
		amountCol: 3,
		row: func(e models.Entry) []interface{} {
			b := e.BorderTax
			return []interface{}{
				orDash(e.Date), orNA(e.CarNumber()), orDash(b.BorderName), b.Amount.Float(), orDash(b.Remarks),
			}
		},
	},
	{
		category:  report.CategoryFastag,
		kind:      models.KindFastag,
		name:      "Fastag",
		headers:   []string{"Date", "Car", "Amount", "Method", "Remarks"},
		amountCol: 2,
		row: func(e models.Entry) []interface{} {
			f := e.Fastag
			return []interface{}{
				orDash(e.Date), orNA(f.CarNumber), f.Amount.Float(), orDash(f.Method), orDash(f.Remarks),
			}
		},
	},
	{
		category:  report.CategoryParking,
		kind:      models.KindParking,
		name:      "Parking",
		headers:   []string{"Date", "Car", "Driver", "Location", "Amount", "Source", "Remark"},
		amountCol: 4,
		row: func(e models.Entry) []interface{} {
			p := e.Parking
			return []interface{}{
				orDash(e.Date), orNA(e.CarNumber()), orNA(p.Driver), orDash(p.Location),
				p.Amount.Float(), orDash(p.Source), orDash(p.Remark),
			}
		},
	},
	{
		category:  report.CategoryAccident,
		kind:      models.KindAccident,
		name:      "Accidents",
		headers:   []string{"Date", "Car", "Driver", "Location", "Amount", "Status", "Description"},
		amountCol: 4,
		row: func(e models.Entry) []interface{} {
			a := e.Accident
			return []interface{}{
				orDash(e.Date), orNA(e.CarNumber()), orNA(e.DriverName()), orDash(a.Location),
				a.Amount.Float(), orDash(a.Status), orDash(a.Description),
			}
		},
	},
}

// Attendance sheet layouts
var (
	dutyHeaders = []string{
		"Date", "Driver", "Mobile", "Car", "In", "Out", "Start KM", "End KM", "KM",
		"Daily Wage", "Bonus", "Toll/Parking", "Fuel", "Pending Expenses", "Remarks",
	}
	// columns summed on staff and freelancer TOTAL rows
	dutyTotalCols = []int{8, 9, 10, 11, 12}

	outsideHeaders = []string{"Date", "Car", "Driver", "Mobile", "In", "Out", "Duty Amount", "Remarks"}
	outsideWageCol = 6

	vehicleHeaders = []string{
		"Car", "Model", "Type", "Days Worked", "KM", "Toll/Parking", "Fuel Cost", "Gross Duty", "Net Revenue",
	}
)

var attendanceSheetNames = map[report.Category]string{
	report.CategoryDrivers:     "Staff Drivers",
	report.CategoryFreelancers: "Freelancers",
	report.CategoryOutsideCars: "Outside Cars",
}

// VehicleSummarySheet is the per-vehicle roll-up sheet
const VehicleSummarySheet = "Vehicle Summary"

func dutyRow(a *models.Attendance, date string, wage float64) []interface{} {
	mobile := ""
	if a.Driver != nil {
		mobile = a.Driver.Mobile
	}
	return []interface{}{
		orDash(date), orNA(a.DriverName()), orDash(mobile), orNA(a.CarNumber()),
		orDash(a.InTime()), orDash(a.OutTime()),
		a.StartKM(), a.EndKM(), a.KM(),
		wage, a.Bonus(), a.TollParking(), a.FuelCost(), a.PendingExpenseTotal(),
		orDash(a.Remarks()),
	}
}

func outsideRow(a *models.Attendance, date string, wage float64) []interface{} {
	mobile := ""
	if a.Driver != nil {
		mobile = a.Driver.Mobile
	}
	return []interface{}{
		orDash(date), orNA(a.CarNumber()), orNA(a.DriverName()), orDash(mobile),
		orDash(a.InTime()), orDash(a.OutTime()), wage, orDash(a.Remarks()),
	}
}

func vehicleRow(v VehicleSummary) []interface{} {
	kind := "Company"
	if v.Outside {
		kind = "Outside"
	}
	return []interface{}{
		orNA(v.CarNumber), orDash(v.Model), kind, v.DaysWorked,
		v.KM, v.TollParking, v.FuelCost, v.GrossDuty, v.NetRevenue(),
	}
}

// totalRow sums the given numeric columns of rows
func totalRow(width int, rows [][]interface{}, cols ...int) []interface{} {
	total := make([]interface{}, width)
	for i := range total {
		total[i] = ""
	}
	total[0] = totalLabel
	for _, col := range cols {
		var sum float64
		for _, row := range rows {
			switch v := row[col].(type) {
			case float64:
				sum += v
			case int:
				sum += float64(v)
			}
		}
		total[col] = sum
	}
	return total
}

func orNA(s string) string {
	if s == "" {
		return missing
	}
	return s
}
