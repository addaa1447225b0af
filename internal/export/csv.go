package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	usecase "github.com/ateliersoft/studio-scheduler/internal/usecase/schedule"
)

// WriteRevenueCSV renders a revenue report as CSV: a per-service
// breakdown followed by the totals.
func WriteRevenueCSV(w io.Writer, report *usecase.RevenueReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"service", "count", "revenue"}); err != nil {
		return err
	}
	for _, row := range report.ByService {
		if err := cw.Write([]string{
			row.ServiceName,
			strconv.Itoa(row.Count),
			money(row.Revenue),
		}); err != nil {
			return err
		}
	}

	totals := [][]string{
		{"total_revenue", "", money(report.Revenue)},
		{"total_expenses", "", money(report.Expenses)},
		{"net", "", money(report.Net)},
	}
	for _, row := range totals {
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteScheduleCSV renders resolved day schedules, one row per
// occurrence.
func WriteScheduleCSV(w io.Writer, days []usecase.DaySchedule) error {
	cw := csv.NewWriter(w)

	header := []string{"date", "time", "client", "status", "duration_min", "price"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, day := range days {
		for _, entry := range day.Entries {
			name := entry.Appointment.PrimaryClientName()
			if entry.Appointment.Blocked {
				name = "(blocked)"
			}
			if err := cw.Write([]string{
				day.Date,
				entry.Appointment.Time,
				name,
				entry.Appointment.Status,
				strconv.Itoa(entry.DurationMin),
				money(entry.Price),
			}); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
