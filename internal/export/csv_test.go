package export

import (
	"strings"
	"testing"

	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/models"
	usecase "github.com/ateliersoft/studio-scheduler/internal/usecase/schedule"
)

func TestWriteRevenueCSV(t *testing.T) {
	report := &usecase.RevenueReport{
		From:           "2024-04-01",
		To:             "2024-04-30",
		CompletedCount: 2,
		Revenue:        115,
		Expenses:       30,
		Net:            85,
		ByService: []usecase.ServiceRevenue{
			{ServiceID: 11, ServiceName: "Class", Count: 1, Revenue: 75},
			{ServiceID: 10, ServiceName: "Cut", Count: 1, Revenue: 40},
		},
	}

	var b strings.Builder
	if err := WriteRevenueCSV(&b, report); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	want := []string{
		"service,count,revenue",
		"Class,1,75.00",
		"Cut,1,40.00",
		"total_revenue,,115.00",
		"total_expenses,,30.00",
		"net,,85.00",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWriteScheduleCSV(t *testing.T) {
	days := []usecase.DaySchedule{
		{
			Date: "2024-04-01",
			Entries: []domain.Resolved{
				{
					Appointment: models.Appointment{
						Time:    "09:00",
						Status:  "confirmed",
						Clients: []models.AppointmentClient{{Name: "Ana"}},
					},
					Date:        "2024-04-01",
					DurationMin: 30,
					Price:       40,
				},
				{
					Appointment: models.Appointment{
						Time:    "12:00",
						Status:  "blocked",
						Blocked: true,
					},
					Date:        "2024-04-01",
					DurationMin: 60,
				},
			},
		},
	}

	var b strings.Builder
	if err := WriteScheduleCSV(&b, days); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	want := []string{
		"date,time,client,status,duration_min,price",
		"2024-04-01,09:00,Ana,confirmed,30,40.00",
		"2024-04-01,12:00,(blocked),blocked,60,0.00",
	}
	for i := range want {
		if i >= len(lines) || lines[i] != want[i] {
			t.Fatalf("lines = %v, want %v", lines, want)
		}
	}
}
