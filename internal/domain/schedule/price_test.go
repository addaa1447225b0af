package schedule

import (
	"testing"

	"github.com/ateliersoft/studio-scheduler/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestResolvePrice_OverrideAlwaysWins(t *testing.T) {
	svc := models.Service{Price: 50, PricePerPerson: true}
	ap := models.Appointment{
		OverridePrice:  floatPtr(12.5),
		NumberOfPeople: intPtr(4),
		Clients: []models.AppointmentClient{
			{Name: "A"}, {Name: "B"},
		},
	}

	if got := ResolvePrice(&ap, &svc); got != 12.5 {
		t.Errorf("expected override price 12.5, got %v", got)
	}
}

func TestResolvePrice_PerPersonHeadcountFallbacks(t *testing.T) {
	svc := models.Service{Price: 20, PricePerPerson: true}

	// Explicit headcount wins.
	ap := models.Appointment{
		NumberOfPeople: intPtr(3),
		Clients:        []models.AppointmentClient{{Name: "A"}},
	}
	if got := ResolvePrice(&ap, &svc); got != 60 {
		t.Errorf("expected 60 for headcount 3, got %v", got)
	}

	// Falls back to the participant count.
	ap = models.Appointment{
		Clients: []models.AppointmentClient{{Name: "A"}, {Name: "B"}},
	}
	if got := ResolvePrice(&ap, &svc); got != 40 {
		t.Errorf("expected 40 for 2 participants, got %v", got)
	}

	// Falls back to 1.
	ap = models.Appointment{}
	if got := ResolvePrice(&ap, &svc); got != 20 {
		t.Errorf("expected 20 for implicit single person, got %v", got)
	}
}

func TestResolvePrice_FlatPrice(t *testing.T) {
	svc := models.Service{Price: 35}
	ap := models.Appointment{NumberOfPeople: intPtr(5)}

	if got := ResolvePrice(&ap, &svc); got != 35 {
		t.Errorf("flat-priced service must ignore headcount, got %v", got)
	}
}

func TestResolvePrice_BlockedAndMissingService(t *testing.T) {
	blocked := models.Appointment{Blocked: true}
	if got := ResolvePrice(&blocked, &models.Service{Price: 10}); got != 0 {
		t.Errorf("blocked time has no price, got %v", got)
	}

	missing := models.Appointment{}
	if got := ResolvePrice(&missing, nil); got != 0 {
		t.Errorf("missing service resolves to 0, got %v", got)
	}
}
