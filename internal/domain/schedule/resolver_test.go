package schedule

import (
	"reflect"
	"testing"

	"github.com/ateliersoft/studio-scheduler/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func standalone(id uint, date, timeStr string) models.Appointment {
	return models.Appointment{
		ID:     id,
		Kind:   KindStandalone,
		Date:   date,
		Time:   timeStr,
		Status: string(StatusConfirmed),
	}
}

func weeklySeries(id uint, date, timeStr string, interval int, daysOfWeek []int, endDate string) models.Appointment {
	return models.Appointment{
		ID:     id,
		Kind:   KindSeries,
		Date:   date,
		Time:   timeStr,
		Status: string(StatusConfirmed),
		Recurrence: models.Recurrence{
			Frequency:  "weekly",
			Interval:   interval,
			DaysOfWeek: daysOfWeek,
			EndDate:    endDate,
		},
	}
}

func monthlySeries(id uint, date, timeStr string, interval int) models.Appointment {
	return models.Appointment{
		ID:     id,
		Kind:   KindSeries,
		Date:   date,
		Time:   timeStr,
		Status: string(StatusConfirmed),
		Recurrence: models.Recurrence{
			Frequency: "monthly",
			Interval:  interval,
		},
	}
}

func TestIsOccurrence_ExactBaseDateMatch(t *testing.T) {
	plain := standalone(1, "2024-05-10", "09:00")
	if !IsOccurrence(&plain, "2024-05-10") {
		t.Error("expected exact base-date match for non-recurring appointment")
	}

	series := weeklySeries(2, "2024-05-10", "09:00", 2, nil, "")
	if !IsOccurrence(&series, "2024-05-10") {
		t.Error("expected exact base-date match regardless of recurrence")
	}
}

func TestIsOccurrence_NoRecurrenceOtherDate(t *testing.T) {
	ap := standalone(1, "2024-05-10", "09:00")
	if IsOccurrence(&ap, "2024-05-11") {
		t.Error("non-recurring appointment must not occur on other dates")
	}
}

func TestIsOccurrence_WeeklyLegacy(t *testing.T) {
	// 2024-01-01 is a Monday; interval 1, no weekday set.
	ap := weeklySeries(1, "2024-01-01", "10:00", 1, nil, "")

	for _, date := range []string{"2024-01-08", "2024-01-15", "2024-02-05"} {
		if !IsOccurrence(&ap, date) {
			t.Errorf("expected occurrence on %s", date)
		}
	}
	for _, date := range []string{"2024-01-02", "2024-01-10", "2023-12-25"} {
		if IsOccurrence(&ap, date) {
			t.Errorf("did not expect occurrence on %s", date)
		}
	}
}

func TestIsOccurrence_WeeklyLegacyInterval(t *testing.T) {
	ap := weeklySeries(1, "2024-01-01", "10:00", 2, nil, "")

	if !IsOccurrence(&ap, "2024-01-15") {
		t.Error("expected occurrence two weeks after base")
	}
	if IsOccurrence(&ap, "2024-01-08") {
		t.Error("did not expect occurrence on an odd week")
	}
}

func TestIsOccurrence_WeeklyMultiDay(t *testing.T) {
	// Base Monday 2024-01-01, Mondays and Wednesdays, every 2 weeks.
	ap := weeklySeries(1, "2024-01-01", "10:00", 2, []int{1, 3}, "")

	// Same week: Wednesday counts even though it is not the base day.
	if !IsOccurrence(&ap, "2024-01-03") {
		t.Error("expected occurrence on Wednesday of the base week")
	}
	for _, date := range []string{"2024-01-15", "2024-01-17"} {
		if !IsOccurrence(&ap, date) {
			t.Errorf("expected occurrence on %s (two weeks later)", date)
		}
	}
	// One week later is an odd interval multiple.
	for _, date := range []string{"2024-01-08", "2024-01-10"} {
		if IsOccurrence(&ap, date) {
			t.Errorf("did not expect occurrence on %s (odd week)", date)
		}
	}
	// Right weekday cadence, wrong weekday.
	if IsOccurrence(&ap, "2024-01-16") {
		t.Error("did not expect occurrence on a Tuesday")
	}
}

func TestIsOccurrence_Monthly(t *testing.T) {
	ap := monthlySeries(1, "2024-01-31", "10:00", 1)

	// February has no 31st: every February date must fail the
	// day-of-month check.
	for _, date := range []string{"2024-02-01", "2024-02-28", "2024-02-29"} {
		if IsOccurrence(&ap, date) {
			t.Errorf("did not expect occurrence on %s", date)
		}
	}
	if !IsOccurrence(&ap, "2024-03-31") {
		t.Error("expected occurrence on 2024-03-31")
	}
	if !IsOccurrence(&ap, "2024-05-31") {
		t.Error("expected occurrence on 2024-05-31")
	}
}

func TestIsOccurrence_MonthlyInterval(t *testing.T) {
	ap := monthlySeries(1, "2024-01-15", "10:00", 3)

	if !IsOccurrence(&ap, "2024-04-15") {
		t.Error("expected occurrence three months after base")
	}
	if IsOccurrence(&ap, "2024-02-15") {
		t.Error("did not expect occurrence one month after base")
	}
}

func TestIsOccurrence_EndDateInclusive(t *testing.T) {
	ap := weeklySeries(1, "2024-01-04", "10:00", 1, nil, "2024-02-01")

	// 2024-02-01 is exactly four weeks after a Thursday base.
	if !IsOccurrence(&ap, "2024-02-01") {
		t.Error("expected occurrence on the inclusive end date")
	}
	if IsOccurrence(&ap, "2024-02-08") {
		t.Error("did not expect occurrence after the end date")
	}
}

func TestIsOccurrence_BeforeBaseDate(t *testing.T) {
	ap := weeklySeries(1, "2024-03-04", "10:00", 1, []int{1}, "")
	if IsOccurrence(&ap, "2024-02-26") {
		t.Error("series must not occur before its base date")
	}
}

func TestIsOccurrence_UnknownFrequency(t *testing.T) {
	ap := models.Appointment{
		ID:     1,
		Kind:   KindSeries,
		Date:   "2024-01-01",
		Time:   "10:00",
		Status: string(StatusConfirmed),
		Recurrence: models.Recurrence{
			Frequency: "daily",
			Interval:  1,
		},
	}
	if IsOccurrence(&ap, "2024-01-02") {
		t.Error("unknown frequency must never match")
	}
}

func TestIsOccurrence_MalformedDates(t *testing.T) {
	ap := weeklySeries(1, "not-a-date", "10:00", 1, nil, "")
	if IsOccurrence(&ap, "2024-01-08") {
		t.Error("malformed base date must degrade to no match")
	}

	ok := weeklySeries(2, "2024-01-01", "10:00", 1, nil, "")
	if IsOccurrence(&ok, "garbage") {
		t.Error("malformed target date must degrade to no match")
	}
	// The exact string match still works even for malformed values.
	if !IsOccurrence(&ap, "not-a-date") {
		t.Error("exact string match must win before parsing")
	}
}

func overrideFor(id uint, series *models.Appointment, date string, status Status) models.Appointment {
	ov := models.Appointment{
		ID:             id,
		Kind:           KindOverride,
		ServiceID:      series.ServiceID,
		Date:           date,
		Time:           series.Time,
		Status:         string(status),
		SeriesID:       &series.ID,
		OccurrenceDate: date,
	}
	for _, c := range series.Clients {
		ov.Clients = append(ov.Clients, models.AppointmentClient{
			ClientID: c.ClientID, Position: c.Position, Name: c.Name,
		})
	}
	return ov
}

func TestResolveForDate_OverrideSuppression(t *testing.T) {
	series := weeklySeries(1, "2024-02-26", "10:00", 1, nil, "")
	series.ServiceID = uintPtr(7)
	series.Clients = []models.AppointmentClient{{ClientID: 3, Position: 0, Name: "Jane"}}

	completed := overrideFor(2, &series, "2024-03-04", StatusCompleted)

	all := []models.Appointment{series, completed}
	services := map[uint]models.Service{7: {ID: 7, DurationMin: 45, Price: 30}}

	// On the overridden date the series' virtual instance is
	// suppressed; only the override row appears.
	got := ResolveForDate(all, services, "2024-03-04", nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry on override date, got %d", len(got))
	}
	if got[0].Appointment.ID != 2 {
		t.Errorf("expected override row to be emitted, got id=%d", got[0].Appointment.ID)
	}

	// The next occurrence is unaffected.
	got = ResolveForDate(all, services, "2024-03-11", nil)
	if len(got) != 1 || got[0].Appointment.ID != 1 {
		t.Fatalf("expected the series occurrence on 2024-03-11, got %+v", got)
	}
	if !got[0].Virtual || got[0].Appointment.Date != "2024-03-11" {
		t.Error("virtual occurrence must carry the viewed date")
	}
}

func TestResolveForDate_LegacyOverrideWithoutSeriesLink(t *testing.T) {
	series := weeklySeries(1, "2024-02-26", "10:00", 1, nil, "")
	series.ServiceID = uintPtr(7)
	series.Clients = []models.AppointmentClient{{ClientID: 3, Position: 0, Name: "Jane"}}

	// Matching (time, service, primary client) tuple but no SeriesID.
	legacy := overrideFor(2, &series, "2024-03-04", StatusCancelled)
	legacy.SeriesID = nil

	got := ResolveForDate(
		[]models.Appointment{series, legacy},
		map[uint]models.Service{7: {ID: 7, DurationMin: 45}},
		"2024-03-04",
		nil,
	)
	if len(got) != 1 || got[0].Appointment.ID != 2 {
		t.Fatalf("expected series-key fallback to suppress the virtual instance, got %+v", got)
	}
}

func TestResolveForDate_StatusFilter(t *testing.T) {
	a := standalone(1, "2024-03-04", "09:00")
	b := standalone(2, "2024-03-04", "10:00")
	b.Status = string(StatusCancelled)

	got := ResolveForDate(
		[]models.Appointment{a, b},
		nil,
		"2024-03-04",
		[]Status{StatusConfirmed, StatusPending},
	)
	if len(got) != 1 || got[0].Appointment.ID != 1 {
		t.Fatalf("expected cancelled appointment to be filtered out, got %+v", got)
	}
}

func TestResolveForDate_SuppressionSurvivesStatusFilter(t *testing.T) {
	series := weeklySeries(1, "2024-02-26", "10:00", 1, nil, "")
	completed := overrideFor(2, &series, "2024-03-04", StatusCompleted)

	// Viewing only confirmed appointments: the completed override is
	// filtered out AND the series stays suppressed on that date — the
	// occurrence no longer exists in a confirmed state.
	got := ResolveForDate(
		[]models.Appointment{series, completed},
		nil,
		"2024-03-04",
		[]Status{StatusConfirmed},
	)
	if len(got) != 0 {
		t.Fatalf("expected no entries, got %+v", got)
	}
}

func TestResolveForDate_SortedByTime(t *testing.T) {
	a := standalone(1, "2024-03-04", "14:00")
	b := standalone(2, "2024-03-04", "09:30")
	c := standalone(3, "2024-03-04", "09:05")

	got := ResolveForDate([]models.Appointment{a, b, c}, nil, "2024-03-04", nil)

	var times []string
	for _, r := range got {
		times = append(times, r.Appointment.Time)
	}
	want := []string{"09:05", "09:30", "14:00"}
	if !reflect.DeepEqual(times, want) {
		t.Errorf("expected %v, got %v", want, times)
	}
}

func TestResolveForDate_Deduplication(t *testing.T) {
	// A series whose base date IS the target date matches both the
	// exact-date path and the recurrence path; it must appear once.
	series := weeklySeries(1, "2024-03-04", "10:00", 1, []int{1}, "")

	got := ResolveForDate([]models.Appointment{series}, nil, "2024-03-04", nil)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 entry, got %d", len(got))
	}
	if got[0].Virtual {
		t.Error("base-date occurrence must not be marked virtual")
	}
}

func TestResolveForDate_Idempotent(t *testing.T) {
	series := weeklySeries(1, "2024-01-01", "10:00", 1, []int{1, 3}, "")
	other := standalone(2, "2024-01-15", "08:00")
	input := []models.Appointment{series, other}

	first := ResolveForDate(input, nil, "2024-01-15", nil)
	second := ResolveForDate(input, nil, "2024-01-15", nil)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must yield identical output")
	}
	// The stored rows are untouched by the read path.
	if input[0].Date != "2024-01-01" {
		t.Error("resolver must not mutate stored appointments")
	}
}

func TestResolveForDate_MissingServiceDuration(t *testing.T) {
	ap := standalone(1, "2024-03-04", "10:00")
	ap.ServiceID = uintPtr(99) // deleted service

	got := ResolveForDate([]models.Appointment{ap}, map[uint]models.Service{}, "2024-03-04", nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].DurationMin != DefaultDurationMin {
		t.Errorf("expected fallback duration %d, got %d", DefaultDurationMin, got[0].DurationMin)
	}
}
