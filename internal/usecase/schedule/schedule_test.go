package schedule

import (
	"context"
	"strings"
	"testing"

	"github.com/ateliersoft/studio-scheduler/internal/audit"
	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/models"
)

// fakeRepo is an in-memory Repository for usecase tests.
type fakeRepo struct {
	business     models.Business
	services     map[uint]models.Service
	clients      []models.Client
	appointments []models.Appointment
	workingHours map[int]models.WorkingHours
	expenses     []models.Expense

	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		business: models.Business{
			ID:       1,
			Name:     "Studio One",
			Slug:     "studio-one",
			Timezone: "America/New_York",
		},
		services: map[uint]models.Service{
			10: {ID: 10, BusinessID: 1, Name: "Cut", DurationMin: 30, Price: 40},
			11: {ID: 11, BusinessID: 1, Name: "Class", DurationMin: 60, Price: 25, PricePerPerson: true},
		},
		workingHours: map[int]models.WorkingHours{},
		nextID:       100,
	}
}

func (f *fakeRepo) GetBusinessByID(_ context.Context, id uint) (*models.Business, error) {
	b := f.business
	return &b, nil
}

func (f *fakeRepo) GetBusinessBySlug(_ context.Context, _ string) (*models.Business, error) {
	b := f.business
	return &b, nil
}

func (f *fakeRepo) GetService(_ context.Context, _ uint, serviceID uint) (*models.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return &svc, nil
}

func (f *fakeRepo) ServiceMap(_ context.Context, _ uint) (map[uint]models.Service, error) {
	out := make(map[uint]models.Service, len(f.services))
	for id, svc := range f.services {
		out[id] = svc
	}
	return out, nil
}

func (f *fakeRepo) GetOrCreateClient(_ context.Context, businessID uint, name, phone, email string) (*models.Client, error) {
	for _, c := range f.clients {
		if strings.EqualFold(c.Name, name) {
			out := c
			return &out, nil
		}
	}
	f.nextID++
	c := models.Client{ID: f.nextID, BusinessID: businessID, Name: name, Phone: phone, Email: email}
	f.clients = append(f.clients, c)
	return &c, nil
}

func (f *fakeRepo) GetClients(_ context.Context, _ uint, ids []uint) ([]models.Client, error) {
	var out []models.Client
	for _, c := range f.clients {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	f.nextID++
	ap.ID = f.nextID
	f.appointments = append(f.appointments, *ap)
	return nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, _ uint, appointmentID uint) (*models.Appointment, error) {
	for _, ap := range f.appointments {
		if ap.ID == appointmentID {
			out := ap
			return &out, nil
		}
	}
	return nil, httperr.ErrBusiness("appointment_not_found")
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i := range f.appointments {
		if f.appointments[i].ID == ap.ID {
			f.appointments[i] = *ap
			return nil
		}
	}
	return httperr.ErrBusiness("appointment_not_found")
}

func (f *fakeRepo) DeleteAppointment(_ context.Context, _ uint, appointmentID uint) error {
	for i := range f.appointments {
		if f.appointments[i].ID == appointmentID {
			f.appointments = append(f.appointments[:i], f.appointments[i+1:]...)
			return nil
		}
	}
	return httperr.ErrBusiness("appointment_not_found")
}

func (f *fakeRepo) ListAppointments(_ context.Context, _ uint) ([]models.Appointment, error) {
	out := make([]models.Appointment, len(f.appointments))
	copy(out, f.appointments)
	return out, nil
}

func (f *fakeRepo) HasOverrideForDate(_ context.Context, seriesID uint, date string) (bool, error) {
	for _, ap := range f.appointments {
		if ap.Kind == domain.KindOverride &&
			ap.SeriesID != nil && *ap.SeriesID == seriesID &&
			ap.OccurrenceDate == date {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ReplaceParticipants(_ context.Context, appointmentID uint, clients []models.AppointmentClient) error {
	for i := range f.appointments {
		if f.appointments[i].ID == appointmentID {
			f.appointments[i].Clients = clients
			return nil
		}
	}
	return httperr.ErrBusiness("appointment_not_found")
}

func (f *fakeRepo) GetWorkingHours(_ context.Context, _ uint, weekday int) (*models.WorkingHours, error) {
	wh, ok := f.workingHours[weekday]
	if !ok {
		return nil, nil
	}
	out := wh
	return &out, nil
}

func (f *fakeRepo) ListExpensesForRange(_ context.Context, _ uint, from, to string) ([]models.Expense, error) {
	var out []models.Expense
	for _, e := range f.expenses {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

func testDispatcher(t *testing.T) *audit.Dispatcher {
	t.Helper()
	return audit.NewDispatcher(audit.New(nil))
}

// --------------------------------------------------
// Create
// --------------------------------------------------

func TestCreateAppointmentRejectsConflict(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher(t))

	first := CreateAppointmentInput{
		BusinessID: 1,
		UserID:     1,
		ServiceID:  10,
		Date:       "2024-04-01",
		Time:       "10:00",
		Participants: []ParticipantInput{
			{Name: "Ana", Phone: "111"},
		},
	}
	if _, err := uc.Execute(context.Background(), first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Cut is 30 min; 10:15 overlaps 10:00-10:30.
	second := first
	second.Time = "10:15"
	second.Participants = []ParticipantInput{{Name: "Bea", Phone: "222"}}
	if _, err := uc.Execute(context.Background(), second); !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("expected time_conflict, got %v", err)
	}

	// Same minute next day is fine.
	third := first
	third.Date = "2024-04-02"
	third.Participants = []ParticipantInput{{Name: "Bea", Phone: "222"}}
	if _, err := uc.Execute(context.Background(), third); err != nil {
		t.Fatalf("next day create: %v", err)
	}
}

func TestCreateSeriesSkipsConflictCheck(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher(t))

	base := CreateAppointmentInput{
		BusinessID:   1,
		UserID:       1,
		ServiceID:    10,
		Date:         "2024-04-01",
		Time:         "10:00",
		Participants: []ParticipantInput{{Name: "Ana", Phone: "111"}},
	}
	if _, err := uc.Execute(context.Background(), base); err != nil {
		t.Fatalf("standalone create: %v", err)
	}

	series := base
	series.Participants = []ParticipantInput{{Name: "Bea", Phone: "222"}}
	series.Recurrence = &models.Recurrence{Frequency: "weekly", Interval: 1}
	ap, err := uc.Execute(context.Background(), series)
	if err != nil {
		t.Fatalf("series create: %v", err)
	}
	if ap.Kind != domain.KindSeries {
		t.Fatalf("kind = %q, want series", ap.Kind)
	}
}

func TestCreateValidatesRecurrence(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateAppointment(repo, testDispatcher(t))

	bad := []*models.Recurrence{
		{Frequency: "daily", Interval: 1},
		{Frequency: "weekly", Interval: 0},
		{Frequency: "weekly", Interval: 1, DaysOfWeek: []int{7}},
		{Frequency: "monthly", Interval: 1, DaysOfWeek: []int{1}},
		{Frequency: "weekly", Interval: 1, EndDate: "not-a-date"},
	}
	for _, r := range bad {
		_, err := uc.Execute(context.Background(), CreateAppointmentInput{
			BusinessID:   1,
			UserID:       1,
			ServiceID:    10,
			Date:         "2024-04-01",
			Time:         "10:00",
			Participants: []ParticipantInput{{Name: "Ana"}},
			Recurrence:   r,
		})
		if !httperr.IsBusiness(err, "invalid_recurrence") {
			t.Errorf("recurrence %+v: expected invalid_recurrence, got %v", r, err)
		}
	}
}

// --------------------------------------------------
// Complete / Cancel occurrences
// --------------------------------------------------

func seedWeeklySeries(t *testing.T, repo *fakeRepo) uint {
	t.Helper()
	serviceID := uint(10)
	repo.appointments = append(repo.appointments, models.Appointment{
		ID:         50,
		BusinessID: 1,
		Kind:       domain.KindSeries,
		ServiceID:  &serviceID,
		Date:       "2024-04-01", // Monday
		Time:       "10:00",
		Status:     string(domain.StatusConfirmed),
		Clients:    []models.AppointmentClient{{ClientID: 1, Name: "Ana"}},
		Recurrence: models.Recurrence{Frequency: "weekly", Interval: 1},
	})
	return 50
}

func TestCompleteSeriesOccurrenceMaterializesOverride(t *testing.T) {
	repo := newFakeRepo()
	id := seedWeeklySeries(t, repo)
	uc := NewCompleteOccurrence(repo, testDispatcher(t))

	ov, err := uc.Execute(context.Background(), 1, 1, id, "2024-04-08")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if ov.Kind != domain.KindOverride {
		t.Fatalf("kind = %q, want override", ov.Kind)
	}
	if ov.SeriesID == nil || *ov.SeriesID != id {
		t.Fatalf("series id = %v, want %d", ov.SeriesID, id)
	}
	if ov.OccurrenceDate != "2024-04-08" || ov.Date != "2024-04-08" {
		t.Fatalf("override dated %s/%s, want 2024-04-08", ov.Date, ov.OccurrenceDate)
	}
	if ov.Status != string(domain.StatusCompleted) || ov.CompletedAt == nil {
		t.Fatalf("override status %q completedAt %v", ov.Status, ov.CompletedAt)
	}

	// Series row untouched.
	series, _ := repo.GetAppointment(context.Background(), 1, id)
	if series.Status != string(domain.StatusConfirmed) {
		t.Fatalf("series status mutated to %q", series.Status)
	}

	// Second completion of the same date is rejected.
	if _, err := uc.Execute(context.Background(), 1, 1, id, "2024-04-08"); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}

	// The resolved day shows exactly one entry, the override.
	all, _ := repo.ListAppointments(context.Background(), 1)
	services, _ := repo.ServiceMap(context.Background(), 1)
	day := domain.ResolveForDate(all, services, "2024-04-08", nil)
	if len(day) != 1 || day[0].Appointment.Kind != domain.KindOverride {
		t.Fatalf("resolved day = %+v, want single override", day)
	}
}

func TestCompleteRejectsNonOccurrenceDate(t *testing.T) {
	repo := newFakeRepo()
	id := seedWeeklySeries(t, repo)
	uc := NewCompleteOccurrence(repo, testDispatcher(t))

	// Tuesday is not on the weekly Monday series.
	if _, err := uc.Execute(context.Background(), 1, 1, id, "2024-04-09"); !httperr.IsBusiness(err, "not_an_occurrence") {
		t.Fatalf("expected not_an_occurrence, got %v", err)
	}
}

func TestCancelStandaloneTransitionsInPlace(t *testing.T) {
	repo := newFakeRepo()
	serviceID := uint(10)
	repo.appointments = append(repo.appointments, models.Appointment{
		ID:         60,
		BusinessID: 1,
		Kind:       domain.KindStandalone,
		ServiceID:  &serviceID,
		Date:       "2024-04-01",
		Time:       "09:00",
		Status:     string(domain.StatusConfirmed),
	})
	uc := NewCancelOccurrence(repo, testDispatcher(t))

	ap, err := uc.Execute(context.Background(), 1, 1, 60, "")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ap.Status != string(domain.StatusCancelled) || ap.CancelledAt == nil {
		t.Fatalf("status %q cancelledAt %v", ap.Status, ap.CancelledAt)
	}

	// Cancelling again is an invalid transition.
	if _, err := uc.Execute(context.Background(), 1, 1, 60, ""); err == nil {
		t.Fatal("expected error on double cancel")
	}
}

// --------------------------------------------------
// Update
// --------------------------------------------------

func TestUpdateClearRecurrenceDemotesSeries(t *testing.T) {
	repo := newFakeRepo()
	id := seedWeeklySeries(t, repo)
	uc := NewUpdateAppointment(repo, testDispatcher(t))

	ap, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		BusinessID:      1,
		UserID:          1,
		AppointmentID:   id,
		ClearRecurrence: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if ap.Kind != domain.KindStandalone || ap.Recurrence.Frequency != "" {
		t.Fatalf("still recurring: kind=%q freq=%q", ap.Kind, ap.Recurrence.Frequency)
	}
}

func TestUpdateRejectsRecurrenceOnOverride(t *testing.T) {
	repo := newFakeRepo()
	seriesID := uint(50)
	repo.appointments = append(repo.appointments, models.Appointment{
		ID:             70,
		BusinessID:     1,
		Kind:           domain.KindOverride,
		SeriesID:       &seriesID,
		OccurrenceDate: "2024-04-08",
		Date:           "2024-04-08",
		Time:           "10:00",
		Status:         string(domain.StatusCompleted),
	})
	uc := NewUpdateAppointment(repo, testDispatcher(t))

	_, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		BusinessID:    1,
		UserID:        1,
		AppointmentID: 70,
		Recurrence:    &models.Recurrence{Frequency: "weekly", Interval: 1},
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

// --------------------------------------------------
// Schedule views
// --------------------------------------------------

func TestListScheduleForRangeBounds(t *testing.T) {
	repo := newFakeRepo()
	uc := NewListScheduleForRange(repo)

	if _, err := uc.Execute(context.Background(), 1, "2024-04-10", "2024-04-01", nil); !httperr.IsBusiness(err, "invalid_range") {
		t.Fatalf("expected invalid_range, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), 1, "2024-01-01", "2024-12-31", nil); !httperr.IsBusiness(err, "range_too_large") {
		t.Fatalf("expected range_too_large, got %v", err)
	}

	days, err := uc.Execute(context.Background(), 1, "2024-04-01", "2024-04-07", nil)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("len(days) = %d, want 7", len(days))
	}
	if days[0].Date != "2024-04-01" || days[6].Date != "2024-04-07" {
		t.Fatalf("day bounds %s..%s", days[0].Date, days[6].Date)
	}
}

func TestGetAvailabilityExcludesBookedAndBreak(t *testing.T) {
	repo := newFakeRepo()
	repo.workingHours[1] = models.WorkingHours{ // Monday
		UserID:     1,
		Weekday:    1,
		Active:     true,
		StartTime:  "09:00",
		EndTime:    "12:00",
		BreakStart: "10:00",
		BreakEnd:   "10:30",
	}
	serviceID := uint(10)
	repo.appointments = append(repo.appointments, models.Appointment{
		ID:         80,
		BusinessID: 1,
		Kind:       domain.KindStandalone,
		ServiceID:  &serviceID,
		Date:       "2024-04-01",
		Time:       "09:00",
		Status:     string(domain.StatusConfirmed),
	})

	uc := NewGetAvailability(repo)
	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BusinessID: 1,
		UserID:     1,
		ServiceID:  10,
		Date:       "2024-04-01",
	})
	if err != nil {
		t.Fatalf("availability: %v", err)
	}

	got := make([]string, 0, len(slots))
	for _, s := range slots {
		got = append(got, s.Start)
	}
	// 09:00 booked, 09:30 free, 10:00 break, 10:30-11:30 free.
	want := []string{"09:30", "10:30", "11:00", "11:30"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("slots = %v, want %v", got, want)
	}
}

// --------------------------------------------------
// Revenue
// --------------------------------------------------

func TestRevenueReportCountsCompletedOnly(t *testing.T) {
	repo := newFakeRepo()
	cut := uint(10)
	class := uint(11)
	people := 3

	repo.appointments = append(repo.appointments,
		models.Appointment{
			ID: 90, BusinessID: 1, Kind: domain.KindStandalone,
			ServiceID: &cut, Date: "2024-04-01", Time: "09:00",
			Status: string(domain.StatusCompleted),
		},
		models.Appointment{
			ID: 91, BusinessID: 1, Kind: domain.KindStandalone,
			ServiceID: &class, Date: "2024-04-02", Time: "10:00",
			Status:         string(domain.StatusCompleted),
			NumberOfPeople: &people,
		},
		models.Appointment{
			ID: 92, BusinessID: 1, Kind: domain.KindStandalone,
			ServiceID: &cut, Date: "2024-04-03", Time: "09:00",
			Status: string(domain.StatusCancelled),
		},
	)
	repo.expenses = append(repo.expenses, models.Expense{
		BusinessID: 1, Date: "2024-04-02", Category: "rent", Amount: 30,
	})

	uc := NewGetRevenueReport(repo)
	report, err := uc.Execute(context.Background(), 1, "2024-04-01", "2024-04-30")
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	if report.CompletedCount != 2 {
		t.Fatalf("completed = %d, want 2", report.CompletedCount)
	}
	// Cut 40 flat + Class 25 x 3 people.
	if report.Revenue != 115 {
		t.Fatalf("revenue = %v, want 115", report.Revenue)
	}
	if report.Expenses != 30 || report.Net != 85 {
		t.Fatalf("expenses/net = %v/%v, want 30/85", report.Expenses, report.Net)
	}
	if len(report.ByService) != 2 || report.ByService[0].Revenue < report.ByService[1].Revenue {
		t.Fatalf("by_service = %+v, want two rows sorted by revenue", report.ByService)
	}
}
