package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ateliersoft/studio-scheduler/internal/audit"
	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/models"
	"github.com/ateliersoft/studio-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ParticipantInput struct {
	ClientID uint
	Name     string
	Phone    string
	Email    string
}

type CreateAppointmentInput struct {
	BusinessID uint
	UserID     uint

	ServiceID uint
	Blocked   bool

	Date string // YYYY-MM-DD
	Time string // HH:MM

	Participants []ParticipantInput

	NumberOfPeople *int
	OverridePrice  *float64

	Recurrence *models.Recurrence

	Notes string

	// Public bookings start pending and honor the minimum advance.
	Public bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	if _, ok := domain.ParseDate(in.Date); !ok {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	startMin, ok := parseClock(in.Time)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	var svc *models.Service
	if !in.Blocked {
		svc, err = uc.repo.GetService(ctx, in.BusinessID, in.ServiceID)
		if err != nil {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		if len(in.Participants) == 0 {
			return nil, httperr.ErrBusiness("missing_client")
		}
	}

	if in.Public {
		if err := uc.checkPublicConstraints(ctx, biz, in, svc, startMin); err != nil {
			return nil, err
		}
	}

	if in.Recurrence != nil {
		if err := validateRecurrence(in.Recurrence); err != nil {
			return nil, err
		}
	}

	// Single slots must not collide with the existing day schedule.
	// Series rows are exempt: their occurrences are virtual and the
	// calendar shows them side by side until reconciled.
	if in.Recurrence == nil && !in.Blocked {
		if err := uc.assertNoConflict(ctx, in, svc, startMin); err != nil {
			return nil, err
		}
	}

	participants, err := uc.resolveParticipants(ctx, in)
	if err != nil {
		return nil, err
	}

	status := domain.InitialStatus()
	if in.Public {
		status = domain.InitialPublicStatus()
	}

	kind := domain.KindStandalone
	ap := &models.Appointment{
		BusinessID:     in.BusinessID,
		Kind:           kind,
		Blocked:        in.Blocked,
		Date:           in.Date,
		Time:           in.Time,
		Status:         string(status),
		Clients:        participants,
		NumberOfPeople: in.NumberOfPeople,
		OverridePrice:  in.OverridePrice,
		Notes:          in.Notes,
		Reference:      uuid.NewString()[:8],
	}
	if in.Blocked {
		ap.Status = string(domain.StatusBlocked)
	}
	if svc != nil {
		ap.ServiceID = &svc.ID
	}
	if in.Recurrence != nil {
		ap.Kind = domain.KindSeries
		ap.Recurrence = *in.Recurrence
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	action := "appointment_created"
	if in.Public {
		action = "appointment_requested"
	}
	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     optionalUser(in.UserID),
		Action:     action,
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}

// ======================================================
// HELPERS
// ======================================================

func (uc *CreateAppointment) checkPublicConstraints(
	ctx context.Context,
	biz *models.Business,
	in CreateAppointmentInput,
	svc *models.Service,
	startMin int,
) error {

	loc := timezone.Location(biz.Timezone)
	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, loc)
	if err != nil {
		return httperr.ErrBusiness("invalid_date_or_time")
	}

	minAdvance := biz.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}
	now := timezone.NowIn(biz.Timezone)
	if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return httperr.ErrBusiness("too_soon")
	}

	// Public requests must land inside the owner's working hours.
	duration := domain.DefaultDurationMin
	if svc != nil && svc.DurationMin > 0 {
		duration = svc.DurationMin
	}
	parsed, _ := domain.ParseDate(in.Date)
	wh, err := uc.repo.GetWorkingHours(ctx, in.UserID, int(parsed.Weekday()))
	if err != nil || !withinWorkingHours(wh, startMin, startMin+duration) {
		return httperr.ErrBusiness("outside_working_hours")
	}

	return nil
}

func (uc *CreateAppointment) assertNoConflict(
	ctx context.Context,
	in CreateAppointmentInput,
	svc *models.Service,
	startMin int,
) error {

	all, err := uc.repo.ListAppointments(ctx, in.BusinessID)
	if err != nil {
		return err
	}
	services, err := uc.repo.ServiceMap(ctx, in.BusinessID)
	if err != nil {
		return err
	}

	duration := domain.DefaultDurationMin
	if svc != nil && svc.DurationMin > 0 {
		duration = svc.DurationMin
	}
	endMin := startMin + duration

	day := domain.ResolveForDate(all, services, in.Date, []domain.Status{
		domain.StatusConfirmed,
		domain.StatusPending,
		domain.StatusBlocked,
	})
	for _, entry := range day {
		otherStart, ok := parseClock(entry.Appointment.Time)
		if !ok {
			continue
		}
		otherEnd := otherStart + entry.DurationMin
		if startMin < otherEnd && endMin > otherStart {
			return httperr.ErrBusiness("time_conflict")
		}
	}

	return nil
}

func (uc *CreateAppointment) resolveParticipants(
	ctx context.Context,
	in CreateAppointmentInput,
) ([]models.AppointmentClient, error) {

	out := make([]models.AppointmentClient, 0, len(in.Participants))

	for i, p := range in.Participants {
		if p.ClientID != 0 {
			clients, err := uc.repo.GetClients(ctx, in.BusinessID, []uint{p.ClientID})
			if err != nil || len(clients) == 0 {
				return nil, httperr.ErrBusiness("client_not_found")
			}
			out = append(out, models.AppointmentClient{
				ClientID: clients[0].ID,
				Position: i,
				Name:     clients[0].Name,
			})
			continue
		}

		if p.Name == "" {
			return nil, httperr.ErrBusiness("missing_client")
		}
		client, err := uc.repo.GetOrCreateClient(ctx, in.BusinessID, p.Name, p.Phone, p.Email)
		if err != nil {
			return nil, err
		}
		out = append(out, models.AppointmentClient{
			ClientID: client.ID,
			Position: i,
			Name:     client.Name,
		})
	}

	return out, nil
}

func validateRecurrence(r *models.Recurrence) error {
	if r.Frequency != "weekly" && r.Frequency != "monthly" {
		return httperr.ErrBusiness("invalid_recurrence")
	}
	if r.Interval <= 0 {
		return httperr.ErrBusiness("invalid_recurrence")
	}
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return httperr.ErrBusiness("invalid_recurrence")
		}
	}
	if r.Frequency == "monthly" && len(r.DaysOfWeek) > 0 {
		return httperr.ErrBusiness("invalid_recurrence")
	}
	if r.EndDate != "" {
		if _, ok := domain.ParseDate(r.EndDate); !ok {
			return httperr.ErrBusiness("invalid_recurrence")
		}
	}
	return nil
}

// parseClock converts zero-padded HH:MM to minutes since midnight.
func parseClock(s string) (int, bool) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func withinWorkingHours(wh *models.WorkingHours, startMin, endMin int) bool {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false
	}

	workStart, ok1 := parseClock(wh.StartTime)
	workEnd, ok2 := parseClock(wh.EndTime)
	if !ok1 || !ok2 {
		return false
	}
	if startMin < workStart || endMin > workEnd {
		return false
	}

	if wh.BreakStart != "" && wh.BreakEnd != "" {
		breakStart, ok1 := parseClock(wh.BreakStart)
		breakEnd, ok2 := parseClock(wh.BreakEnd)
		if ok1 && ok2 && startMin < breakEnd && endMin > breakStart {
			return false
		}
	}

	return true
}

func optionalUser(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
