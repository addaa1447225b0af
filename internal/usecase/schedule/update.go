package schedule

import (
	"context"

	"github.com/ateliersoft/studio-scheduler/internal/audit"
	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/models"
)

type UpdateAppointmentInput struct {
	BusinessID    uint
	UserID        uint
	AppointmentID uint

	Date *string
	Time *string

	ServiceID *uint

	NumberOfPeople *int
	OverridePrice  *float64
	ClearOverride  bool

	Recurrence      *models.Recurrence
	ClearRecurrence bool

	Participants []ParticipantInput

	Notes *string
}

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute applies edit-form changes. Series rows accept date, time and
// recurrence-rule edits (the only in-place mutations a series allows);
// occurrence state changes go through Complete/CancelOccurrence.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.BusinessID, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if in.Date != nil {
		if _, ok := domain.ParseDate(*in.Date); !ok {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		ap.Date = *in.Date
	}
	if in.Time != nil {
		if _, ok := parseClock(*in.Time); !ok {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		ap.Time = *in.Time
	}

	if in.ServiceID != nil {
		svc, err := uc.repo.GetService(ctx, in.BusinessID, *in.ServiceID)
		if err != nil {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		ap.ServiceID = &svc.ID
	}

	if in.NumberOfPeople != nil {
		ap.NumberOfPeople = in.NumberOfPeople
	}
	if in.ClearOverride {
		ap.OverridePrice = nil
	} else if in.OverridePrice != nil {
		ap.OverridePrice = in.OverridePrice
	}

	if in.ClearRecurrence {
		if ap.Kind == domain.KindSeries {
			ap.Kind = domain.KindStandalone
		}
		ap.Recurrence = models.Recurrence{}
	} else if in.Recurrence != nil {
		if ap.Kind == domain.KindOverride {
			return nil, httperr.ErrBusiness("invalid_state")
		}
		if err := validateRecurrence(in.Recurrence); err != nil {
			return nil, err
		}
		ap.Kind = domain.KindSeries
		ap.Recurrence = *in.Recurrence
	}

	if in.Notes != nil {
		ap.Notes = *in.Notes
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if in.Participants != nil {
		create := CreateAppointment{repo: uc.repo}
		participants, err := create.resolveParticipants(ctx, CreateAppointmentInput{
			BusinessID:   in.BusinessID,
			Participants: in.Participants,
		})
		if err != nil {
			return nil, err
		}
		if err := uc.repo.ReplaceParticipants(ctx, ap.ID, participants); err != nil {
			return nil, err
		}
		ap.Clients = participants
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     &in.UserID,
		Action:     "appointment_updated",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
