package schedule

import (
	"context"

	"github.com/ateliersoft/studio-scheduler/internal/audit"
	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/models"
	"github.com/ateliersoft/studio-scheduler/internal/timezone"
)

type CancelOccurrence struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelOccurrence(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelOccurrence {
	return &CancelOccurrence{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelOccurrence) Execute(
	ctx context.Context,
	businessID uint,
	userID uint,
	appointmentID uint,
	date string,
) (*models.Appointment, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, businessID, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := timezone.NowIn(biz.Timezone)

	if ap.Kind == domain.KindSeries {
		target := date
		if target == "" {
			target = ap.Date
		}
		if !domain.IsOccurrence(ap, target) {
			return nil, httperr.ErrBusiness("not_an_occurrence")
		}

		exists, err := uc.repo.HasOverrideForDate(ctx, ap.ID, target)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, httperr.ErrBusiness("invalid_state")
		}

		ov := domain.BuildOverride(ap, target, domain.StatusCancelled, now)
		if err := uc.repo.CreateAppointment(ctx, ov); err != nil {
			return nil, err
		}

		uc.audit.Dispatch(audit.Event{
			BusinessID: businessID,
			UserID:     &userID,
			Action:     "occurrence_cancelled",
			Entity:     "appointment",
			EntityID:   &ov.ID,
			Metadata:   map[string]any{"series_id": ap.ID, "date": target},
		})

		return ov, nil
	}

	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     "appointment_cancelled",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
