package schedule

import (
	"context"

	"github.com/ateliersoft/studio-scheduler/internal/audit"
	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes a row outright. Deleting a series row takes every
// virtual occurrence with it; materialized overrides stay behind as
// plain history.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	businessID uint,
	userID uint,
	appointmentID uint,
) error {

	ap, err := uc.repo.GetAppointment(ctx, businessID, appointmentID)
	if err != nil {
		return err
	}

	if err := uc.repo.DeleteAppointment(ctx, businessID, ap.ID); err != nil {
		return err
	}

	action := "appointment_deleted"
	if ap.Kind == domain.KindSeries {
		action = "series_deleted"
	}
	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     optionalUser(userID),
		Action:     action,
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return nil
}
