package schedule

import (
	"time"

	"github.com/ateliersoft/studio-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Cancel and Complete apply to standalone appointments and override
// rows. A series row is never mutated by occurrence state changes; a
// single occurrence is completed or cancelled by materializing an
// override row instead (see BuildOverride).

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	return nil
}

// BuildOverride materializes a standalone record for one occurrence of
// a series, dated at the occurrence being viewed. The override row
// suppresses the series' virtual occurrence on that date only.
func BuildOverride(series *models.Appointment, occurrenceDate string, status Status, now time.Time) *models.Appointment {
	ov := &models.Appointment{
		BusinessID:     series.BusinessID,
		Kind:           KindOverride,
		ServiceID:      series.ServiceID,
		Blocked:        series.Blocked,
		Date:           occurrenceDate,
		Time:           series.Time,
		Status:         string(status),
		NumberOfPeople: series.NumberOfPeople,
		OverridePrice:  series.OverridePrice,
		SeriesID:       &series.ID,
		OccurrenceDate: occurrenceDate,
		Notes:          series.Notes,
	}

	for _, c := range series.Clients {
		ov.Clients = append(ov.Clients, models.AppointmentClient{
			ClientID: c.ClientID,
			Position: c.Position,
			Name:     c.Name,
		})
	}

	switch status {
	case StatusCompleted:
		ov.CompletedAt = &now
	case StatusCancelled:
		ov.CancelledAt = &now
	}

	return ov
}
