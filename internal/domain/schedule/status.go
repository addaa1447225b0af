package schedule

import "github.com/ateliersoft/studio-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusBlocked   Status = "blocked"
)

// ===============================
// Appointment Kind
// ===============================

const (
	KindStandalone = "standalone"
	KindSeries     = "series"
	KindOverride   = "override"
)

// ===============================
// Validations
// ===============================

func isOpen(current Status) bool {
	return current == StatusConfirmed || current == StatusPending
}

// CanCancel decides whether an appointment may still be cancelled.
func CanCancel(current Status) error {
	if !isOpen(current) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete decides whether an appointment may be marked completed.
func CanComplete(current Status) error {
	if !isOpen(current) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanConfirm applies to pending public bookings only.
func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// InitialStatus is the status of staff-created appointments.
func InitialStatus() Status {
	return StatusConfirmed
}

// InitialPublicStatus is the status of bookings made through the
// public page; the owner confirms them afterwards.
func InitialPublicStatus() Status {
	return StatusPending
}
