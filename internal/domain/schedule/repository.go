package schedule

import (
	"context"

	"github.com/ateliersoft/studio-scheduler/internal/models"
)

type Repository interface {
	// -------- Business --------
	GetBusinessByID(
		ctx context.Context,
		id uint,
	) (*models.Business, error)

	GetBusinessBySlug(
		ctx context.Context,
		slug string,
	) (*models.Business, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		businessID uint,
		serviceID uint,
	) (*models.Service, error)

	// ServiceMap loads all of the business's services keyed by ID,
	// including inactive ones, for duration/price lookups.
	ServiceMap(
		ctx context.Context,
		businessID uint,
	) (map[uint]models.Service, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		businessID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	GetClients(
		ctx context.Context,
		businessID uint,
		ids []uint,
	) ([]models.Client, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) error

	// ListAppointments returns the full collection for a business,
	// participants and recurrence included. The resolver needs every
	// row: a series row dated months ago still projects occurrences
	// into any week being viewed.
	ListAppointments(
		ctx context.Context,
		businessID uint,
	) ([]models.Appointment, error)

	HasOverrideForDate(
		ctx context.Context,
		seriesID uint,
		date string,
	) (bool, error)

	// ReplaceParticipants swaps the ordered participant list of an
	// appointment in one transaction.
	ReplaceParticipants(
		ctx context.Context,
		appointmentID uint,
		clients []models.AppointmentClient,
	) error

	// -------- Working hours --------
	GetWorkingHours(
		ctx context.Context,
		userID uint,
		weekday int,
	) (*models.WorkingHours, error)

	// -------- Expenses --------
	ListExpensesForRange(
		ctx context.Context,
		businessID uint,
		from string,
		to string,
	) ([]models.Expense, error)
}
