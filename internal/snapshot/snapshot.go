package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/infra/objectstore"
	"github.com/ateliersoft/studio-scheduler/internal/models"
)

// Repository is the slice of persistence the snapshot service needs.
type Repository interface {
	DumpBusiness(ctx context.Context, businessID uint) (*Dump, error)
	SaveSnapshot(ctx context.Context, s *models.Snapshot) error
	ListSnapshots(ctx context.Context, businessID uint) ([]models.Snapshot, error)
	GetSnapshot(ctx context.Context, businessID uint, key string) (*models.Snapshot, error)
}

// Dump is the full business dataset as stored in the snapshot object.
type Dump struct {
	TakenAt      time.Time            `json:"taken_at"`
	Business     models.Business      `json:"business"`
	Services     []models.Service     `json:"services"`
	Clients      []models.Client      `json:"clients"`
	Appointments []models.Appointment `json:"appointments"`
	Expenses     []models.Expense     `json:"expenses"`
}

type Service struct {
	repo  Repository
	store *objectstore.Store
}

func NewService(repo Repository, store *objectstore.Store) *Service {
	return &Service{
		repo:  repo,
		store: store,
	}
}

// Create serializes the business dataset to object storage and records
// a metadata row. The row is what the UI lists; the object holds the
// data.
func (s *Service) Create(
	ctx context.Context,
	businessID uint,
	label string,
) (*models.Snapshot, error) {

	dump, err := s.repo.DumpBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	dump.TakenAt = time.Now().UTC()

	payload, err := json.Marshal(dump)
	if err != nil {
		return nil, err
	}

	key := uuid.NewString()
	objectKey := fmt.Sprintf("snapshots/%d/%s.json", businessID, key)
	if err := s.store.Put(ctx, objectKey, "application/json", payload); err != nil {
		return nil, err
	}

	row := &models.Snapshot{
		BusinessID:       businessID,
		Key:              key,
		ObjectKey:        objectKey,
		Label:            label,
		AppointmentCount: len(dump.Appointments),
		ClientCount:      len(dump.Clients),
	}
	if err := s.repo.SaveSnapshot(ctx, row); err != nil {
		return nil, err
	}

	return row, nil
}

func (s *Service) List(
	ctx context.Context,
	businessID uint,
) ([]models.Snapshot, error) {
	return s.repo.ListSnapshots(ctx, businessID)
}

// Download fetches the raw snapshot object for the given key.
func (s *Service) Download(
	ctx context.Context,
	businessID uint,
	key string,
) ([]byte, error) {

	row, err := s.repo.GetSnapshot(ctx, businessID, key)
	if err != nil {
		return nil, httperr.ErrBusiness("snapshot_not_found")
	}
	return s.store.Get(ctx, row.ObjectKey)
}
