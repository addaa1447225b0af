package models

import "time"

// Snapshot is a save-point: the full business dataset serialized to
// object storage. Only the metadata row lives in Postgres.
type Snapshot struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	Key       string `gorm:"size:40;uniqueIndex" json:"key"`
	ObjectKey string `gorm:"size:255" json:"object_key"`
	Label     string `gorm:"size:100" json:"label"`

	AppointmentCount int `json:"appointment_count"`
	ClientCount      int `json:"client_count"`

	CreatedAt time.Time `json:"created_at"`
}
