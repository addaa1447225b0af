package models

import "time"

type Expense struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `json:"business_id"`

	Date        string  `gorm:"size:10;index" json:"date"` // YYYY-MM-DD
	Category    string  `gorm:"size:50" json:"category"`
	Description string  `gorm:"size:255" json:"description"`
	Amount      float64 `json:"amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
