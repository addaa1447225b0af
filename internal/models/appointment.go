package models

import "time"

// Recurrence is embedded on series appointments. An empty Frequency
// means the appointment does not repeat.
type Recurrence struct {
	Frequency string `gorm:"size:10" json:"frequency,omitempty"` // weekly | monthly
	Interval  int    `json:"interval,omitempty"`                 // repeat every N weeks/months
	// Weekday indices 0=Sunday..6=Saturday, weekly only. Empty means
	// "same weekday as the base date" (legacy single-day mode).
	DaysOfWeek []int `gorm:"serializer:json" json:"days_of_week,omitempty"`
	// Inclusive end date (YYYY-MM-DD). Empty means unbounded.
	EndDate string `gorm:"size:10" json:"end_date,omitempty"`
}

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID uint     `json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// Kind distinguishes plain appointments, recurring series and
	// per-date overrides of a series occurrence.
	Kind string `gorm:"size:20;default:'standalone'" json:"kind"`

	ServiceID *uint    `json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	// Blocked time has no service and never participates in revenue.
	Blocked bool `gorm:"default:false" json:"blocked"`

	// Calendar date and wall-clock time as entered, no timezone.
	Date string `gorm:"size:10;index" json:"date"` // YYYY-MM-DD
	Time string `gorm:"size:5" json:"time"`        // HH:MM, zero-padded

	Status string `gorm:"size:20;default:'confirmed'" json:"status"`

	// Ordered participants; position 0 is the primary client.
	Clients []AppointmentClient `gorm:"constraint:OnDelete:CASCADE;" json:"clients"`

	NumberOfPeople *int     `json:"number_of_people,omitempty"`
	OverridePrice  *float64 `json:"override_price,omitempty"`

	Recurrence Recurrence `gorm:"embedded;embeddedPrefix:recur_" json:"recurrence"`

	// Set on kind=override rows: which series row is overridden and on
	// which occurrence date the override applies.
	SeriesID       *uint  `gorm:"index" json:"series_id,omitempty"`
	OccurrenceDate string `gorm:"size:10" json:"occurrence_date,omitempty"`

	Notes       string     `gorm:"size:255" json:"notes"`
	Reference   string     `gorm:"size:40" json:"reference"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AppointmentClient struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index" json:"appointment_id"`
	ClientID      uint `json:"client_id"`
	Position      int  `json:"position"`

	// Denormalized for display and for series-key matching of legacy
	// override rows.
	Name string `gorm:"size:100" json:"name"`
}

func (a *Appointment) IsRecurring() bool {
	return a.Kind == "series" && a.Recurrence.Frequency != ""
}

func (a *Appointment) PrimaryClientName() string {
	if len(a.Clients) == 0 {
		return ""
	}
	return a.Clients[0].Name
}

func (a *Appointment) ClientNames() []string {
	names := make([]string, 0, len(a.Clients))
	for _, c := range a.Clients {
		names = append(names, c.Name)
	}
	return names
}

func (a *Appointment) ClientIDs() []uint {
	ids := make([]uint, 0, len(a.Clients))
	for _, c := range a.Clients {
		ids = append(ids, c.ClientID)
	}
	return ids
}
