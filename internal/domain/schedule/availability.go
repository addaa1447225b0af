package schedule

type AvailabilityInput struct {
	BusinessID uint
	UserID     uint
	ServiceID  uint
	Date       string // YYYY-MM-DD
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
