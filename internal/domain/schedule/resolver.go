package schedule

import (
	"sort"

	"github.com/ateliersoft/studio-scheduler/internal/models"
)

// DefaultDurationMin is used for display when the appointment's
// service no longer exists.
const DefaultDurationMin = 60

// Resolved is one concrete entry of a day's schedule: the stored
// appointment projected onto the date being viewed.
type Resolved struct {
	Appointment models.Appointment `json:"appointment"`

	// Date the entry is displayed on. For virtual occurrences of a
	// series this differs from the stored base date, and the embedded
	// appointment copy carries it as its Date so that "complete this
	// occurrence" actions target the viewed date.
	Date string `json:"date"`

	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`

	// Virtual marks entries projected from a series onto a non-base
	// date. The stored row is never mutated by this read path.
	Virtual bool `json:"virtual"`
}

// SeriesKey associates override rows with the series they override
// when no explicit series link is present (legacy data).
type SeriesKey struct {
	Time       string
	ServiceID  uint
	ClientName string
}

func keyOf(ap *models.Appointment) SeriesKey {
	var sid uint
	if ap.ServiceID != nil {
		sid = *ap.ServiceID
	}
	return SeriesKey{
		Time:       ap.Time,
		ServiceID:  sid,
		ClientName: ap.PrimaryClientName(),
	}
}

// IsOccurrence reports whether the appointment occurs on targetDate
// (YYYY-MM-DD). The stored base date always matches; recurring series
// additionally match the dates their rule generates. Malformed dates
// degrade to exact-date-only behavior rather than failing the render.
func IsOccurrence(ap *models.Appointment, targetDate string) bool {
	if ap.Date == targetDate {
		return true
	}
	if !ap.IsRecurring() {
		return false
	}

	base, ok := ParseDate(ap.Date)
	if !ok {
		return false
	}
	target, ok := ParseDate(targetDate)
	if !ok {
		return false
	}

	// Series has not started yet.
	if target.Before(base) {
		return false
	}

	rule := ap.Recurrence

	// Inclusive end date.
	if rule.EndDate != "" {
		if end, ok := ParseDate(rule.EndDate); ok && target.After(end) {
			return false
		}
	}

	interval := rule.Interval
	if interval <= 0 {
		interval = 1
	}

	switch rule.Frequency {
	case "weekly":
		if len(rule.DaysOfWeek) > 0 {
			if !containsWeekday(rule.DaysOfWeek, int(target.Weekday())) {
				return false
			}
			// Interval counts Sunday-aligned weeks, independent of
			// which weekday the base date fell on.
			weeks := weeksBetween(base, target)
			return weeks >= 0 && weeks%interval == 0
		}
		// Legacy single-day mode: same weekday as base, every
		// interval weeks.
		days := daysBetween(base, target)
		return days > 0 && days%(7*interval) == 0

	case "monthly":
		if target.Day() != base.Day() {
			return false
		}
		months := monthsBetween(base, target)
		return months >= 0 && months%interval == 0

	default:
		// Unknown frequency never matches.
		return false
	}
}

func containsWeekday(days []int, weekday int) bool {
	for _, d := range days {
		if d == weekday {
			return true
		}
	}
	return false
}

// overrideIndex records, per series, the set of occurrence dates that
// have been materialized as standalone override rows.
type overrideIndex struct {
	byID  map[uint]map[string]bool
	byKey map[SeriesKey]map[string]bool
}

// buildOverrideIndex scans the full collection, before any status
// filtering: a completed or cancelled occurrence suppresses the
// series' virtual instance on that date regardless of which statuses
// the caller is viewing.
func buildOverrideIndex(appointments []models.Appointment) overrideIndex {
	idx := overrideIndex{
		byID:  make(map[uint]map[string]bool),
		byKey: make(map[SeriesKey]map[string]bool),
	}

	for i := range appointments {
		ap := &appointments[i]
		if ap.Kind != KindOverride {
			continue
		}

		date := ap.OccurrenceDate
		if date == "" {
			date = ap.Date
		}

		if ap.SeriesID != nil {
			set := idx.byID[*ap.SeriesID]
			if set == nil {
				set = make(map[string]bool)
				idx.byID[*ap.SeriesID] = set
			}
			set[date] = true
		}

		key := keyOf(ap)
		set := idx.byKey[key]
		if set == nil {
			set = make(map[string]bool)
			idx.byKey[key] = set
		}
		set[date] = true
	}

	return idx
}

func (idx overrideIndex) overridden(series *models.Appointment, date string) bool {
	if set, ok := idx.byID[series.ID]; ok && set[date] {
		return true
	}
	if set, ok := idx.byKey[keyOf(series)]; ok && set[date] {
		return true
	}
	return false
}

// ResolveForDate expands the appointment collection into the ordered
// set of entries occurring on targetDate. statusFilter, when non-empty,
// drops appointments before occurrence testing. The input slice is
// read-only; every returned entry is a fresh copy.
func ResolveForDate(
	appointments []models.Appointment,
	services map[uint]models.Service,
	targetDate string,
	statusFilter []Status,
) []Resolved {

	idx := buildOverrideIndex(appointments)

	allowed := func(status string) bool {
		if len(statusFilter) == 0 {
			return true
		}
		for _, s := range statusFilter {
			if string(s) == status {
				return true
			}
		}
		return false
	}

	seen := make(map[uint]bool)
	out := make([]Resolved, 0)

	for i := range appointments {
		ap := &appointments[i]

		if !allowed(ap.Status) {
			continue
		}
		if !IsOccurrence(ap, targetDate) {
			continue
		}

		// An override on this date replaces the series' virtual
		// occurrence; the override row is emitted on its own merits
		// as an exact-date match.
		if ap.IsRecurring() && idx.overridden(ap, targetDate) {
			continue
		}

		// An appointment is never emitted twice for one target date.
		if seen[ap.ID] {
			continue
		}
		seen[ap.ID] = true

		display := *ap
		virtual := ap.Date != targetDate
		if virtual {
			display.Date = targetDate
		}

		out = append(out, Resolved{
			Appointment: display,
			Date:        targetDate,
			DurationMin: durationOf(ap, services),
			Price:       priceOf(ap, services),
			Virtual:     virtual,
		})
	}

	// Zero-padded HH:MM makes the lexicographic compare correct; ID
	// breaks ties so identical inputs yield identical order.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Appointment.Time != out[j].Appointment.Time {
			return out[i].Appointment.Time < out[j].Appointment.Time
		}
		return out[i].Appointment.ID < out[j].Appointment.ID
	})

	return out
}

func durationOf(ap *models.Appointment, services map[uint]models.Service) int {
	if ap.ServiceID != nil {
		if svc, ok := services[*ap.ServiceID]; ok && svc.DurationMin > 0 {
			return svc.DurationMin
		}
	}
	return DefaultDurationMin
}

func priceOf(ap *models.Appointment, services map[uint]models.Service) float64 {
	if ap.ServiceID != nil {
		if svc, ok := services[*ap.ServiceID]; ok {
			return ResolvePrice(ap, &svc)
		}
	}
	return ResolvePrice(ap, nil)
}
