package schedule

import (
	"context"
	"fmt"

	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
)

// slotStepMin is the granularity of offered start times. Services
// longer than one step still occupy every step they overlap.
const slotStepMin = 30

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	parsed, ok := domain.ParseDate(in.Date)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	svc, err := uc.repo.GetService(ctx, in.BusinessID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	duration := domain.DefaultDurationMin
	if svc.DurationMin > 0 {
		duration = svc.DurationMin
	}

	wh, err := uc.repo.GetWorkingHours(ctx, in.UserID, int(parsed.Weekday()))
	if err != nil || wh == nil || !wh.Active {
		return []domain.TimeSlot{}, nil
	}
	workStart, ok1 := parseClock(wh.StartTime)
	workEnd, ok2 := parseClock(wh.EndTime)
	if !ok1 || !ok2 || workEnd <= workStart {
		return []domain.TimeSlot{}, nil
	}

	busy, err := uc.busyIntervals(ctx, in.BusinessID, in.Date)
	if err != nil {
		return nil, err
	}
	if wh.BreakStart != "" && wh.BreakEnd != "" {
		bs, ok1 := parseClock(wh.BreakStart)
		be, ok2 := parseClock(wh.BreakEnd)
		if ok1 && ok2 && be > bs {
			busy = append(busy, interval{bs, be})
		}
	}

	slots := make([]domain.TimeSlot, 0)
	for start := workStart; start+duration <= workEnd; start += slotStepMin {
		end := start + duration
		if overlapsAny(busy, start, end) {
			continue
		}
		slots = append(slots, domain.TimeSlot{
			Start: formatClock(start),
			End:   formatClock(end),
		})
	}

	return slots, nil
}

type interval struct {
	start int
	end   int
}

// busyIntervals projects the resolved day onto the minute axis. Blocked
// rows count the same as booked ones; cancelled rows never reach here.
func (uc *GetAvailability) busyIntervals(
	ctx context.Context,
	businessID uint,
	date string,
) ([]interval, error) {

	all, err := uc.repo.ListAppointments(ctx, businessID)
	if err != nil {
		return nil, err
	}
	services, err := uc.repo.ServiceMap(ctx, businessID)
	if err != nil {
		return nil, err
	}

	day := domain.ResolveForDate(all, services, date, []domain.Status{
		domain.StatusConfirmed,
		domain.StatusPending,
		domain.StatusBlocked,
	})

	busy := make([]interval, 0, len(day))
	for _, entry := range day {
		start, ok := parseClock(entry.Appointment.Time)
		if !ok {
			continue
		}
		busy = append(busy, interval{start, start + entry.DurationMin})
	}
	return busy, nil
}

func overlapsAny(busy []interval, start, end int) bool {
	for _, b := range busy {
		if start < b.end && end > b.start {
			return true
		}
	}
	return false
}

func formatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
