package schedule

import (
	"context"

	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
)

// maxRangeDays bounds week/month style queries; anything larger is a
// report, not a calendar view.
const maxRangeDays = 62

type DaySchedule struct {
	Date    string            `json:"date"`
	Entries []domain.Resolved `json:"entries"`
}

type ListScheduleForRange struct {
	repo domain.Repository
}

func NewListScheduleForRange(repo domain.Repository) *ListScheduleForRange {
	return &ListScheduleForRange{repo: repo}
}

func (uc *ListScheduleForRange) Execute(
	ctx context.Context,
	businessID uint,
	from string,
	to string,
	statusFilter []domain.Status,
) ([]DaySchedule, error) {

	start, ok := domain.ParseDate(from)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	end, ok := domain.ParseDate(to)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if end.Before(start) {
		return nil, httperr.ErrBusiness("invalid_range")
	}

	// One load serves the whole range; the resolver is pure and cheap
	// compared to a query per day.
	all, err := uc.repo.ListAppointments(ctx, businessID)
	if err != nil {
		return nil, err
	}
	services, err := uc.repo.ServiceMap(ctx, businessID)
	if err != nil {
		return nil, err
	}

	out := make([]DaySchedule, 0)
	for cur, days := start, 0; !cur.After(end); cur, days = cur.AddDate(0, 0, 1), days+1 {
		if days >= maxRangeDays {
			return nil, httperr.ErrBusiness("range_too_large")
		}

		date := domain.FormatDate(cur)
		out = append(out, DaySchedule{
			Date:    date,
			Entries: domain.ResolveForDate(all, services, date, statusFilter),
		})
	}

	return out, nil
}
