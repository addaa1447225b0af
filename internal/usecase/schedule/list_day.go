package schedule

import (
	"context"
	"strings"

	"github.com/ateliersoft/studio-scheduler/internal/cache"
	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
)

type ListScheduleForDate struct {
	repo  domain.Repository
	cache *cache.ScheduleCache
}

func NewListScheduleForDate(
	repo domain.Repository,
	cache *cache.ScheduleCache,
) *ListScheduleForDate {
	return &ListScheduleForDate{
		repo:  repo,
		cache: cache,
	}
}

func (uc *ListScheduleForDate) Execute(
	ctx context.Context,
	businessID uint,
	date string,
	statusFilter []domain.Status,
) ([]domain.Resolved, error) {

	if _, ok := domain.ParseDate(date); !ok {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	tag := filterTag(statusFilter)

	if uc.cache != nil {
		if entries, ok := uc.cache.Get(ctx, businessID, date, tag); ok {
			return entries, nil
		}
	}

	all, err := uc.repo.ListAppointments(ctx, businessID)
	if err != nil {
		return nil, err
	}
	services, err := uc.repo.ServiceMap(ctx, businessID)
	if err != nil {
		return nil, err
	}

	entries := domain.ResolveForDate(all, services, date, statusFilter)

	if uc.cache != nil {
		uc.cache.Set(ctx, businessID, date, tag, entries)
	}

	return entries, nil
}

func filterTag(statusFilter []domain.Status) string {
	if len(statusFilter) == 0 {
		return "all"
	}
	parts := make([]string, 0, len(statusFilter))
	for _, s := range statusFilter {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ",")
}
