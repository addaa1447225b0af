package schedule

import (
	"context"
	"fmt"
	"time"

	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
)

type ListScheduleForMonth struct {
	listRange *ListScheduleForRange
}

func NewListScheduleForMonth(listRange *ListScheduleForRange) *ListScheduleForMonth {
	return &ListScheduleForMonth{listRange: listRange}
}

func (uc *ListScheduleForMonth) Execute(
	ctx context.Context,
	businessID uint,
	year int,
	month int,
	statusFilter []domain.Status,
) ([]DaySchedule, error) {

	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	first := time.Date(year, time.Month(month), 1, 12, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)

	return uc.listRange.Execute(
		ctx,
		businessID,
		fmt.Sprintf("%04d-%02d-01", year, month),
		domain.FormatDate(last),
		statusFilter,
	)
}
