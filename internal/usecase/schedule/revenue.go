package schedule

import (
	"context"
	"sort"

	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
)

// maxReportDays bounds report ranges to roughly a year.
const maxReportDays = 366

type ServiceRevenue struct {
	ServiceID   uint    `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Count       int     `json:"count"`
	Revenue     float64 `json:"revenue"`
}

type RevenueReport struct {
	From string `json:"from"`
	To   string `json:"to"`

	CompletedCount int     `json:"completed_count"`
	Revenue        float64 `json:"revenue"`
	Expenses       float64 `json:"expenses"`
	Net            float64 `json:"net"`

	ByService []ServiceRevenue `json:"by_service"`
}

type GetRevenueReport struct {
	repo domain.Repository
}

func NewGetRevenueReport(repo domain.Repository) *GetRevenueReport {
	return &GetRevenueReport{repo: repo}
}

func (uc *GetRevenueReport) Execute(
	ctx context.Context,
	businessID uint,
	from string,
	to string,
) (*RevenueReport, error) {

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

	all, err := uc.repo.ListAppointments(ctx, businessID)
	if err != nil {
		return nil, err
	}
	services, err := uc.repo.ServiceMap(ctx, businessID)
	if err != nil {
		return nil, err
	}

	report := &RevenueReport{From: from, To: to}
	perService := map[uint]*ServiceRevenue{}

	// Only completed occurrences earn revenue. The resolver applies the
	// same suppression rules the calendar uses, so a completed override
	// counts once and its series occurrence not at all.
	for cur, days := start, 0; !cur.After(end); cur, days = cur.AddDate(0, 0, 1), days+1 {
		if days >= maxReportDays {
			return nil, httperr.ErrBusiness("range_too_large")
		}

		day := domain.ResolveForDate(all, services, domain.FormatDate(cur), []domain.Status{
			domain.StatusCompleted,
		})
		for _, entry := range day {
			report.CompletedCount++
			report.Revenue += entry.Price

			if entry.Appointment.ServiceID == nil {
				continue
			}
			id := *entry.Appointment.ServiceID
			row, ok := perService[id]
			if !ok {
				row = &ServiceRevenue{ServiceID: id}
				if svc, found := services[id]; found {
					row.ServiceName = svc.Name
				}
				perService[id] = row
			}
			row.Count++
			row.Revenue += entry.Price
		}
	}

	expenses, err := uc.repo.ListExpensesForRange(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		report.Expenses += e.Amount
	}
	report.Net = report.Revenue - report.Expenses

	report.ByService = make([]ServiceRevenue, 0, len(perService))
	for _, row := range perService {
		report.ByService = append(report.ByService, *row)
	}
	sort.Slice(report.ByService, func(i, j int) bool {
		if report.ByService[i].Revenue != report.ByService[j].Revenue {
			return report.ByService[i].Revenue > report.ByService[j].Revenue
		}
		return report.ByService[i].ServiceID < report.ByService[j].ServiceID
	})

	return report, nil
}
