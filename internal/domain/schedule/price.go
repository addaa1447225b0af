package schedule

import "github.com/ateliersoft/studio-scheduler/internal/models"

// ResolvePrice computes the charge for one occurrence. A manual
// override price always wins; per-person services multiply by the
// headcount, falling back to the participant count, then 1.
func ResolvePrice(ap *models.Appointment, svc *models.Service) float64 {
	if ap.OverridePrice != nil {
		return *ap.OverridePrice
	}

	if svc == nil || ap.Blocked {
		return 0
	}

	if svc.PricePerPerson {
		heads := 1
		if ap.NumberOfPeople != nil && *ap.NumberOfPeople > 0 {
			heads = *ap.NumberOfPeople
		} else if n := len(ap.Clients); n > 0 {
			heads = n
		}
		return svc.Price * float64(heads)
	}

	return svc.Price
}
