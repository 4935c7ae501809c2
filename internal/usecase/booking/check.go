package booking

import (
	"context"
	"time"

	domain "github.com/salonspace/booking-api/internal/domain/booking"
	"github.com/salonspace/booking-api/internal/httperr"
)

type CheckAvailability struct {
	repo domain.Repository
}

func NewCheckAvailability(repo domain.Repository) *CheckAvailability {
	return &CheckAvailability{repo: repo}
}

// Execute reports whether the slot [at, at+duration) is free for the
// service. Duration-aware: the probe occupies the full service
// duration, the same interval a real booking would take.
func (uc *CheckAvailability) Execute(
	ctx context.Context,
	serviceID uint,
	at time.Time,
) (bool, error) {

	service, err := uc.repo.GetServiceByID(ctx, serviceID)
	if err != nil {
		return false, httperr.ErrBusiness("service_not_found")
	}

	conflicts, err := uc.repo.FindConflicts(ctx, serviceID, at, service.DurationMin)
	if err != nil {
		return false, err
	}

	return len(conflicts) == 0, nil
}
