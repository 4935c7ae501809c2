package booking

import (
	"context"

	"github.com/salonspace/booking-api/internal/audit"
	domain "github.com/salonspace/booking-api/internal/domain/booking"
	"github.com/salonspace/booking-api/internal/httperr"
	"github.com/salonspace/booking-api/internal/models"
)

type SetStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSetStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SetStatus {
	return &SetStatus{
		repo:  repo,
		audit: audit,
	}
}

// Execute updates an appointment's completion status. Only the
// assigned master or an admin may do this.
func (uc *SetStatus) Execute(
	ctx context.Context,
	actorID uint,
	actorRole string,
	appointmentID uint,
	rawStatus string,
) (*models.Appointment, error) {

	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	isAdmin := actorRole == string(domain.RoleAdmin)
	isAssignedMaster := ap.MasterID != nil && *ap.MasterID == actorID
	if !isAdmin && !isAssignedMaster {
		return nil, httperr.ErrBusiness("forbidden")
	}

	ap.Status = string(status)
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"status": ap.Status},
	})

	return ap, nil
}
