package booking

import (
	"context"
	"time"

	"github.com/salonspace/booking-api/internal/audit"
	domain "github.com/salonspace/booking-api/internal/domain/booking"
	"github.com/salonspace/booking-api/internal/httperr"
	"github.com/salonspace/booking-api/internal/metrics"
	"github.com/salonspace/booking-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	UserID    uint
	ServiceID uint

	AppointmentTime time.Time

	ClientName  string
	ClientPhone string
	Comment     string

	MasterID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	service, err := uc.repo.GetServiceByID(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	if in.MasterID != nil {
		master, err := uc.repo.GetUserByID(ctx, *in.MasterID)
		if err != nil || master.Role != string(domain.RoleMaster) {
			return nil, httperr.ErrBusiness("master_not_found")
		}
	}

	ap := &models.Appointment{
		UserID:          in.UserID,
		MasterID:        in.MasterID,
		ServiceID:       in.ServiceID,
		AppointmentTime: in.AppointmentTime,
		ClientName:      in.ClientName,
		ClientPhone:     in.ClientPhone,
		Comment:         in.Comment,
		Status:          string(domain.InitialStatus()),
	}

	// The lock serializes racing bookings for one service; the
	// repository re-checks inside its own transaction.
	mu := domain.LockService(in.ServiceID)
	defer mu.Unlock()

	conflicts, err := uc.repo.CreateAppointmentIfFree(ctx, ap, service.DurationMin)
	if httperr.IsBusiness(err, "time_conflict") {
		metrics.IncBookingConflict()

		uc.audit.Dispatch(audit.Event{
			UserID:   &in.UserID,
			Action:   "appointment_conflict",
			Entity:   "appointment",
			Metadata: map[string]any{"service_id": in.ServiceID, "time": in.AppointmentTime},
		})

		occupied := make([]domain.Interval, 0, len(conflicts))
		for _, c := range conflicts {
			occupied = append(occupied, domain.IntervalFrom(c.AppointmentTime, service.DurationMin))
		}
		return nil, &domain.ConflictError{Conflicts: occupied}
	}
	if err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
