package booking

import "github.com/salonspace/booking-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusCompleted    Status = "completed"
	StatusNotCompleted Status = "not_completed"
)

func InitialStatus() Status {
	return StatusNotCompleted
}

// ParseStatus validates a status supplied by the API.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusCompleted, StatusNotCompleted:
		return Status(raw), nil
	default:
		return "", httperr.ErrBusiness("invalid_status")
	}
}
