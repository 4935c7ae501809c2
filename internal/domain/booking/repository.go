package booking

import (
	"context"
	"time"

	"github.com/salonspace/booking-api/internal/models"
)

type Repository interface {
	// -------- User --------
	CreateUser(
		ctx context.Context,
		user *models.User,
	) error

	GetUserByEmail(
		ctx context.Context,
		email string,
	) (*models.User, error)

	GetUserByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	ListUsers(
		ctx context.Context,
	) ([]models.User, error)

	UpdateUser(
		ctx context.Context,
		user *models.User,
	) error

	DeleteUser(
		ctx context.Context,
		id uint,
	) error

	// -------- Service --------
	CreateService(
		ctx context.Context,
		service *models.Service,
	) error

	GetServiceByID(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	ListServices(
		ctx context.Context,
	) ([]models.Service, error)

	DeleteService(
		ctx context.Context,
		id uint,
	) error

	// -------- Appointment (create / conflict) --------
	CreateAppointmentIfFree(
		ctx context.Context,
		ap *models.Appointment,
		durationMin int,
	) ([]models.Appointment, error)

	FindConflicts(
		ctx context.Context,
		serviceID uint,
		start time.Time,
		durationMin int,
	) ([]models.Appointment, error)

	// -------- Appointment (read) --------
	GetAppointmentByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	ListAppointmentsByUser(
		ctx context.Context,
		userID uint,
		withService bool,
	) ([]models.Appointment, error)

	ListAppointmentsByMaster(
		ctx context.Context,
		masterID uint,
	) ([]models.Appointment, error)

	ListAllAppointments(
		ctx context.Context,
	) ([]models.Appointment, error)

	// -------- Appointment (mutate) --------
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	// -------- Aggregation --------
	ListCompletedByYear(
		ctx context.Context,
		year int,
	) ([]models.Appointment, error)
}
