package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/salonspace/booking-api/internal/domain/booking"
	"github.com/salonspace/booking-api/internal/httperr"
	"github.com/salonspace/booking-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// User
// --------------------------------------------------

func (r *BookingGormRepository) CreateUser(
	ctx context.Context,
	user *models.User,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// The very first account becomes the admin, whatever role
		// was asked for. Counted inside the transaction so two
		// racing first registrations cannot both win.
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			user.Role = string(domain.RoleAdmin)
		}

		return tx.Create(user).Error
	})

	if httperr.IsDuplicateKey(err) {
		return httperr.ErrBusiness("duplicate_identity")
	}
	return err
}

func (r *BookingGormRepository) GetUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *BookingGormRepository) GetUserByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *BookingGormRepository) ListUsers(
	ctx context.Context,
) ([]models.User, error) {

	var users []models.User
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *BookingGormRepository) UpdateUser(
	ctx context.Context,
	user *models.User,
) error {

	err := r.db.WithContext(ctx).Save(user).Error
	if httperr.IsDuplicateKey(err) {
		return httperr.ErrBusiness("duplicate_identity")
	}
	return err
}

func (r *BookingGormRepository) DeleteUser(
	ctx context.Context,
	id uint,
) error {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return httperr.ErrBusiness("user_not_found")
		}
		return err
	}

	// Restrict-delete: a user still referenced by appointments
	// (as client or master) cannot be removed.
	var refs int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("user_id = ? OR master_id = ?", id, id).
		Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return httperr.ErrBusiness("user_has_appointments")
	}

	return r.db.WithContext(ctx).Delete(&user).Error
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) CreateService(
	ctx context.Context,
	service *models.Service,
) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *BookingGormRepository) GetServiceByID(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *BookingGormRepository) ListServices(
	ctx context.Context,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *BookingGormRepository) DeleteService(
	ctx context.Context,
	id uint,
) error {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return httperr.ErrBusiness("service_not_found")
		}
		return err
	}

	var refs int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("service_id = ?", id).
		Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return httperr.ErrBusiness("service_has_appointments")
	}

	return r.db.WithContext(ctx).Delete(&service).Error
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

// conflictScope narrows an appointment query to the rows whose
// occupied interval overlaps [start, start+duration) for the given
// service. Every appointment of one service shares the same duration,
// so the half-open overlap test reduces to a strict window on the
// start column: start-d < appointment_time < start+d. A zero duration
// degenerates to a same-instant match.
func conflictScope(q *gorm.DB, serviceID uint, start time.Time, durationMin int) *gorm.DB {
	q = q.Where("service_id = ?", serviceID)
	if durationMin <= 0 {
		return q.Where("appointment_time = ?", start)
	}
	d := time.Duration(durationMin) * time.Minute
	return q.Where(
		"appointment_time > ? AND appointment_time < ?",
		start.Add(-d), start.Add(d),
	)
}

func (r *BookingGormRepository) FindConflicts(
	ctx context.Context,
	serviceID uint,
	start time.Time,
	durationMin int,
) ([]models.Appointment, error) {

	var conflicts []models.Appointment
	q := conflictScope(r.db.WithContext(ctx), serviceID, start, durationMin)
	if err := q.Order("appointment_time ASC").Find(&conflicts).Error; err != nil {
		return nil, err
	}
	return conflicts, nil
}

func (r *BookingGormRepository) CreateAppointmentIfFree(
	ctx context.Context,
	ap *models.Appointment,
	durationMin int,
) ([]models.Appointment, error) {

	var conflicts []models.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		scan := conflictScope(tx, ap.ServiceID, ap.AppointmentTime, durationMin)
		if tx.Dialector.Name() == "postgres" {
			scan = scan.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := scan.Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		return tx.Create(ap).Error
	})

	if httperr.IsBusiness(err, "time_conflict") {
		return conflicts, err
	}
	if err != nil {
		return nil, err
	}
	return nil, nil
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *BookingGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *BookingGormRepository) ListAppointmentsByUser(
	ctx context.Context,
	userID uint,
	withService bool,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if withService {
		q = q.Preload("Service")
	}

	var aps []models.Appointment
	if err := q.Order("appointment_time ASC").Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *BookingGormRepository) ListAppointmentsByMaster(
	ctx context.Context,
	masterID uint,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("master_id = ?", masterID).
		Order("appointment_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *BookingGormRepository) ListAllAppointments(
	ctx context.Context,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Order("appointment_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// Appointment (mutate)
// --------------------------------------------------

func (r *BookingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *BookingGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("appointment_not_found")
	}
	return nil
}

// --------------------------------------------------
// Aggregation
// --------------------------------------------------

func (r *BookingGormRepository) ListCompletedByYear(
	ctx context.Context,
	year int,
) ([]models.Appointment, error) {

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Master").
		Where(
			"status = ? AND appointment_time >= ? AND appointment_time < ?",
			string(domain.StatusCompleted), start, end,
		).
		Order("appointment_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
