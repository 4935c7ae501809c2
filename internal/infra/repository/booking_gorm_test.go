package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/salonspace/booking-api/internal/db"
	domain "github.com/salonspace/booking-api/internal/domain/booking"
	"github.com/salonspace/booking-api/internal/httperr"
	"github.com/salonspace/booking-api/internal/models"
)

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Single connection keeps the shared-cache sqlite DB alive and
	// serializes concurrent access in tests.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, dbpkg.Migrate(db))
	return db
}

func TestCreateUserFirstIsAdmin(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	first := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: string(domain.RoleMaster)}
	require.NoError(t, repo.CreateUser(ctx, first))
	assert.Equal(t, string(domain.RoleAdmin), first.Role)

	second := &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", Role: string(domain.RoleMaster)}
	require.NoError(t, repo.CreateUser(ctx, second))
	assert.Equal(t, string(domain.RoleMaster), second.Role)

	third := &models.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x", Role: string(domain.RoleClient)}
	require.NoError(t, repo.CreateUser(ctx, third))
	assert.Equal(t, string(domain.RoleClient), third.Role)
}

func TestCreateUserDuplicateIdentity(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &models.User{
		Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: string(domain.RoleClient),
	}))

	err := repo.CreateUser(ctx, &models.User{
		Username: "alice2", Email: "alice@example.com", PasswordHash: "x", Role: string(domain.RoleClient),
	})
	assert.True(t, httperr.IsBusiness(err, "duplicate_identity"))

	// No partial write.
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func seedBookingFixtures(t *testing.T, repo *BookingGormRepository, durationMin int) (*models.User, *models.Service) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Username: "admin", Email: "admin@example.com", PasswordHash: "x", Role: string(domain.RoleClient)}
	require.NoError(t, repo.CreateUser(ctx, user))

	service := &models.Service{Name: "Haircut", Description: "basic", Price: 30, DurationMin: durationMin}
	require.NoError(t, repo.CreateService(ctx, service))

	return user, service
}

func TestCreateAppointmentIfFree(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	user, service := seedBookingFixtures(t, repo, 60)
	start := time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC)

	ap := &models.Appointment{
		UserID: user.ID, ServiceID: service.ID,
		AppointmentTime: start, ClientName: "Ann",
		Status: string(domain.StatusNotCompleted),
	}
	conflicts, err := repo.CreateAppointmentIfFree(ctx, ap, service.DurationMin)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.NotZero(t, ap.ID)

	t.Run("overlapping start rejected", func(t *testing.T) {
		dup := &models.Appointment{
			UserID: user.ID, ServiceID: service.ID,
			AppointmentTime: start.Add(30 * time.Minute), ClientName: "Ben",
			Status: string(domain.StatusNotCompleted),
		}
		conflicts, err := repo.CreateAppointmentIfFree(ctx, dup, service.DurationMin)
		assert.True(t, httperr.IsBusiness(err, "time_conflict"))
		assert.Len(t, conflicts, 1)
	})

	t.Run("back-to-back allowed", func(t *testing.T) {
		next := &models.Appointment{
			UserID: user.ID, ServiceID: service.ID,
			AppointmentTime: start.Add(60 * time.Minute), ClientName: "Cid",
			Status: string(domain.StatusNotCompleted),
		}
		conflicts, err := repo.CreateAppointmentIfFree(ctx, next, service.DurationMin)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("slot just before allowed", func(t *testing.T) {
		prev := &models.Appointment{
			UserID: user.ID, ServiceID: service.ID,
			AppointmentTime: start.Add(-60 * time.Minute), ClientName: "Dee",
			Status: string(domain.StatusNotCompleted),
		}
		conflicts, err := repo.CreateAppointmentIfFree(ctx, prev, service.DurationMin)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})
}

func TestFindConflictsZeroDuration(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	user, service := seedBookingFixtures(t, repo, 0)
	at := time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC)

	ap := &models.Appointment{
		UserID: user.ID, ServiceID: service.ID,
		AppointmentTime: at, ClientName: "Ann",
		Status: string(domain.StatusNotCompleted),
	}
	_, err := repo.CreateAppointmentIfFree(ctx, ap, 0)
	require.NoError(t, err)

	same, err := repo.FindConflicts(ctx, service.ID, at, 0)
	require.NoError(t, err)
	assert.Len(t, same, 1)

	near, err := repo.FindConflicts(ctx, service.ID, at.Add(time.Minute), 0)
	require.NoError(t, err)
	assert.Empty(t, near)
}

func TestDeleteRestrictAndNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	user, service := seedBookingFixtures(t, repo, 30)

	ap := &models.Appointment{
		UserID: user.ID, ServiceID: service.ID,
		AppointmentTime: time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC),
		ClientName:      "Ann",
		Status:          string(domain.StatusNotCompleted),
	}
	_, err := repo.CreateAppointmentIfFree(ctx, ap, service.DurationMin)
	require.NoError(t, err)

	assert.True(t, httperr.IsBusiness(repo.DeleteUser(ctx, user.ID), "user_has_appointments"))
	assert.True(t, httperr.IsBusiness(repo.DeleteService(ctx, service.ID), "service_has_appointments"))

	assert.True(t, httperr.IsBusiness(repo.DeleteUser(ctx, 9999), "user_not_found"))
	assert.True(t, httperr.IsBusiness(repo.DeleteService(ctx, 9999), "service_not_found"))
	assert.True(t, httperr.IsBusiness(repo.DeleteAppointment(ctx, 9999), "appointment_not_found"))

	require.NoError(t, repo.DeleteAppointment(ctx, ap.ID))
	require.NoError(t, repo.DeleteService(ctx, service.ID))
	require.NoError(t, repo.DeleteUser(ctx, user.ID))
}

func TestListCompletedByYear(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	user, service := seedBookingFixtures(t, repo, 30)

	times := []time.Time{
		time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
	}
	for i, at := range times {
		ap := &models.Appointment{
			UserID: user.ID, MasterID: &user.ID, ServiceID: service.ID,
			AppointmentTime: at,
			ClientName:      fmt.Sprintf("client-%d", i),
			Status:          string(domain.StatusCompleted),
		}
		require.NoError(t, db.Create(ap).Error)
	}

	completed, err := repo.ListCompletedByYear(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, completed, 2)
	for _, ap := range completed {
		assert.Equal(t, 2026, ap.AppointmentTime.Year())
		require.NotNil(t, ap.Master)
		assert.Equal(t, user.Username, ap.Master.Username)
	}
}
