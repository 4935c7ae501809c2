package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/salonspace/booking-api/internal/audit"
	"github.com/salonspace/booking-api/internal/cache"
	"github.com/salonspace/booking-api/internal/config"
	domain "github.com/salonspace/booking-api/internal/domain/booking"
	"github.com/salonspace/booking-api/internal/handlers"
	infraRepo "github.com/salonspace/booking-api/internal/infra/repository"
	"github.com/salonspace/booking-api/internal/middleware"
	ucBooking "github.com/salonspace/booking-api/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, log zerolog.Logger) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	var repo domain.Repository = infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	serviceCache := cache.NewServiceCache(cache.NewClient(cfg), cfg.CacheTTL)

	// ======================================================
	// USE CASES — BOOKING
	// ======================================================
	createAppointmentUC := ucBooking.NewCreateAppointment(repo, auditDispatcher)
	checkAvailabilityUC := ucBooking.NewCheckAvailability(repo)
	setStatusUC := ucBooking.NewSetStatus(repo, auditDispatcher)
	deleteAppointmentUC := ucBooking.NewDeleteAppointment(repo, auditDispatcher)
	topMastersUC := ucBooking.NewTopMasters(repo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(repo, cfg, auditDispatcher)
	userHandler := handlers.NewUserHandler(repo)
	serviceHandler := handlers.NewServiceHandler(repo, serviceCache, auditDispatcher)

	appointmentHandler := handlers.NewAppointmentHandler(
		repo,
		createAppointmentUC,
		checkAvailabilityUC,
		setStatusUC,
		deleteAppointmentUC,
		topMastersUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// PUBLIC
	// ======================================================
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	r.GET("/services/", serviceHandler.List)
	r.GET("/services/:id", serviceHandler.GetByID)

	r.GET("/appointments/check", appointmentHandler.Check)
	r.GET("/appointments/top-masters/:year", appointmentHandler.TopMasters)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// AUTHENTICATED
	// ======================================================
	secured := r.Group("/")
	secured.Use(middleware.AuthMiddleware(cfg))
	{
		secured.GET("/users/me", userHandler.GetMe)
		secured.PATCH("/users/me", userHandler.UpdateMe)

		secured.POST("/appointments/", appointmentHandler.Create)
		secured.GET("/appointments/", appointmentHandler.ListOwn)
		secured.GET("/appointments/history/", appointmentHandler.History)
		secured.GET("/appointments/master/:id", appointmentHandler.ListByMaster)
		secured.PATCH("/appointments/:id/status", appointmentHandler.SetStatus)
		secured.DELETE("/appointments/:id", appointmentHandler.Delete)
	}

	// ======================================================
	// ADMIN
	// ======================================================
	admin := r.Group("/")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireRoles(string(domain.RoleAdmin)))
	{
		admin.GET("/users/", userHandler.List)
		admin.GET("/users/all", userHandler.List)
		admin.GET("/users/:id", userHandler.GetByID)
		admin.DELETE("/users/:id", userHandler.Delete)

		admin.POST("/services/", serviceHandler.Create)
		admin.DELETE("/services/:id", serviceHandler.Delete)

		admin.GET("/appointments/all", appointmentHandler.ListAll)

		admin.GET("/audit-logs", auditLogsHandler.List)
	}
}
