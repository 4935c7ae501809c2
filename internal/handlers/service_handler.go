package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonspace/booking-api/internal/audit"
	"github.com/salonspace/booking-api/internal/cache"
	domain "github.com/salonspace/booking-api/internal/domain/booking"
	"github.com/salonspace/booking-api/internal/httperr"
	"github.com/salonspace/booking-api/internal/middleware"
	"github.com/salonspace/booking-api/internal/models"
)

type ServiceHandler struct {
	repo  domain.Repository
	cache *cache.ServiceCache
	audit *audit.Dispatcher
}

func NewServiceHandler(repo domain.Repository, serviceCache *cache.ServiceCache, auditDispatcher *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{repo: repo, cache: serviceCache, audit: auditDispatcher}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int    `json:"price" binding:"required"`
	DurationMin int    `json:"duration" binding:"omitempty,min=0"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if services, ok := h.cache.GetList(ctx); ok {
		c.JSON(http.StatusOK, services)
		return
	}

	services, err := h.repo.ListServices(ctx)
	if err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	h.cache.SetList(ctx, services)
	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid service id.")
		return
	}

	service, err := h.repo.GetServiceByID(c.Request.Context(), uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not load service.")
		return
	}

	c.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	service := models.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		DurationMin: req.DurationMin,
	}

	if err := h.repo.CreateService(c.Request.Context(), &service); err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create service.")
		return
	}

	h.cache.Invalidate(c.Request.Context())

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "service_created",
		Entity:   "service",
		EntityID: &service.ID,
	})

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid service id.")
		return
	}

	serviceID := uint(id)
	if err := h.repo.DeleteService(c.Request.Context(), serviceID); err != nil {
		if httperr.IsBusiness(err, "service_not_found") {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
		if httperr.IsBusiness(err, "service_has_appointments") {
			httperr.Conflict(c, "service_has_appointments", "Service still has appointments.")
			return
		}
		httperr.Internal(c, "failed_to_delete_service", "Could not delete service.")
		return
	}

	h.cache.Invalidate(c.Request.Context())

	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "service_deleted",
		Entity:   "service",
		EntityID: &serviceID,
	})

	c.JSON(http.StatusOK, gin.H{"detail": "Service deleted"})
}
