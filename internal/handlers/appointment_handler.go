package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/salonspace/booking-api/internal/domain/booking"
	"github.com/salonspace/booking-api/internal/dto"
	"github.com/salonspace/booking-api/internal/httperr"
	"github.com/salonspace/booking-api/internal/httpresp"
	"github.com/salonspace/booking-api/internal/middleware"
	ucBooking "github.com/salonspace/booking-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	repo domain.Repository

	createUC     *ucBooking.CreateAppointment
	checkUC      *ucBooking.CheckAvailability
	setStatusUC  *ucBooking.SetStatus
	deleteUC     *ucBooking.DeleteAppointment
	topMastersUC *ucBooking.TopMasters
}

func NewAppointmentHandler(
	repo domain.Repository,
	createUC *ucBooking.CreateAppointment,
	checkUC *ucBooking.CheckAvailability,
	setStatusUC *ucBooking.SetStatus,
	deleteUC *ucBooking.DeleteAppointment,
	topMastersUC *ucBooking.TopMasters,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:         repo,
		createUC:     createUC,
		checkUC:      checkUC,
		setStatusUC:  setStatusUC,
		deleteUC:     deleteUC,
		topMastersUC: topMastersUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID       uint      `json:"service_id" binding:"required"`
	AppointmentTime time.Time `json:"appointment_time" binding:"required"`
	ClientName      string    `json:"client_name" binding:"required"`
	ClientPhone     string    `json:"client_phone"`
	Comment         string    `json:"comment"`
	MasterID        *uint     `json:"master_id"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateAppointmentInput{
		UserID:          userID,
		ServiceID:       req.ServiceID,
		AppointmentTime: req.AppointmentTime,
		ClientName:      req.ClientName,
		ClientPhone:     req.ClientPhone,
		Comment:         req.Comment,
		MasterID:        req.MasterID,
	})

	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, gin.H{
				"error_code": "time_conflict",
				"message":    "The requested slot overlaps an existing appointment.",
				"conflicts":  conflict.Conflicts,
			})
			return
		}
		if httperr.IsBusiness(err, "service_not_found") {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
		if httperr.IsBusiness(err, "master_not_found") {
			httperr.BadRequest(c, "master_not_found", "Master not found.")
			return
		}
		httperr.Internal(c, "failed_to_create_appointment", "Could not create appointment.")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LISTS
// ======================================================

func (h *AppointmentHandler) ListOwn(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	aps, err := h.repo.ListAppointmentsByUser(c.Request.Context(), userID, false)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	c.JSON(http.StatusOK, aps)
}

func (h *AppointmentHandler) History(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	aps, err := h.repo.ListAppointmentsByUser(c.Request.Context(), userID, true)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	out := make([]dto.AppointmentHistoryDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, dto.AppointmentHistoryFromModel(ap))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AppointmentHandler) ListByMaster(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	actorRole := c.MustGet(middleware.ContextUserRole).(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid master id.")
		return
	}
	masterID := uint(id)

	if actorRole != string(domain.RoleAdmin) && actorID != masterID {
		httperr.Forbidden(c, "forbidden", "Not allowed to view this master's appointments.")
		return
	}

	aps, err := h.repo.ListAppointmentsByMaster(c.Request.Context(), masterID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	c.JSON(http.StatusOK, aps)
}

func (h *AppointmentHandler) ListAll(c *gin.Context) {
	aps, err := h.repo.ListAllAppointments(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	httpresp.List(c, aps)
}

// ======================================================
// STATUS / DELETE
// ======================================================

func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	actorRole := c.MustGet(middleware.ContextUserRole).(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.setStatusUC.Execute(c.Request.Context(), actorID, actorRole, uint(id), req.Status)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "invalid_status"):
			httperr.BadRequest(c, "invalid_status", "Status must be completed or not_completed.")
		case httperr.IsBusiness(err, "appointment_not_found"):
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		case httperr.IsBusiness(err, "forbidden"):
			httperr.Forbidden(c, "forbidden", "Only the assigned master or an admin can change status.")
		default:
			httperr.Internal(c, "failed_to_update_status", "Could not update status.")
		}
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	actorRole := c.MustGet(middleware.ContextUserRole).(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), actorID, actorRole, uint(id)); err != nil {
		switch {
		case httperr.IsBusiness(err, "appointment_not_found"):
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		case httperr.IsBusiness(err, "forbidden"):
			httperr.Forbidden(c, "forbidden", "Only the owning client or an admin can delete.")
		default:
			httperr.Internal(c, "failed_to_delete_appointment", "Could not delete appointment.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Appointment deleted"})
}

// ======================================================
// AVAILABILITY / AGGREGATION
// ======================================================

func (h *AppointmentHandler) Check(c *gin.Context) {
	serviceIDStr := c.Query("service_id")
	timeStr := c.Query("appointment_time")

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	at, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_time", "appointment_time must be ISO-8601.")
		return
	}

	available, err := h.checkUC.Execute(c.Request.Context(), uint(serviceID), at)
	if err != nil {
		if httperr.IsBusiness(err, "service_not_found") {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
		httperr.Internal(c, "failed_to_check_availability", "Could not check availability.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *AppointmentHandler) TopMasters(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	result, err := h.topMastersUC.Execute(c.Request.Context(), year)
	if err != nil {
		httperr.Internal(c, "failed_to_aggregate", "Could not compute top masters.")
		return
	}

	c.JSON(http.StatusOK, result)
}
