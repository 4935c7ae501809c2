package dto

import (
	"time"

	"github.com/salonspace/booking-api/internal/models"
)

type ServiceDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	DurationMin int    `json:"duration"`
}

type AppointmentHistoryDTO struct {
	ID              uint       `json:"id"`
	AppointmentTime time.Time  `json:"appointment_time"`
	Status          string     `json:"status"`
	Service         ServiceDTO `json:"service"`
}

func AppointmentHistoryFromModel(ap models.Appointment) AppointmentHistoryDTO {
	return AppointmentHistoryDTO{
		ID:              ap.ID,
		AppointmentTime: ap.AppointmentTime,
		Status:          ap.Status,
		Service: ServiceDTO{
			ID:          ap.Service.ID,
			Name:        ap.Service.Name,
			Description: ap.Service.Description,
			Price:       ap.Service.Price,
			DurationMin: ap.Service.DurationMin,
		},
	}
}
