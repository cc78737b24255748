package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

type AppointmentListDTO struct {
	ID              uint                     `json:"id"`
	Date            string                   `json:"date"`
	Time            string                   `json:"time"`
	Status          models.AppointmentStatus `json:"status"`
	StatusChangedAt *time.Time               `json:"status_changed_at"`
	Comment         string                   `json:"comment"`
	ClientID        uint                     `json:"client_id"`
	ClientName      string                   `json:"client_name"`
	ServiceID       uint                     `json:"service_id"`
	ServiceName     string                   `json:"service_name"`
	Price           decimal.Decimal          `json:"price"`
}

func NewAppointmentListDTO(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:              ap.ID,
		Date:            ap.Date,
		Time:            ap.Time,
		Status:          ap.Status,
		StatusChangedAt: ap.StatusChangedAt,
		Comment:         ap.Comment,
		ClientID:        ap.ClientID,
		ClientName:      ap.Client.FullName(),
		ServiceID:       ap.ServiceID,
		ServiceName:     ap.Service.Name,
		Price:           ap.Service.Price,
	}
}

type CalendarEventDTO struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Start  string `json:"start"`
	AllDay bool   `json:"allDay"`
	Color  string `json:"color"`
}

type ServiceStatDTO struct {
	ServiceID uint            `json:"service_id"`
	Name      string          `json:"name"`
	Count     int64           `json:"count"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type ReportDTO struct {
	From      string           `json:"from"`
	To        string           `json:"to"`
	Pending   int64            `json:"pending"`
	Confirmed int64            `json:"confirmed"`
	Completed int64            `json:"completed"`
	Cancelled int64            `json:"cancelled"`
	Total     int64            `json:"total"`
	Services  []ServiceStatDTO `json:"services"`
}
