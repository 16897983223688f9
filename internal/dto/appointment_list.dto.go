package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type AppointmentListDTO struct {
	ID             uint            `json:"id"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	EndsAt         string          `json:"ends_at"`
	Status         string          `json:"status"`
	Origin         string          `json:"origin"`
	BarberID       uint            `json:"barber_id"`
	BarberName     string          `json:"barber_name"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone"`
	CustomerSocial string          `json:"customer_social,omitempty"`
	Services       []string        `json:"services"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	TotalMinutes   int             `json:"total_minutes"`
	ReminderSentAt *time.Time      `json:"reminder_sent_at,omitempty"`
}

func FromAppointment(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:             ap.ID,
		Date:           ap.Date,
		Time:           ap.Time,
		EndsAt:         ap.EndsAt,
		Status:         ap.Status,
		Origin:         ap.Origin,
		BarberID:       ap.BarberID,
		BarberName:     ap.Barber.Name,
		CustomerName:   ap.CustomerName,
		CustomerPhone:  ap.CustomerPhone,
		CustomerSocial: ap.CustomerSocial,
		Services:       ap.ServiceKeys(),
		TotalPrice:     ap.TotalPrice,
		TotalMinutes:   ap.TotalMinutes,
		ReminderSentAt: ap.ReminderSentAt,
	}
}

func FromAppointments(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, FromAppointment(ap))
	}
	return out
}
