package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CompanyID uint `gorm:"index:idx_appointment_day;not null" json:"company_id"`

	BarberID uint   `gorm:"index:idx_appointment_day;not null" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"barber"`

	ClientID *uint `json:"client_id"`

	CustomerName   string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone  string `gorm:"size:20;not null" json:"customer_phone"`
	CustomerSocial string `gorm:"size:100" json:"customer_social"`

	// Data e horários locais do tenant ("YYYY-MM-DD", "HH:MM")
	Date   string `gorm:"size:10;index:idx_appointment_day;not null" json:"date"`
	Time   string `gorm:"size:5;not null" json:"time"`
	EndsAt string `gorm:"size:5;not null" json:"ends_at"`

	// Instantes absolutos, usados pela constraint de exclusão
	StartAt time.Time `gorm:"not null" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`

	// Lista de chaves de serviço, desnormalizada de propósito
	Services     datatypes.JSON  `json:"services"`
	TotalPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total_price"`
	TotalMinutes int             `gorm:"not null" json:"total_minutes"`

	Status string `gorm:"size:20;default:'scheduled';index" json:"status"`
	Origin string `gorm:"size:20;default:'public'" json:"origin"`
	Notes  string `gorm:"size:255" json:"notes"`

	ReminderSentAt *time.Time `json:"reminder_sent_at"`
	CancelledAt    *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) SetServiceKeys(keys []string) {
	if keys == nil {
		keys = []string{}
	}
	b, _ := json.Marshal(keys)
	a.Services = datatypes.JSON(b)
}

func (a Appointment) ServiceKeys() []string {
	keys := []string{}
	if len(a.Services) == 0 {
		return keys
	}
	_ = json.Unmarshal(a.Services, &keys)
	return keys
}
