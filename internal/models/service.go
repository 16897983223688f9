package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service é referenciado pelos agendamentos apenas pela Key.
type Service struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CompanyID uint `gorm:"uniqueIndex:idx_service_company_key;not null" json:"company_id"`

	Key         string          `gorm:"size:50;uniqueIndex:idx_service_company_key;not null" json:"key"`
	Label       string          `gorm:"size:100;not null" json:"label"`
	Description string          `gorm:"size:255" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	DurationMin int             `gorm:"not null" json:"duration_min"`
	Active      bool            `gorm:"default:true" json:"active"`

	Category string `gorm:"size:50" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
