package models

import "time"

// Company é o tenant. Os horários padrão valem quando não há BusinessHours para o dia.
type Company struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Timezone    string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`
	OpenTime    string `gorm:"size:5;default:'09:00'" json:"open_time"`
	CloseTime   string `gorm:"size:5;default:'20:00'" json:"close_time"`
	SlotMinutes int    `gorm:"default:30" json:"slot_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
