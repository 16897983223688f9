package models

import "time"

// Cliente sem login, identificado pelo telefone dentro da empresa
type Client struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CompanyID uint `gorm:"uniqueIndex:idx_client_company_phone;not null" json:"company_id"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Phone  string `gorm:"size:20;uniqueIndex:idx_client_company_phone" json:"phone"`
	Social string `gorm:"size:100" json:"social"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
