package models

import "time"

type BusinessHours struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CompanyID uint `gorm:"uniqueIndex:idx_business_hours_day;not null" json:"company_id"`

	// 0 = domingo, como time.Weekday
	Weekday int `gorm:"uniqueIndex:idx_business_hours_day;not null" json:"weekday"`

	OpenTime  string `gorm:"size:5" json:"open_time"`
	CloseTime string `gorm:"size:5" json:"close_time"`
	Closed    bool   `gorm:"default:false" json:"closed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
