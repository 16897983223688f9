package models

import "time"

// Block com BarberID 0 vale para todos os barbeiros.
type Block struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CompanyID uint `gorm:"uniqueIndex:idx_block_slot;not null" json:"company_id"`

	Date     string `gorm:"size:10;uniqueIndex:idx_block_slot;not null" json:"date"`
	Time     string `gorm:"size:5;uniqueIndex:idx_block_slot;not null" json:"time"`
	BarberID uint   `gorm:"uniqueIndex:idx_block_slot;not null;default:0" json:"barber_id"`

	Reason    string `gorm:"size:255" json:"reason"`
	CreatedBy *uint  `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
}

func (b Block) IsGeneral() bool {
	return b.BarberID == 0
}
