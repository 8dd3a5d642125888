package model

import (
	"time"

	"gorm.io/gorm"
)

// VisitRequest bir ilan için site ziyareti randevu talebi
type VisitRequest struct {
	gorm.Model
	ListingID     uint       `json:"listing_id" gorm:"index"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	PreferredDate time.Time  `json:"preferred_date"`
	Message       string     `json:"message" gorm:"type:text"`
	Status        string     `json:"status" gorm:"default:'pending'"` // pending, confirmed, completed, cancelled
	ReadStatus    bool       `json:"read_status" gorm:"default:false"`
	ConfirmedAt   *time.Time `json:"confirmed_at"`

	// İlişkiler
	Listing Listing `json:"listing" gorm:"foreignKey:ListingID"`
}
