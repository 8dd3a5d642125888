package model

import "gorm.io/gorm"

// Complaint Categories
type ComplaintCategory string

const (
	ComplaintCategoryListing ComplaintCategory = "listing"
	ComplaintCategoryPayment ComplaintCategory = "payment"
	ComplaintCategoryFraud   ComplaintCategory = "fraud"
	ComplaintCategoryOther   ComplaintCategory = "other"
)

type Complaint struct {
	gorm.Model
	UserID      uint              `json:"user_id" gorm:"index"`
	ListingID   *uint             `json:"listing_id" gorm:"index"`
	Category    ComplaintCategory `json:"category" gorm:"not null"`
	Subject     string            `json:"subject" gorm:"not null"`
	Description string            `json:"description" gorm:"type:text"`
	Status      string            `json:"status" gorm:"default:'open'"` // open, in_review, resolved
	Resolution  string            `json:"resolution" gorm:"type:text"`

	// İlişkiler
	User    User     `json:"-" gorm:"foreignKey:UserID"`
	Listing *Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
}
