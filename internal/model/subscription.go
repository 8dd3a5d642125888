package model

import (
	"time"

	"gorm.io/gorm"
)

// PlanKind plan kataloğundaki iki ürün tipi
type PlanKind string

const (
	PlanKindIndividualListing PlanKind = "individual_listing"
	PlanKindDeveloperCredits  PlanKind = "developer_credits"
)

// Plan satın alınabilir ürün: individual tek-ilan aboneliği
// veya developer kredi paketi
type Plan struct {
	gorm.Model
	Name            string   `json:"name" gorm:"not null"`
	Description     string   `json:"description"`
	Kind            PlanKind `json:"kind" gorm:"not null"`
	Price           float64  `json:"price" gorm:"not null"`
	Currency        string   `json:"currency" gorm:"not null;default:'INR'"`
	DurationMonths  int      `json:"duration_months"`
	ListingsAllowed int      `json:"listings_allowed"` // individual planlarda 1
	CreditsGranted  int      `json:"credits_granted"`  // kredi paketlerinde > 0
	StripeProductID string   `json:"stripe_product_id"`
	StripePriceID   string   `json:"stripe_price_id"`

	// İlişkiler
	UserSubscriptions []UserSubscription `json:"-"`
}

// UserSubscription bir satın alma kaydı
type UserSubscription struct {
	gorm.Model
	UserID          uint      `json:"user_id" gorm:"index"`
	PlanID          uint      `json:"plan_id"`
	Status          string    `json:"status" gorm:"default:'active'"` // active, expired, cancelled
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	StripeSessionID string    `json:"stripe_session_id"`
	StripePaymentID string    `json:"stripe_payment_id"`
	ExpiresAt       time.Time `json:"expires_at"`
	ListingsAllowed int       `json:"listings_allowed" gorm:"default:1"`
	ListingsUsed    int       `json:"listings_used" gorm:"default:0"`

	// İlişkiler
	User User `json:"-" gorm:"foreignKey:UserID"`
	Plan Plan `json:"plan" gorm:"foreignKey:PlanID"`
}

// SubscriptionUsage ilan gönderimi sırasında yazılan kullanım kaydı.
// Otoriter "used" sinyali Gate Check'in saydığı ilan sayısıdır; buradaki
// unique index aynı aboneliğin iki kez tüketilmesini veritabanı
// seviyesinde imkansız kılar (eşzamanlı iki gönderimden biri rollback olur).
type SubscriptionUsage struct {
	gorm.Model
	SubscriptionID uint `json:"subscription_id" gorm:"uniqueIndex"`
	ListingID      uint `json:"listing_id" gorm:"index"`

	Subscription UserSubscription `json:"-" gorm:"foreignKey:SubscriptionID"`
	Listing      Listing          `json:"-" gorm:"foreignKey:ListingID"`
}
