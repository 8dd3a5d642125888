package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// UserType ilan veren hesap tipi
type UserType string

const (
	UserTypeIndividual UserType = "individual"
	UserTypeDeveloper  UserType = "developer"
)

func (t UserType) Valid() bool {
	return t == UserTypeIndividual || t == UserTypeDeveloper
}

type User struct {
	gorm.Model
	Email    string   `json:"email" gorm:"uniqueIndex;not null"`
	Password string   `json:"-" gorm:"not null"`
	Username string   `json:"username" gorm:"uniqueIndex;not null"`
	Name     string   `json:"name" gorm:"not null"`
	UserType UserType `json:"user_type" gorm:"not null;default:'individual'"`

	// Opsiyonel profil bilgileri (settings'den güncellenecek)
	PhoneNumber    string `json:"phone_number"`
	WhatsAppNumber string `json:"whats_app_number"`
	City           string `json:"city"`
	Avatar         string `json:"avatar"`
	AboutMe        string `json:"about_me" gorm:"type:text"`

	// Individual hesaplar için abonelik anlık görüntüsü.
	// CurrentSubscriptionID son satın alınan UserSubscription kaydını
	// gösterir; kullanım bu id ile etiketlenen ilan sayısından türetilir.
	IsSubscribed          bool       `json:"is_subscribed" gorm:"default:false"`
	SubscriptionType      string     `json:"subscription_type"`
	SubscriptionExpiry    *time.Time `json:"subscription_expiry"`
	CurrentSubscriptionID *uint      `json:"current_subscription_id"`

	// Developer hesaplar için ilan kredisi. NULL = henüz yüklenmedi,
	// gate bu durumda ilerlemeye izin vermez.
	PropertyCredits *int `json:"property_credits"`

	IsVerified bool `json:"is_verified" gorm:"default:false"`

	// İlişkiler
	Listings      []Listing          `json:"-"`
	Subscriptions []UserSubscription `json:"-"`
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":               u.ID,
		"username":         u.Username,
		"name":             u.Name,
		"user_type":        u.UserType,
		"phone_number":     u.PhoneNumber,
		"whats_app_number": u.WhatsAppNumber,
		"city":             u.City,
		"avatar":           u.Avatar,
		"about_me":         u.AboutMe,
		"is_verified":      u.IsVerified,
	}
}

// HasActiveSubscription abonelik anlık görüntüsünün hala geçerli olup
// olmadığını söyler. Expiry boşsa süresiz kabul edilir.
func (u *User) HasActiveSubscription(now time.Time) bool {
	if !u.IsSubscribed || u.CurrentSubscriptionID == nil {
		return false
	}
	if u.SubscriptionExpiry != nil && !u.SubscriptionExpiry.After(now) {
		return false
	}
	return true
}

// NormalizeUsername isimden URL-friendly bir username oluşturur
func NormalizeUsername(name string) string {
	username := strings.ToLower(name)
	username = strings.ReplaceAll(username, " ", "-")
	username = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, username)
	return username
}
