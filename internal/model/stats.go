package model

import (
	"time"

	"gorm.io/gorm"
)

// ListingView tekil görüntülenme kaydı
type ListingView struct {
	gorm.Model
	ListingID uint      `json:"listing_id" gorm:"index"`
	UserID    *uint     `json:"user_id" gorm:"index"` // giriş yapmış kullanıcı için (opsiyonel)
	IP        string    `json:"ip" gorm:"index"`
	SessionID string    `json:"session_id" gorm:"index"`
	UserAgent string    `json:"user_agent"`
	ViewedAt  time.Time `json:"viewed_at" gorm:"index"`
	IsUnique  bool      `json:"is_unique" gorm:"default:true"`

	// İlişkiler
	Listing Listing `json:"-" gorm:"foreignKey:ListingID"`
	User    *User   `json:"-" gorm:"foreignKey:UserID"`
}

// ListingStats genel istatistikler; günlük sayaçlar Redis'ten
// cron ile bu tabloya aktarılır
type ListingStats struct {
	gorm.Model
	ListingID    uint      `json:"listing_id" gorm:"uniqueIndex"`
	TotalViews   int64     `json:"total_views"`
	UniqueViews  int64     `json:"unique_views"`
	DailyViews   int64     `json:"daily_views"`
	WeeklyViews  int64     `json:"weekly_views"`
	MonthlyViews int64     `json:"monthly_views"`
	LastUpdated  time.Time `json:"last_updated"`

	// İlişkiler
	Listing Listing `json:"-" gorm:"foreignKey:ListingID"`
}

// BeforeCreate son 24 saat içinde aynı IP'den görüntüleme varsa
// kaydı tekil saymaz
func (lv *ListingView) BeforeCreate(tx *gorm.DB) error {
	var count int64
	tx.Model(&ListingView{}).
		Where("listing_id = ? AND ip = ? AND viewed_at > ?",
			lv.ListingID,
			lv.IP,
			time.Now().Add(-24*time.Hour)).
		Count(&count)

	if count > 0 {
		lv.IsUnique = false
	}

	return nil
}
