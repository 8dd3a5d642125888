package cron

import (
	"basera_backend/internal/model"
	"basera_backend/pkg/database"
	"basera_backend/pkg/email"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func InitSubscriptionExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		checkExpiringSubscriptions()
		expireSubscriptions()
	})

	if err != nil {
		log.Printf("Could not initialize subscription expiry cron: %v", err)
		return
	}

	c.Start()
}

func checkExpiringSubscriptions() {
	log.Println("Checking for expiring subscriptions...")

	warningDays := []int{7, 3}

	for _, days := range warningDays {
		var subs []model.UserSubscription
		targetDate := time.Now().AddDate(0, 0, days).Format("2006-01-02")

		err := database.DB.Where("DATE(expires_at) = ? AND status = ?", targetDate, "active").
			Preload("User").
			Preload("Plan").
			Find(&subs).Error

		if err != nil {
			log.Printf("Error fetching expiring subscriptions: %v", err)
			continue
		}

		log.Printf("Found %d subscriptions expiring in %d days", len(subs), days)

		for _, sub := range subs {
			if email.GlobalEmailService != nil {
				err = email.GlobalEmailService.SendSubscriptionExpiryWarning(
					sub.User.Email,
					sub.User.Name,
					sub.Plan.Name,
					sub.ExpiresAt,
					days,
				)
				if err != nil {
					log.Printf("Error sending expiry warning to %s: %v", sub.User.Email, err)
				} else {
					log.Printf("Sent expiry warning to %s for subscription expiring in %d days", sub.User.Email, days)
				}
			}
		}
	}
}

// expireSubscriptions süresi dolan abonelikleri kapatır ve kullanıcı
// snapshot alanlarını temizler, Gate Check bir sonraki istekte reddeder
func expireSubscriptions() {
	var subs []model.UserSubscription

	err := database.DB.Where("expires_at < ? AND status = ?", time.Now(), "active").
		Find(&subs).Error
	if err != nil {
		log.Printf("Error fetching expired subscriptions: %v", err)
		return
	}

	for _, sub := range subs {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&model.UserSubscription{}).
				Where("id = ?", sub.ID).
				Update("status", "expired").Error; err != nil {
				return err
			}

			return tx.Model(&model.User{}).
				Where("id = ? AND current_subscription_id = ?", sub.UserID, sub.ID).
				Updates(map[string]interface{}{
					"is_subscribed":           false,
					"subscription_type":       "",
					"subscription_expiry":     nil,
					"current_subscription_id": nil,
				}).Error
		})
		if err != nil {
			log.Printf("Error expiring subscription %d: %v", sub.ID, err)
			continue
		}
		log.Printf("Subscription %d expired for user %d", sub.ID, sub.UserID)
	}
}
