package cron

import (
	"basera_backend/internal/model"
	"basera_backend/pkg/database"
	"basera_backend/pkg/email"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

func InitListingExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("30 9 * * *", func() {
		expireListings()
	})

	if err != nil {
		log.Printf("Could not initialize listing expiry cron: %v", err)
		return
	}

	c.Start()
}

// expireListings yayın süresi dolan developer ilanlarını kapatır.
// Individual ilanlar abonelikle birlikte yaşar, burada dokunulmaz.
func expireListings() {
	log.Println("Checking for expired listings...")

	var listings []model.Listing

	err := database.DB.Where("expiry_date IS NOT NULL AND expiry_date < ? AND status = ?",
		time.Now(), model.ListingStatusActive).
		Preload("User").
		Find(&listings).Error
	if err != nil {
		log.Printf("Error fetching expired listings: %v", err)
		return
	}

	for _, listing := range listings {
		err := database.DB.Model(&model.Listing{}).
			Where("id = ?", listing.ID).
			Update("status", model.ListingStatusExpired).Error
		if err != nil {
			log.Printf("Error expiring listing %d: %v", listing.ID, err)
			continue
		}

		log.Printf("Listing %d (%s) expired", listing.ID, listing.Slug)

		if email.GlobalEmailService != nil {
			if err := email.GlobalEmailService.SendListingExpiredEmail(
				listing.User.Email,
				listing.User.Name,
				listing.Title,
			); err != nil {
				log.Printf("Error sending listing expired email to %s: %v", listing.User.Email, err)
			}
		}
	}
}
