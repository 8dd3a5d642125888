package cron

import (
	"basera_backend/internal/model"
	"basera_backend/pkg/cache"
	"basera_backend/pkg/database"
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	viewFlushSpec  = "*/10 * * * *"
	viewWindowSpec = "0 0 * * *"
)

func InitViewStatsCron() {
	c := cron.New()

	// Redis sayaçları her 10 dakikada bir veritabanına aktarılır
	_, err := c.AddFunc(viewFlushSpec, func() {
		flushViewCounters()
	})
	if err != nil {
		log.Printf("Could not initialize view flush cron: %v", err)
		return
	}

	// Günlük/haftalık/aylık pencereler gece yarısı yeniden hesaplanır
	_, err = c.AddFunc(viewWindowSpec, func() {
		recalculateViewWindows()
	})
	if err != nil {
		log.Printf("Could not initialize view window cron: %v", err)
		return
	}

	c.Start()
}

func flushViewCounters() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counts, err := cache.DrainViews(ctx)
	if err != nil {
		log.Printf("Error draining view counters: %v", err)
		return
	}

	if len(counts) == 0 {
		return
	}

	for listingID, delta := range counts {
		err := database.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "listing_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_views":  gorm.Expr("listing_stats.total_views + ?", delta),
				"last_updated": time.Now(),
			}),
		}).Create(&model.ListingStats{
			ListingID:   listingID,
			TotalViews:  delta,
			LastUpdated: time.Now(),
		}).Error

		if err != nil {
			log.Printf("Error flushing view counter for listing %d: %v", listingID, err)
		}
	}

	log.Printf("Flushed view counters for %d listings", len(counts))
}

func recalculateViewWindows() {
	log.Println("Recalculating view windows...")

	now := time.Now()
	windows := []struct {
		column string
		since  time.Time
	}{
		{"daily_views", now.AddDate(0, 0, -1)},
		{"weekly_views", now.AddDate(0, 0, -7)},
		{"monthly_views", now.AddDate(0, -1, 0)},
	}

	for _, w := range windows {
		err := database.DB.Exec(`
			UPDATE listing_stats SET `+w.column+` = (
				SELECT COUNT(*) FROM listing_views
				WHERE listing_views.listing_id = listing_stats.listing_id
				AND listing_views.viewed_at >= ?
			)`, w.since).Error
		if err != nil {
			log.Printf("Error recalculating %s: %v", w.column, err)
		}
	}

	// unique_views kalıcı tablodan hesaplanır, Redis sayacından bağımsız
	err := database.DB.Exec(`
		UPDATE listing_stats SET unique_views = (
			SELECT COUNT(*) FROM listing_views
			WHERE listing_views.listing_id = listing_stats.listing_id
			AND listing_views.is_unique = true
		)`).Error
	if err != nil {
		log.Printf("Error recalculating unique views: %v", err)
	}
}
