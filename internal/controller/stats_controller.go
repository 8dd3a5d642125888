package controller

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"basera_backend/internal/model"
	"basera_backend/pkg/cache"
	"basera_backend/pkg/database"
	"basera_backend/pkg/utils/jwt"
)

// DashboardStats sahip paneli istatistikleri
type DashboardStats struct {
	TotalListings  int64        `json:"total_listings"`
	ActiveListings int64        `json:"active_listings"`
	TotalViews     int64        `json:"total_views"`
	PendingVisits  int64        `json:"pending_visits"`
	OpenComplaints int64        `json:"open_complaints"`
	TopListings    []TopListing `json:"top_listings"`
}

type TopListing struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Views      int64  `json:"views"`
	City       string `json:"city"`
	CoverImage string `json:"cover_image"`
}

// RecordListingView görüntülenmeyi kaydeder: tekil kontrolü DB'de,
// sayaç artışı Redis'te yapılır; sayaçlar cron ile toplanır
func RecordListingView(c *fiber.Ctx) error {
	listingIDStr := c.Params("id")
	listingID, err := strconv.ParseUint(listingIDStr, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid listing ID",
		})
	}

	var count int64
	database.GetDB().Model(&model.Listing{}).
		Where("id = ? AND status = ?", listingID, model.ListingStatusActive).
		Count(&count)
	if count == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	view := model.ListingView{
		ListingID: uint(listingID),
		IP:        c.IP(),
		SessionID: c.Get("X-Session-ID"),
		UserAgent: c.Get("User-Agent"),
		ViewedAt:  time.Now(),
	}

	if err := database.GetDB().Create(&view).Error; err != nil {
		log.Printf("Could not record listing view: %v", err)
	}

	if err := cache.IncrementViews(c.Context(), uint(listingID)); err != nil {
		log.Printf("Could not increment view counter: %v", err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// GetDashboardStats sahip paneli istatistiklerini getirir
func GetDashboardStats(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	db := database.GetDB()

	var stats DashboardStats

	db.Model(&model.Listing{}).
		Where("user_id = ?", claims.UserID).
		Count(&stats.TotalListings)

	db.Model(&model.Listing{}).
		Where("user_id = ? AND status = ?", claims.UserID, model.ListingStatusActive).
		Count(&stats.ActiveListings)

	db.Model(&model.ListingView{}).
		Joins("JOIN listings ON listing_views.listing_id = listings.id").
		Where("listings.user_id = ?", claims.UserID).
		Count(&stats.TotalViews)

	db.Model(&model.VisitRequest{}).
		Joins("JOIN listings ON visit_requests.listing_id = listings.id").
		Where("listings.user_id = ? AND visit_requests.status = ?", claims.UserID, "pending").
		Count(&stats.PendingVisits)

	db.Model(&model.Complaint{}).
		Where("user_id = ? AND status = ?", claims.UserID, "open").
		Count(&stats.OpenComplaints)

	// En çok görüntülenen 5 ilan
	db.Table("listings").
		Select("listings.id, listings.title, listings.city, listings.cover_image_url as cover_image, COUNT(listing_views.id) as views").
		Joins("LEFT JOIN listing_views ON listings.id = listing_views.listing_id").
		Where("listings.user_id = ? AND listings.status = ?", claims.UserID, model.ListingStatusActive).
		Group("listings.id").
		Order("views desc").
		Limit(5).
		Scan(&stats.TopListings)

	return c.JSON(stats)
}
