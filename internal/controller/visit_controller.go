package controller

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"basera_backend/internal/model"
	"basera_backend/pkg/database"
	"basera_backend/pkg/email"
	"basera_backend/pkg/utils/jwt"
	"basera_backend/pkg/utils/validation"
)

type VisitInput struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email"`
	Phone         string `json:"phone" validate:"required"`
	PreferredDate string `json:"preferred_date" validate:"required"` // YYYY-MM-DD
	Message       string `json:"message"`
}

var validVisitStatuses = map[string]bool{
	"pending":   true,
	"confirmed": true,
	"completed": true,
	"cancelled": true,
}

// BookVisit bir ilan için site ziyareti randevusu oluşturur
func BookVisit(c *fiber.Ctx) error {
	listingIDStr := c.Params("id")
	listingID, err := strconv.ParseUint(listingIDStr, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid listing ID",
		})
	}

	var listing model.Listing
	if err := database.GetDB().Preload("User").First(&listing, listingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}
	if listing.Status != model.ListingStatusActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Listing is no longer active",
		})
	}

	input := new(VisitInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if !validation.ValidPhone(input.Phone) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "phone must be a 10-digit number",
		})
	}

	preferredDate, err := time.Parse("2006-01-02", input.PreferredDate)
	if err != nil || preferredDate.Before(time.Now().Truncate(24*time.Hour)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "preferred_date must be a future date in YYYY-MM-DD format",
		})
	}

	visit := model.VisitRequest{
		ListingID:     uint(listingID),
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		PreferredDate: preferredDate,
		Message:       input.Message,
		Status:        "pending",
	}

	if err := database.GetDB().Create(&visit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not book visit",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendVisitNotificationEmail(
			listing.User.Email,
			listing.Title,
			input.Name,
			input.Phone,
			preferredDate,
		)
		if err != nil {
			log.Printf("Could not send visit notification email: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Your visit request has been sent. The owner will confirm shortly.",
		"visit":   visit,
	})
}

// GetMyVisits sahibin ilanlarına gelen ziyaret taleplerini listeler
func GetMyVisits(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var visits []model.VisitRequest
	query := database.GetDB().
		Joins("JOIN listings ON visit_requests.listing_id = listings.id").
		Where("listings.user_id = ?", claims.UserID).
		Preload("Listing")

	if status := c.Query("status"); status != "" {
		query = query.Where("visit_requests.status = ?", status)
	}
	if readStatus := c.Query("read"); readStatus != "" {
		query = query.Where("visit_requests.read_status = ?", readStatus == "true")
	}
	if listingID := c.Query("listing_id"); listingID != "" {
		query = query.Where("visit_requests.listing_id = ?", listingID)
	}

	query = query.Order("visit_requests.created_at desc")

	if err := query.Find(&visits).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch visit requests",
		})
	}

	return c.JSON(visits)
}

func UpdateVisitStatus(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	visitID := c.Params("id")

	var visit model.VisitRequest
	if err := database.GetDB().Preload("Listing").First(&visit, visitID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Visit request not found",
		})
	}

	if visit.Listing.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to update this visit request",
		})
	}

	input := struct {
		Status string `json:"status"`
	}{}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if !validVisitStatuses[input.Status] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":          "Invalid status value",
			"valid_statuses": []string{"pending", "confirmed", "completed", "cancelled"},
		})
	}

	updates := map[string]interface{}{"status": input.Status}
	if input.Status == "confirmed" {
		now := time.Now()
		updates["confirmed_at"] = &now
	}

	if err := database.GetDB().Model(&visit).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update visit status",
		})
	}

	database.GetDB().Preload("Listing").First(&visit, visitID)

	return c.JSON(fiber.Map{
		"message": "Visit status updated successfully",
		"visit":   visit,
	})
}

func MarkVisitAsRead(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	visitID := c.Params("id")

	var visit model.VisitRequest
	if err := database.GetDB().Preload("Listing").First(&visit, visitID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Visit request not found",
		})
	}

	if visit.Listing.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to update this visit request",
		})
	}

	if err := database.GetDB().Model(&visit).Update("read_status", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not mark visit as read",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
