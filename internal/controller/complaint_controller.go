package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"basera_backend/internal/model"
	"basera_backend/pkg/database"
	"basera_backend/pkg/email"
	"basera_backend/pkg/utils/jwt"
)

type ComplaintInput struct {
	Category    string `json:"category" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description" validate:"required"`
	ListingID   *uint  `json:"listing_id"`
}

var validComplaintCategories = map[model.ComplaintCategory]bool{
	model.ComplaintCategoryListing: true,
	model.ComplaintCategoryPayment: true,
	model.ComplaintCategoryFraud:   true,
	model.ComplaintCategoryOther:   true,
}

// RegisterComplaint oturum açmış kullanıcı adına şikayet kaydı açar
func RegisterComplaint(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(ComplaintInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if !validComplaintCategories[model.ComplaintCategory(input.Category)] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":            "Invalid category",
			"valid_categories": []string{"listing", "payment", "fraud", "other"},
		})
	}
	if input.Subject == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "subject is required"})
	}
	if input.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "description is required"})
	}

	// İlan referansı verildiyse var olmalı
	if input.ListingID != nil {
		var count int64
		database.GetDB().Model(&model.Listing{}).Where("id = ?", *input.ListingID).Count(&count)
		if count == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Referenced listing does not exist",
			})
		}
	}

	complaint := model.Complaint{
		UserID:      claims.UserID,
		ListingID:   input.ListingID,
		Category:    model.ComplaintCategory(input.Category),
		Subject:     input.Subject,
		Description: input.Description,
		Status:      "open",
	}

	if err := database.GetDB().Create(&complaint).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not register complaint",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendComplaintAckEmail(
			claims.Email,
			complaint.ID,
			input.Subject,
		)
		if err != nil {
			log.Printf("Could not send complaint acknowledgment email: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Your complaint has been registered. We will get back to you.",
		"complaint": complaint,
	})
}

// GetMyComplaints kullanıcının kendi şikayetlerini listeler
func GetMyComplaints(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var complaints []model.Complaint
	query := database.GetDB().Where("user_id = ?", claims.UserID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("created_at desc").Find(&complaints).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch complaints",
		})
	}

	return c.JSON(complaints)
}
