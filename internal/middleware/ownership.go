package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"basera_backend/internal/model"
	"basera_backend/pkg/database"
	"basera_backend/pkg/utils/jwt"
)

// CheckListingOwnership ilanın sahibi olup olmadığını kontrol eder
func CheckListingOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)
		listingID := c.Params("id")

		var listing model.Listing
		if err := database.GetDB().First(&listing, listingID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Listing not found",
			})
		}

		if listing.UserID != claims.UserID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to access this listing",
			})
		}

		c.Locals("listing", &listing)
		return c.Next()
	}
}

// CheckEditWindow 3 günlük düzenleme penceresini zorlar. Geçiş tek
// yönlüdür; pencere kapandıktan sonra hiçbir olay yeniden açmaz.
func CheckEditWindow() fiber.Handler {
	return func(c *fiber.Ctx) error {
		listing := c.Locals("listing").(*model.Listing)

		if !listing.EditableAt(time.Now()) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Edit window has expired. Listings can only be edited within 3 days of posting.",
			})
		}

		return c.Next()
	}
}
