package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"basera_backend/internal/media"
	"basera_backend/internal/model"
	"basera_backend/pkg/database"
	"basera_backend/pkg/utils/jwt"
	"basera_backend/pkg/utils/storage"
	"basera_backend/pkg/utils/validation"
)

type ProfileUpdateInput struct {
	Name           string `json:"name"`
	PhoneNumber    string `json:"phone_number"`
	WhatsAppNumber string `json:"whats_app_number"`
	City           string `json:"city"`
	AboutMe        string `json:"about_me"`
}

func GetProfile(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(user.GetPublicProfile())
}

func UpdateProfile(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(ProfileUpdateInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.PhoneNumber != "" && !validation.ValidPhone(input.PhoneNumber) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "phone_number must be a 10-digit number",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	updates := map[string]interface{}{
		"name":             input.Name,
		"phone_number":     input.PhoneNumber,
		"whats_app_number": input.WhatsAppNumber,
		"city":             input.City,
		"about_me":         input.AboutMe,
	}

	if err := database.GetDB().Model(&user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update profile",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user.GetPublicProfile(),
	})
}

// UploadAvatar profil resmini yükler; eski resim varsa silinir
func UploadAvatar(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No avatar image provided",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	asset, err := media.ReadAsset(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := newPipeline(user.Username, "avatar").Process(c.Context(), &asset, nil)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Avatar upload failed. Please try again.",
		})
	}

	oldAvatar := user.Avatar
	if err := database.GetDB().Model(&user).Update("avatar", res.CoverURL).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update avatar",
		})
	}

	if oldAvatar != "" {
		if err := storage.Delete(c.Context(), oldAvatar); err != nil {
			log.Printf("Could not delete old avatar: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Avatar updated successfully",
		"avatar":  res.CoverURL,
	})
}
