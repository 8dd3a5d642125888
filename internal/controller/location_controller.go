// internal/controller/location_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"basera_backend/pkg/utils/location"
)

func GetStates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"states": location.GetStates(),
	})
}

func GetCitiesByState(c *fiber.Ctx) error {
	stateCode := c.Params("stateCode")
	if stateCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "State code is required",
		})
	}

	cities := location.GetCitiesByState(stateCode)
	if cities == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown state code",
		})
	}

	return c.JSON(fiber.Map{
		"cities": cities,
	})
}
