package handlers

import (
	"github.com/anjiri1684/medicall/models"
	"github.com/gofiber/fiber/v2"
)

func GetProviderKinds(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"kinds":   models.ProviderKinds,
	})
}

func GetBookingStatuses(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":  true,
		"statuses": models.BookingStatuses,
	})
}
