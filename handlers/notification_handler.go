package handlers

import (
	"github.com/anjiri1684/medicall/utils"
	"github.com/gofiber/fiber/v2"
)

type NotificationRequest struct {
	Token   string `json:"token" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// SendNotification acknowledges a push request. Delivery itself belongs to
// the device-messaging collaborator; this endpoint only validates and
// accepts, fire-and-forget.
func SendNotification(c *fiber.Ctx) error {
	var req NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":     false,
			"message":     "Notification data must not be empty",
			"constraints": utils.DescribeValidationErrors(err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Notification sent",
	})
}
