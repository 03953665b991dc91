package routes

import (
	"github.com/anjiri1684/medicall/handlers"
	"github.com/anjiri1684/medicall/middleware"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/provider-kinds", handlers.GetProviderKinds)
	api.Get("/booking-statuses", handlers.GetBookingStatuses)
	api.Post("/notifications", middleware.Protected(), handlers.SendNotification)
}
