package routes

import (
	"github.com/anjiri1684/medicall/handlers"
	"github.com/anjiri1684/medicall/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", handlers.GetActiveAndHistory)
	booking.Post("/:providerId", middleware.PatientRequired(), handlers.CreateBooking)
	booking.Put("/:bookingId", handlers.UpdateBookingState)
}
