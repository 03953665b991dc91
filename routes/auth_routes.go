package routes

import (
	"github.com/anjiri1684/medicall/handlers"
	"github.com/anjiri1684/medicall/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/auth", handlers.Login)
	api.Get("/auth", middleware.Protected(), handlers.CheckToken)
}
