package routes

import (
	"github.com/anjiri1684/medicall/handlers"
	"github.com/anjiri1684/medicall/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProviderRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	providers := api.Group("/providers")
	providers.Post("", handlers.RegisterProvider)
	providers.Get("", middleware.Protected(), handlers.GetProviders)
	providers.Get("/:id", middleware.Protected(), handlers.GetProvider)
	providers.Put("/:id", middleware.Protected(), middleware.ProviderRequired(), handlers.UpdateProvider)
	providers.Delete("/:id", middleware.Protected(), middleware.ProviderRequired(), handlers.DeleteProvider)
}
