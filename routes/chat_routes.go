package routes

import (
	"github.com/anjiri1684/medicall/handlers"
	"github.com/anjiri1684/medicall/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func ChatRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	chat := api.Group("/bookings/:bookingId/chats", middleware.Protected())
	chat.Get("", handlers.GetMessages)
	chat.Post("", handlers.PostMessage)

	api.Use("/ws/:bookingId", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws/:bookingId", websocket.New(handlers.ServeWs))
}
