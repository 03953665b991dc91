package routes

import (
	"github.com/anjiri1684/medicall/handlers"
	"github.com/anjiri1684/medicall/middleware"
	"github.com/gofiber/fiber/v2"
)

func PatientRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	patients := api.Group("/patients")
	patients.Post("", handlers.RegisterPatient)
	patients.Get("/:id", middleware.Protected(), handlers.GetPatient)
	patients.Put("/:id", middleware.Protected(), middleware.PatientRequired(), handlers.UpdatePatient)
	patients.Delete("/:id", middleware.Protected(), middleware.PatientRequired(), handlers.DeletePatient)

	records := patients.Group("/:patientId/health-records", middleware.Protected())
	records.Get("", handlers.GetHealthRecords)
	records.Post("", middleware.PatientRequired(), handlers.CreateHealthRecord)
	records.Delete("/:id", middleware.PatientRequired(), handlers.DeleteHealthRecord)
}
