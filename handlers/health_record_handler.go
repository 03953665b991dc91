package handlers

import (
	"errors"
	"time"

	"github.com/anjiri1684/medicall/database"
	"github.com/anjiri1684/medicall/models"
	"github.com/anjiri1684/medicall/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HealthRecordRequest struct {
	IllnessName string `json:"illness_name" validate:"required"`
	Date        string `json:"date" validate:"required"`
}

// CreateHealthRecord lets a patient add an entry to their own history;
// settlement of an illness visit appends entries through the same table.
func CreateHealthRecord(c *fiber.Ctx) error {
	patientID, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid patient id"})
	}
	if callerID(c) != patientID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You may only manage your own health history"})
	}

	var req HealthRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":     false,
			"message":     "Invalid health record data",
			"constraints": utils.DescribeValidationErrors(err),
		})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":     false,
			"message":     "Invalid health record data",
			"constraints": []utils.FieldError{{Field: "date", Reasons: []string{"must be a YYYY-MM-DD date"}}},
		})
	}

	record := models.HealthRecord{
		PatientID:   patientID,
		IllnessName: req.IllnessName,
		Date:        date,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create health record"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Health record created",
		"record":  record,
	})
}

func GetHealthRecords(c *fiber.Ctx) error {
	patientID, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid patient id"})
	}

	limit, page, err := paginationParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	query := database.DB.Where("patient_id = ?", patientID).Order("date desc")
	if limit > 0 {
		query = query.Limit(limit).Offset((page - 1) * limit)
	}

	var records []models.HealthRecord
	if err := query.Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch health records"})
	}

	var total int64
	if err := database.DB.Model(&models.HealthRecord{}).Where("patient_id = ?", patientID).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch health records"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Health records fetched",
		"total":   total,
		"limit":   limit,
		"page":    page,
		"records": records,
	})
}

func DeleteHealthRecord(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid record id"})
	}

	var record models.HealthRecord
	if err := database.DB.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Health record not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete health record"})
	}
	if record.PatientID != callerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You may only manage your own health history"})
	}

	if err := database.DB.Delete(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete health record"})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"success": true, "message": "Health record deleted"})
}
