package handlers

import (
	"errors"
	"time"

	"github.com/anjiri1684/medicall/database"
	"github.com/anjiri1684/medicall/models"
	"github.com/anjiri1684/medicall/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterPatientRequest struct {
	FullName  string  `json:"full_name" validate:"required"`
	Username  string  `json:"username" validate:"required,min=3"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone" validate:"required,numeric"`
	Password  string  `json:"password" validate:"required,min=8"`
	Gender    *string `json:"gender"`
	BirthDate *string `json:"birth_date"`
	PhotoURL  *string `json:"photo_url"`
}

// RegisterPatient creates a patient account; ?check validates without
// writing, mirroring provider registration.
func RegisterPatient(c *fiber.Ctx) error {
	var req RegisterPatientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":     false,
			"message":     "Invalid registration data",
			"constraints": utils.DescribeValidationErrors(err),
		})
	}

	var birthDate *time.Time
	if req.BirthDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":     false,
				"message":     "Invalid registration data",
				"constraints": []utils.FieldError{{Field: "birth_date", Reasons: []string{"must be a YYYY-MM-DD date"}}},
			})
		}
		birthDate = &parsed
	}

	phone := utils.FormatPhoneNumber(req.Phone)
	constraints, err := duplicateIdentity(database.DB, "patients", phone, req.Email, req.Username, nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to register patient"})
	}
	if len(constraints) > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":     false,
			"message":     "Patient already registered",
			"constraints": constraints,
		})
	}

	if c.Request().URI().QueryArgs().Has("check") {
		return c.JSON(fiber.Map{"success": true})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to hash password"})
	}

	patient := models.Patient{
		FullName:  req.FullName,
		Username:  req.Username,
		Email:     req.Email,
		Phone:     phone,
		Password:  string(hashedPassword),
		Gender:    req.Gender,
		BirthDate: birthDate,
		PhotoURL:  req.PhotoURL,
	}

	if err := database.DB.Create(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "Patient already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to register patient"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Account created",
		"patient_id": patient.ID,
	})
}

func GetPatient(c *fiber.Ctx) error {
	var patient models.Patient
	if err := database.DB.First(&patient, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Patient not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch patient"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Patient fetched",
		"patient": patient,
	})
}

type UpdatePatientRequest struct {
	FullName *string `json:"full_name"`
	Username *string `json:"username"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,numeric"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Gender   *string `json:"gender"`
	PhotoURL *string `json:"photo_url"`
}

// UpdatePatient patches the caller's own profile, touching only supplied
// fields.
func UpdatePatient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid patient id"})
	}
	if callerID(c) != id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You may only update your own profile"})
	}

	var req UpdatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":     false,
			"message":     "Invalid profile data",
			"constraints": utils.DescribeValidationErrors(err),
		})
	}

	var patient models.Patient
	if err := database.DB.First(&patient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Patient not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update profile"})
	}

	if req.FullName != nil {
		patient.FullName = *req.FullName
	}
	if req.Username != nil {
		patient.Username = *req.Username
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Phone != nil {
		patient.Phone = utils.FormatPhoneNumber(*req.Phone)
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to hash password"})
		}
		patient.Password = string(hashedPassword)
	}
	if req.Gender != nil {
		patient.Gender = req.Gender
	}
	if req.PhotoURL != nil {
		patient.PhotoURL = req.PhotoURL
	}

	constraints, err := duplicateIdentity(database.DB, "patients", patient.Phone, patient.Email, patient.Username, &patient.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update profile"})
	}
	if len(constraints) > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":     false,
			"message":     "Duplicate profile data",
			"constraints": constraints,
		})
	}

	if err := database.DB.Save(&patient).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Profile updated"})
}

func DeletePatient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid patient id"})
	}
	if callerID(c) != id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You may only delete your own account"})
	}

	result := database.DB.Delete(&models.Patient{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete patient"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Patient not found"})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"success": true, "message": "Patient deleted"})
}
