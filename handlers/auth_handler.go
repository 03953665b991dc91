package handlers

import (
	"errors"
	"fmt"
	"time"

	config "github.com/anjiri1684/medicall/configs"
	"github.com/anjiri1684/medicall/database"
	"github.com/anjiri1684/medicall/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

func callerClaims(c *fiber.Ctx) jwt.MapClaims {
	token := c.Locals("user").(*jwt.Token)
	return token.Claims.(jwt.MapClaims)
}

func callerID(c *fiber.Ctx) uuid.UUID {
	subject, _ := callerClaims(c)["user_id"].(string)
	id, _ := uuid.Parse(subject)
	return id
}

func callerRole(c *fiber.Ctx) string {
	role, _ := callerClaims(c)["role"].(string)
	return role
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login issues a token for either role; ?login=provider selects the
// provider directory, anything else the patient one. ?remember=true
// stretches expiry from 7 to 30 days.
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Incomplete credentials",
		})
	}

	var (
		id           uuid.UUID
		username     string
		passwordHash string
		role         string
	)

	if c.Query("login") == "provider" {
		var provider models.Provider
		if err := database.DB.Where("username = ?", req.Username).First(&provider).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Wrong username or password"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Login failed"})
		}
		id, username, passwordHash, role = provider.ID, provider.Username, provider.Password, "provider"
	} else {
		var patient models.Patient
		if err := database.DB.Where("username = ?", req.Username).First(&patient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Wrong username or password"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Login failed"})
		}
		id, username, passwordHash, role = patient.ID, patient.Username, patient.Password, "patient"
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Wrong username or password"})
	}

	expiry := 7 * 24 * time.Hour
	if c.Query("remember") == "true" {
		expiry = 30 * 24 * time.Hour
	}

	claims := jwt.MapClaims{
		"user_id":  id.String(),
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to sign token"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   signed,
	})
}

// CheckToken reports the authenticated principal plus a human-readable
// time until expiry.
func CheckToken(c *fiber.Ctx) error {
	claims := callerClaims(c)

	remaining := ""
	if exp, ok := claims["exp"].(float64); ok {
		remaining = humanDuration(time.Until(time.Unix(int64(exp), 0)))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Token valid",
		"user": fiber.Map{
			"id":       claims["user_id"],
			"username": claims["username"],
			"role":     claims["role"],
		},
		"remaining": remaining,
	})
}

func humanDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days", int(d.Hours()/24))
	}
}
