package handlers

import (
	"errors"

	"github.com/anjiri1684/medicall/database"
	"github.com/anjiri1684/medicall/models"
	"github.com/anjiri1684/medicall/services"
	"github.com/anjiri1684/medicall/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterProviderRequest struct {
	Kind         string       `json:"kind" validate:"required,oneof=doctor nurse psychologist"`
	FullName     string       `json:"full_name" validate:"required"`
	Username     string       `json:"username" validate:"required,min=3"`
	Email        string       `json:"email" validate:"required,email"`
	Phone        string       `json:"phone" validate:"required,numeric"`
	Password     string       `json:"password" validate:"required,min=8"`
	Price        float64      `json:"price" validate:"required,gt=0"`
	Location     *utils.Point `json:"location" validate:"required"`
	Discoverable *bool        `json:"discoverable"`
	PhotoURL     *string      `json:"photo_url"`
}

// duplicateIdentity reports which identity fields collide with existing
// rows, shaped the same way validation constraints are.
func duplicateIdentity(tx *gorm.DB, table, phone, email, username string, exclude *uuid.UUID) ([]utils.FieldError, error) {
	query := tx.Table(table).Where("phone = ? OR email = ? OR username = ?", phone, email, username)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}

	var existing []struct {
		Phone    string
		Email    string
		Username string
	}
	if err := query.Find(&existing).Error; err != nil {
		return nil, err
	}

	var constraints []utils.FieldError
	for _, row := range existing {
		if row.Phone == phone {
			constraints = append(constraints, utils.FieldError{Field: "phone", Reasons: []string{"phone number already registered"}})
		}
		if row.Email == email {
			constraints = append(constraints, utils.FieldError{Field: "email", Reasons: []string{"email already registered"}})
		}
		if row.Username == username {
			constraints = append(constraints, utils.FieldError{Field: "username", Reasons: []string{"username already registered"}})
		}
	}
	return constraints, nil
}

// RegisterProvider creates a provider account. With ?check the request is
// validated (including duplicate detection) without writing anything.
func RegisterProvider(c *fiber.Ctx) error {
	var req RegisterProviderRequest
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

	phone := utils.FormatPhoneNumber(req.Phone)
	constraints, err := duplicateIdentity(database.DB, "providers", phone, req.Email, req.Username, nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to register provider"})
	}
	if len(constraints) > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":     false,
			"message":     "Provider already registered",
			"constraints": constraints,
		})
	}

	checking := c.Request().URI().QueryArgs().Has("check")
	if checking {
		return c.JSON(fiber.Map{"success": true})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to hash password"})
	}

	provider := models.Provider{
		Kind:     req.Kind,
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Phone:    phone,
		Password: string(hashedPassword),
		Price:    req.Price,
		Location: *req.Location,
		PhotoURL: req.PhotoURL,
	}
	if req.Discoverable != nil {
		provider.Discoverable = *req.Discoverable
	}

	if err := database.DB.Create(&provider).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "Provider already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to register provider"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"message":     "Account created",
		"provider_id": provider.ID,
	})
}

// GetProviders lists providers. With lat and lng supplied the listing
// becomes a proximity search over discoverable providers: each result
// carries its distance and a transport-fee estimate, sorted by distance
// when sort=distance, and paginated after ranking.
func GetProviders(c *fiber.Ctx) error {
	limit, page, err := paginationParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	query := database.DB.Model(&models.Provider{})
	if kind := c.Query("kind"); kind != "" {
		if !models.ValidProviderKind(kind) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid provider kind"})
		}
		query = query.Where("kind = ?", kind)
	}

	if c.Query("lat") != "" && c.Query("lng") != "" {
		origin := utils.Point{Lat: c.QueryFloat("lat"), Lng: c.QueryFloat("lng")}

		var candidates []models.Provider
		if err := query.Where("discoverable = ?", true).Find(&candidates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch providers"})
		}

		order := ""
		if c.Query("sort") == "distance" {
			order = c.Query("order", "asc")
		}

		ranked := services.RankByDistance(origin, candidates, order)
		pageOf := services.PaginateRanked(ranked, limit, page)

		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "Providers fetched",
			"total":     len(ranked),
			"limit":     limit,
			"page":      page,
			"providers": pageOf,
		})
	}

	if discoverable := c.Query("discoverable"); discoverable == "true" || discoverable == "false" {
		query = query.Where("discoverable = ?", discoverable == "true")
	}

	sortColumns := map[string]string{
		"price":      "price",
		"created_at": "created_at",
		"full_name":  "full_name",
	}
	if column, ok := sortColumns[c.Query("sort")]; ok {
		direction := "asc"
		if c.Query("order") == "desc" {
			direction = "desc"
		}
		query = query.Order(column + " " + direction)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch providers"})
	}

	if limit > 0 {
		query = query.Limit(limit).Offset((page - 1) * limit)
	}

	var providers []models.Provider
	if err := query.Find(&providers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch providers"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Providers fetched",
		"total":     total,
		"limit":     limit,
		"page":      page,
		"providers": providers,
	})
}

func GetProvider(c *fiber.Ctx) error {
	var provider models.Provider
	if err := database.DB.First(&provider, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Provider not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch provider"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Provider fetched",
		"provider": provider,
	})
}

type UpdateProviderRequest struct {
	Kind         *string      `json:"kind"`
	FullName     *string      `json:"full_name"`
	Username     *string      `json:"username"`
	Email        *string      `json:"email" validate:"omitempty,email"`
	Phone        *string      `json:"phone" validate:"omitempty,numeric"`
	Password     *string      `json:"password" validate:"omitempty,min=8"`
	Price        *float64     `json:"price" validate:"omitempty,gt=0"`
	Location     *utils.Point `json:"location"`
	Discoverable *bool        `json:"discoverable"`
}

// UpdateProvider patches the caller's own profile. Only fields present in
// the payload are touched.
func UpdateProvider(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid provider id"})
	}
	if callerID(c) != id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You may only update your own profile"})
	}

	var req UpdateProviderRequest
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
	if req.Kind != nil && !models.ValidProviderKind(*req.Kind) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid provider kind"})
	}

	var provider models.Provider
	if err := database.DB.First(&provider, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Provider not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update profile"})
	}

	if req.Kind != nil {
		provider.Kind = *req.Kind
	}
	if req.FullName != nil {
		provider.FullName = *req.FullName
	}
	if req.Username != nil {
		provider.Username = *req.Username
	}
	if req.Email != nil {
		provider.Email = *req.Email
	}
	if req.Phone != nil {
		provider.Phone = utils.FormatPhoneNumber(*req.Phone)
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to hash password"})
		}
		provider.Password = string(hashedPassword)
	}
	if req.Price != nil {
		provider.Price = *req.Price
	}
	if req.Location != nil {
		provider.Location = *req.Location
	}
	if req.Discoverable != nil {
		provider.Discoverable = *req.Discoverable
	}

	constraints, err := duplicateIdentity(database.DB, "providers", provider.Phone, provider.Email, provider.Username, &provider.ID)
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

	if err := database.DB.Save(&provider).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Profile updated"})
}

func DeleteProvider(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid provider id"})
	}
	if callerID(c) != id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You may only delete your own account"})
	}

	result := database.DB.Delete(&models.Provider{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete provider"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Provider not found"})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"success": true, "message": "Provider deleted"})
}
