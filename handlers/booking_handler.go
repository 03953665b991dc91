package handlers

import (
	"errors"

	"github.com/anjiri1684/medicall/database"
	"github.com/anjiri1684/medicall/models"
	"github.com/anjiri1684/medicall/services"
	"github.com/anjiri1684/medicall/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateBookingRequest struct {
	PatientLocation *utils.Point `json:"patient_location" validate:"required"`
	DistanceMeters  *float64     `json:"distance_meters" validate:"required,gte=0"`
}

// CreateBooking opens a pending booking for the authenticated patient and
// takes the provider off proximity search for its duration. At most one
// non-terminal booking may exist per patient; the partial unique index
// backs the pre-check under concurrent requests.
func CreateBooking(c *fiber.Ctx) error {
	patientID := callerID(c)

	providerID, err := uuid.Parse(c.Params("providerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid provider id"})
	}

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":     false,
			"message":     "Incomplete booking data",
			"constraints": utils.DescribeValidationErrors(err),
		})
	}

	var provider models.Provider
	if err := database.DB.First(&provider, "id = ?", providerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Provider not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create booking"})
	}

	var active models.Booking
	err = database.DB.
		Where("patient_id = ? AND status <> ?", patientID, models.BookingStatusCompleted).
		First(&active).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "You still have an active booking"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create booking"})
	}

	booking := models.Booking{
		PatientID:        patientID,
		ProviderID:       provider.ID,
		PatientLocation:  *req.PatientLocation,
		ProviderLocation: provider.Location,
		DistanceMeters:   *req.DistanceMeters,
		Status:           models.BookingStatusPending,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		// Discoverability is part of the booking's transactional side
		// effects: if this write fails, the booking must not exist either.
		return tx.Model(&models.Provider{}).
			Where("id = ?", provider.ID).
			Update("discoverable", false).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "You still have an active booking"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create booking"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Booking created",
		"booking_id": booking.ID,
	})
}

type UpdateBookingRequest struct {
	Status    string `json:"status" validate:"required"`
	Succeeded *bool  `json:"succeeded"`

	services.SettlementOverrides
}

// UpdateBookingState applies a status/outcome transition. Completing a
// booking re-enables the provider's discoverability and records the
// settlement; leaving completed retracts it. The whole transition runs in
// one transaction, so a failing step never leaves a half-applied state.
func UpdateBookingState(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid booking id"})
	}

	var req UpdateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if !models.ValidBookingStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid booking status"})
	}
	if req.Succeeded == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Booking outcome is required"})
	}

	var booking models.Booking
	err = database.DB.Preload("Provider").Preload("Patient").First(&booking, "id = ?", bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Booking not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update booking"})
	}

	caller := callerID(c)
	if caller != booking.PatientID && caller != booking.ProviderID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You are not a participant of this booking"})
	}

	var record *models.SettlementRecord
	settled := false

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":    req.Status,
			"succeeded": *req.Succeeded,
		}
		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
			return err
		}
		booking.Status = req.Status
		booking.Succeeded = *req.Succeeded

		if req.Status == models.BookingStatusCompleted {
			err := tx.Model(&models.Provider{}).
				Where("id = ?", booking.ProviderID).
				Update("discoverable", true).Error
			if err != nil {
				return err
			}

			record, settled, err = services.Settle(tx, booking, booking.Provider, req.SettlementOverrides)
			return err
		}

		return services.Retract(tx, booking.ID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Reopening while the patient already has another active
			// booking would break the one-active-booking invariant.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "Patient already has an active booking"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update booking"})
	}

	if settled && record != nil {
		go services.GenerateReceipt(*record, booking.Patient.FullName, booking.Provider.FullName)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Booking updated"})
}

type counterpartInfo struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	PhotoURL *string   `json:"photo_url"`
}

type activeBookingView struct {
	models.Booking
	Counterpart counterpartInfo `json:"counterpart"`
}

type settlementView struct {
	models.SettlementRecord
	TotalFee    float64         `json:"total_fee"`
	Counterpart counterpartInfo `json:"counterpart"`
}

type providerAggregates struct {
	UnsettledPlatformFees float64 `json:"unsettled_platform_fees"`
	SettledPlatformFees   float64 `json:"settled_platform_fees"`
	NetEarnings           float64 `json:"net_earnings"`
}

// GetActiveAndHistory returns the caller's single non-terminal booking (if
// any), a newest-first page of settlement records, and, for providers,
// their fee aggregates. Counterparts are reduced to display info only.
func GetActiveAndHistory(c *fiber.Ctx) error {
	userID := callerID(c)
	role := callerRole(c)

	limit, page, err := paginationParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	ownerColumn := "patient_id"
	if role == "provider" {
		ownerColumn = "provider_id"
	}

	var activeView *activeBookingView
	var active models.Booking
	err = database.DB.Preload("Patient").Preload("Provider").
		Where(ownerColumn+" = ? AND status <> ?", userID, models.BookingStatusCompleted).
		First(&active).Error
	if err == nil {
		activeView = &activeBookingView{Booking: active, Counterpart: bookingCounterpart(active, role)}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch bookings"})
	}

	historyFilter := func() *gorm.DB {
		query := database.DB.Model(&models.SettlementRecord{}).Where(ownerColumn+" = ?", userID)
		if settled := c.Query("settled"); settled == "true" || settled == "false" {
			query = query.Where("settled = ?", settled == "true")
		}
		return query
	}

	var total int64
	if err := historyFilter().Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch history"})
	}

	var records []models.SettlementRecord
	query := historyFilter().
		Preload("Patient").Preload("Provider").
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit).Offset((page - 1) * limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch history"})
	}

	views := make([]settlementView, 0, len(records))
	for _, record := range records {
		views = append(views, settlementView{
			SettlementRecord: record,
			TotalFee:         record.TotalFee(),
			Counterpart:      settlementCounterpart(record, role),
		})
	}

	response := fiber.Map{
		"success":        true,
		"message":        "Bookings fetched",
		"active_booking": activeView,
		"total":          total,
		"limit":          limit,
		"page":           page,
		"history":        views,
	}

	if role == "provider" {
		aggregates, err := providerFeeAggregates(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch aggregates"})
		}
		response["aggregates"] = aggregates
	}

	return c.JSON(response)
}

func bookingCounterpart(booking models.Booking, role string) counterpartInfo {
	if role == "provider" {
		return counterpartInfo{ID: booking.Patient.ID, FullName: booking.Patient.FullName, PhotoURL: booking.Patient.PhotoURL}
	}
	return counterpartInfo{ID: booking.Provider.ID, FullName: booking.Provider.FullName, PhotoURL: booking.Provider.PhotoURL}
}

func settlementCounterpart(record models.SettlementRecord, role string) counterpartInfo {
	if role == "provider" {
		return counterpartInfo{ID: record.Patient.ID, FullName: record.Patient.FullName, PhotoURL: record.Patient.PhotoURL}
	}
	return counterpartInfo{ID: record.Provider.ID, FullName: record.Provider.FullName, PhotoURL: record.Provider.PhotoURL}
}

func providerFeeAggregates(providerID uuid.UUID) (providerAggregates, error) {
	var sums struct {
		Unsettled float64
		Settled   float64
		Gross     float64
	}

	err := database.DB.Model(&models.SettlementRecord{}).
		Where("provider_id = ?", providerID).
		Select(`coalesce(sum(platform_fee) filter (where not settled), 0) as unsettled,
			coalesce(sum(platform_fee) filter (where settled), 0) as settled,
			coalesce(sum(service_fee + transport_fee), 0) as gross`).
		Scan(&sums).Error
	if err != nil {
		return providerAggregates{}, err
	}

	return providerAggregates{
		UnsettledPlatformFees: sums.Unsettled,
		SettledPlatformFees:   sums.Settled,
		NetEarnings:           sums.Gross - sums.Settled - sums.Unsettled,
	}, nil
}
