package services

import (
	"errors"
	"time"

	"github.com/anjiri1684/medicall/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettlementOverrides lets the closing request replace any derived value.
// Nil fields keep the computed defaults.
type SettlementOverrides struct {
	ServiceFee   *float64 `json:"service_fee"`
	PlatformFee  *float64 `json:"platform_fee"`
	TransportFee *float64 `json:"transport_fee"`
	WasIll       *bool    `json:"was_ill"`
	IllnessName  *string  `json:"illness_name"`
	Note         *string  `json:"note"`
}

// ResolveFees computes the settlement amounts: service fee defaults to the
// provider's listed price, platform fee to the configured percentage of
// it, transport fee to the distance-based estimate. Overrides win.
func ResolveFees(price, distanceMeters float64, o SettlementOverrides) (serviceFee, platformFee, transportFee float64) {
	serviceFee = price
	if o.ServiceFee != nil {
		serviceFee = *o.ServiceFee
	}

	platformFee = PlatformFee(price, AdminPercent())
	if o.PlatformFee != nil {
		platformFee = *o.PlatformFee
	}

	transportFee = TransportFee(distanceMeters, PerKMRate())
	if o.TransportFee != nil {
		transportFee = *o.TransportFee
	}

	return serviceFee, platformFee, transportFee
}

// ResolveIllness enforces the illness-name discipline: the name is the
// empty string when the visit found an illness but none was supplied, and
// null whenever it did not.
func ResolveIllness(o SettlementOverrides) (bool, *string) {
	if o.WasIll == nil || !*o.WasIll {
		return false, nil
	}

	name := ""
	if o.IllnessName != nil {
		name = *o.IllnessName
	}
	return true, &name
}

// Settle creates or updates the settlement record for a completed booking
// inside the caller's transaction. Re-settling the same booking updates
// the one existing row. The returned bool reports whether the record was
// created on this call; the first settlement with an illness also appends
// a health-history note for the patient.
func Settle(tx *gorm.DB, booking models.Booking, provider models.Provider, o SettlementOverrides) (*models.SettlementRecord, bool, error) {
	var record models.SettlementRecord
	created := false

	err := tx.Where("booking_id = ?", booking.ID).First(&record).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
		created = true
		record = models.SettlementRecord{BookingID: booking.ID}
	}

	serviceFee, platformFee, transportFee := ResolveFees(provider.Price, booking.DistanceMeters, o)
	wasIll, illnessName := ResolveIllness(o)

	record.PatientID = booking.PatientID
	record.ProviderID = booking.ProviderID
	record.ServiceFee = serviceFee
	record.PlatformFee = platformFee
	record.TransportFee = transportFee
	record.Succeeded = booking.Succeeded
	record.WasIll = wasIll
	record.IllnessName = illnessName
	// An absent note never clears one stored by an earlier settlement.
	if o.Note != nil {
		record.Note = o.Note
	}

	if err := tx.Save(&record).Error; err != nil {
		return nil, false, err
	}

	if created && wasIll {
		note := models.HealthRecord{
			PatientID:   booking.PatientID,
			IllnessName: *illnessName,
			Date:        time.Now(),
		}
		if err := tx.Create(&note).Error; err != nil {
			return nil, false, err
		}
	}

	return &record, created, nil
}

// Retract removes the settlement for a booking that is moving back out of
// the completed status. Missing rows are fine.
func Retract(tx *gorm.DB, bookingID uuid.UUID) error {
	return tx.Where("booking_id = ?", bookingID).Delete(&models.SettlementRecord{}).Error
}
