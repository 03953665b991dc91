package models

import (
	"time"

	"github.com/anjiri1684/medicall/utils"
	"github.com/google/uuid"
)

// Booking lifecycle. A booking is active until it reaches completed; a
// completed booking may be reopened, which retracts its settlement.
const (
	BookingStatusPending    = "pending"
	BookingStatusInProgress = "in_progress"
	BookingStatusCompleted  = "completed"
)

var BookingStatuses = []string{BookingStatusPending, BookingStatusInProgress, BookingStatusCompleted}

type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PatientID  uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`

	// Location snapshots taken at booking time; never updated afterwards.
	PatientLocation  utils.Point `gorm:"type:varchar(64);not null" json:"patient_location"`
	ProviderLocation utils.Point `gorm:"type:varchar(64);not null" json:"provider_location"`

	DistanceMeters float64 `gorm:"not null" json:"distance_meters"`
	Status         string  `gorm:"size:20;not null;default:'pending'" json:"status"`
	Succeeded      bool    `gorm:"not null;default:false" json:"succeeded"`

	Patient  Patient  `gorm:"foreignkey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
	Provider Provider `gorm:"foreignkey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidBookingStatus(status string) bool {
	for _, known := range BookingStatuses {
		if status == known {
			return true
		}
	}
	return false
}

// Active reports whether the booking still blocks the patient from
// creating another one.
func (b Booking) Active() bool {
	return b.Status != BookingStatusCompleted
}
