package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettlementRecord is the financial closing entry for one completed
// booking. Exactly one exists per booking; reopening the booking deletes
// it again.
type SettlementRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;unique" json:"booking_id"`
	PatientID  uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`

	ServiceFee   float64 `gorm:"type:numeric(11,2);not null" json:"service_fee"`
	TransportFee float64 `gorm:"type:numeric(11,2);not null" json:"transport_fee"`
	PlatformFee  float64 `gorm:"type:numeric(11,2);not null" json:"platform_fee"`

	// Settled flips once the platform fee has been remitted to the operator.
	Settled   bool `gorm:"not null;default:false" json:"settled"`
	Succeeded bool `gorm:"not null;default:false" json:"succeeded"`

	// IllnessName is empty-string when WasIll is set without a name and
	// null whenever WasIll is false.
	WasIll      bool    `gorm:"not null;default:false" json:"was_ill"`
	IllnessName *string `gorm:"size:255" json:"illness_name"`
	Note        *string `gorm:"type:text" json:"note"`

	ReceiptURL *string `gorm:"size:255" json:"receipt_url"`

	Booking  Booking  `gorm:"foreignkey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	Patient  Patient  `gorm:"foreignkey:PatientID" json:"-"`
	Provider Provider `gorm:"foreignkey:ProviderID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the id client-side so it is usable right after the
// insert, independent of the database's default.
func (s *SettlementRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TotalFee is what the patient pays the provider directly.
func (s SettlementRecord) TotalFee() float64 {
	return s.ServiceFee + s.TransportFee
}
