package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HealthRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PatientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	IllnessName string    `gorm:"size:255;not null" json:"illness_name"`
	Date        time.Time `gorm:"not null" json:"date"`

	Patient Patient `gorm:"foreignkey:PatientID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *HealthRecord) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
