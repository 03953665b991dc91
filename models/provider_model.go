package models

import (
	"time"

	"github.com/anjiri1684/medicall/utils"
	"github.com/google/uuid"
)

// Provider kinds offered on the platform.
const (
	ProviderKindDoctor       = "doctor"
	ProviderKindNurse        = "nurse"
	ProviderKindPsychologist = "psychologist"
)

var ProviderKinds = []string{ProviderKindDoctor, ProviderKindNurse, ProviderKindPsychologist}

type Provider struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Kind     string    `gorm:"size:20;not null" json:"kind"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Username string    `gorm:"size:100;not null;unique" json:"username"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Phone    string    `gorm:"size:20;not null;unique" json:"phone"`
	Password string    `gorm:"not null" json:"-"`

	// Price is the listed fee for one visit; settlement defaults start here.
	Price float64 `gorm:"type:numeric(11,2);not null" json:"price"`

	// Discoverable controls whether the provider appears in proximity
	// search. Cleared while the provider has an active booking.
	Discoverable bool        `gorm:"not null;default:false" json:"discoverable"`
	Location     utils.Point `gorm:"type:varchar(64);not null" json:"location"`
	PhotoURL     *string     `gorm:"size:255" json:"photo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidProviderKind(kind string) bool {
	for _, known := range ProviderKinds {
		if kind == known {
			return true
		}
	}
	return false
}
