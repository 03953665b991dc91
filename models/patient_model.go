package models

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Username string    `gorm:"size:100;not null;unique" json:"username"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Phone    string    `gorm:"size:20;not null;unique" json:"phone"`
	Password string    `gorm:"not null" json:"-"`

	Gender    *string    `gorm:"size:20" json:"gender"`
	BirthDate *time.Time `json:"birth_date"`
	PhotoURL  *string    `gorm:"size:255" json:"photo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
