package database

import (
	"fmt"
	"log"

	config "github.com/anjiri1684/medicall/configs"
	"github.com/anjiri1684/medicall/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.Patient{},
		&models.Provider{},
		&models.Booking{},
		&models.SettlementRecord{},
		&models.ChatMessage{},
		&models.HealthRecord{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}

	// One non-terminal booking per patient. The handler pre-checks for a
	// friendly message, but this index is what makes the invariant hold
	// under concurrent create requests.
	err = DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_one_active_per_patient
		ON bookings (patient_id) WHERE status <> 'completed'`).Error
	if err != nil {
		log.Fatalf("🔥 Failed to create active-booking index: %v", err)
	}

	err = DB.Exec(`CREATE INDEX IF NOT EXISTS idx_chat_messages_booking_created
		ON chat_messages (booking_id, created_at)`).Error
	if err != nil {
		log.Fatalf("🔥 Failed to create chat index: %v", err)
	}

	fmt.Println("✅ Database migration successful")
}
