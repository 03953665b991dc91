package services

import (
	"testing"

	"github.com/anjiri1684/medicall/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openSettlementDB stands up an in-memory database with just the tables
// Settle and Retract touch. The gen_random_uuid defaults in the model tags
// are postgres-only, so the tables are created by hand here.
func openSettlementDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	ddl := []string{
		`CREATE TABLE settlement_records (
			id text PRIMARY KEY,
			booking_id text NOT NULL UNIQUE,
			patient_id text NOT NULL,
			provider_id text NOT NULL,
			service_fee numeric NOT NULL,
			transport_fee numeric NOT NULL,
			platform_fee numeric NOT NULL,
			settled boolean NOT NULL DEFAULT false,
			succeeded boolean NOT NULL DEFAULT false,
			was_ill boolean NOT NULL DEFAULT false,
			illness_name text,
			note text,
			receipt_url text,
			created_at datetime,
			updated_at datetime
		)`,
		`CREATE TABLE health_records (
			id text PRIMARY KEY,
			patient_id text NOT NULL,
			illness_name text NOT NULL,
			date datetime NOT NULL,
			created_at datetime,
			updated_at datetime
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	return db
}

func testBooking() (models.Booking, models.Provider) {
	booking := models.Booking{
		ID:             uuid.New(),
		PatientID:      uuid.New(),
		ProviderID:     uuid.New(),
		DistanceMeters: 5500,
		Status:         models.BookingStatusCompleted,
		Succeeded:      true,
	}
	provider := models.Provider{ID: booking.ProviderID, Price: 50000}
	return booking, provider
}

func TestSettleTwiceKeepsOneRecord(t *testing.T) {
	db := openSettlementDB(t)
	booking, provider := testBooking()
	ill := SettlementOverrides{WasIll: boolPtr(true), IllnessName: strPtr("flu")}

	first, created, err := Settle(db, booking, provider, ill)
	if err != nil {
		t.Fatalf("first settle: %v", err)
	}
	if !created {
		t.Error("first settle should create the record")
	}

	second, created, err := Settle(db, booking, provider, ill)
	if err != nil {
		t.Fatalf("second settle: %v", err)
	}
	if created {
		t.Error("second settle should update, not create")
	}
	if second.ID != first.ID {
		t.Errorf("second settle produced record %s, want existing %s", second.ID, first.ID)
	}

	var records int64
	if err := db.Model(&models.SettlementRecord{}).Where("booking_id = ?", booking.ID).Count(&records).Error; err != nil {
		t.Fatalf("count settlements: %v", err)
	}
	if records != 1 {
		t.Fatalf("settlement records = %d, want 1", records)
	}

	var notes int64
	if err := db.Model(&models.HealthRecord{}).Where("patient_id = ?", booking.PatientID).Count(&notes).Error; err != nil {
		t.Fatalf("count health records: %v", err)
	}
	if notes != 1 {
		t.Errorf("health records = %d, want only the one from the first settlement", notes)
	}
}

func TestRetractRemovesSettlement(t *testing.T) {
	db := openSettlementDB(t)
	booking, provider := testBooking()

	if _, _, err := Settle(db, booking, provider, SettlementOverrides{}); err != nil {
		t.Fatalf("settle: %v", err)
	}

	if err := Retract(db, booking.ID); err != nil {
		t.Fatalf("retract: %v", err)
	}

	var records int64
	if err := db.Model(&models.SettlementRecord{}).Where("booking_id = ?", booking.ID).Count(&records).Error; err != nil {
		t.Fatalf("count settlements: %v", err)
	}
	if records != 0 {
		t.Errorf("settlement records = %d after retract, want 0", records)
	}

	// Retracting a booking that has no settlement is fine.
	if err := Retract(db, booking.ID); err != nil {
		t.Errorf("second retract: %v", err)
	}
}

func TestResettleKeepsExistingNote(t *testing.T) {
	db := openSettlementDB(t)
	booking, provider := testBooking()

	if _, _, err := Settle(db, booking, provider, SettlementOverrides{Note: strPtr("paid cash")}); err != nil {
		t.Fatalf("settle with note: %v", err)
	}

	record, _, err := Settle(db, booking, provider, SettlementOverrides{})
	if err != nil {
		t.Fatalf("re-settle without note: %v", err)
	}
	if record.Note == nil || *record.Note != "paid cash" {
		t.Fatalf("note = %v, want the earlier note kept", record.Note)
	}

	record, _, err = Settle(db, booking, provider, SettlementOverrides{Note: strPtr("transferred")})
	if err != nil {
		t.Fatalf("re-settle with new note: %v", err)
	}
	if record.Note == nil || *record.Note != "transferred" {
		t.Errorf("note = %v, want the supplied replacement", record.Note)
	}
}
