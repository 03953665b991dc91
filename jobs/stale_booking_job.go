package jobs

import (
	"log"
	"time"

	config "github.com/anjiri1684/medicall/configs"
	"github.com/anjiri1684/medicall/database"
	"github.com/anjiri1684/medicall/models"
)

// CheckForStaleBookings flags pending bookings that nobody has moved
// forward. They keep their provider hidden from proximity search, so
// operators need to chase them up.
func CheckForStaleBookings() {
	log.Println("Running job: CheckForStaleBookings...")

	staleHours := config.ConfigFloat("STALE_BOOKING_HOURS", 24)
	cutoff := time.Now().Add(-time.Duration(staleHours * float64(time.Hour)))

	var staleBookings []models.Booking
	err := database.DB.
		Where("status = ? AND created_at < ?", models.BookingStatusPending, cutoff).
		Find(&staleBookings).Error
	if err != nil {
		log.Printf("Error checking for stale bookings: %v", err)
		return
	}

	for _, booking := range staleBookings {
		log.Printf("⚠️ Booking %s has been pending since %s (patient %s, provider %s)",
			booking.ID, booking.CreatedAt.Format(time.RFC3339), booking.PatientID, booking.ProviderID)
	}
}
