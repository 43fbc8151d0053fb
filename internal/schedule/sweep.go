package schedule

import (
	"time"

	"room-booking-backend/internal/models"
)

// Cancellation reasons written by the expiry sweep.
const (
	ReasonDateExpired = "No approval before date passed"
	ReasonTimeExpired = "No approval before time passed"
)

// ClassifyExpired splits stale Pending bookings into the two expiry
// classes. A booking is date-expired when its calendar day is before
// today, and time-expired when it is dated today and its slot's end
// boundary has been reached. Date expiry takes precedence. Bookings in any
// other status, or matching neither rule, are left alone.
//
// This is the pure decision half of the sweep; callers apply the result to
// the ledger.
func ClassifyExpired(bookings []models.Booking, now time.Time) (dateExpired, timeExpired []uint) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, b := range bookings {
		if b.Status != models.BookingPending {
			continue
		}

		d := b.BookingDate
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())

		if day.Before(today) {
			dateExpired = append(dateExpired, b.ID)
			continue
		}
		if day.Equal(today) && Ended(b.TimeSlot, now) {
			timeExpired = append(timeExpired, b.ID)
		}
	}
	return dateExpired, timeExpired
}
