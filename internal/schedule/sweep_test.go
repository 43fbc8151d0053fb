package schedule

import (
	"testing"
	"time"

	"room-booking-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func datedBooking(id uint, date time.Time, slot, status string) models.Booking {
	return models.Booking{
		ID:          id,
		BookingDate: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
		TimeSlot:    slot,
		Status:      status,
	}
}

func TestClassifyExpired(t *testing.T) {
	now := at(10, 0, 0)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	t.Run("pending from a past day is date-expired", func(t *testing.T) {
		dateExp, timeExp := ClassifyExpired([]models.Booking{
			datedBooking(1, yesterday, "13-15", models.BookingPending),
		}, now)
		assert.Equal(t, []uint{1}, dateExp)
		assert.Empty(t, timeExp)
	})

	t.Run("pending today past its slot end is time-expired", func(t *testing.T) {
		// current time is exactly the 8-10 boundary: inclusive
		dateExp, timeExp := ClassifyExpired([]models.Booking{
			datedBooking(1, now, "8-10", models.BookingPending),
		}, now)
		assert.Empty(t, dateExp)
		assert.Equal(t, []uint{1}, timeExp)
	})

	t.Run("pending today before its slot end survives", func(t *testing.T) {
		dateExp, timeExp := ClassifyExpired([]models.Booking{
			datedBooking(1, now, "8-10", models.BookingPending),
		}, at(9, 59, 59))
		assert.Empty(t, dateExp)
		assert.Empty(t, timeExp)
	})

	t.Run("date expiry takes precedence over time expiry", func(t *testing.T) {
		// slot ended AND day passed: only the date rule fires
		dateExp, timeExp := ClassifyExpired([]models.Booking{
			datedBooking(1, yesterday, "8-10", models.BookingPending),
		}, now)
		assert.Equal(t, []uint{1}, dateExp)
		assert.Empty(t, timeExp)
	})

	t.Run("non-pending statuses are never touched", func(t *testing.T) {
		dateExp, timeExp := ClassifyExpired([]models.Booking{
			datedBooking(1, yesterday, "8-10", models.BookingApproved),
			datedBooking(2, yesterday, "8-10", models.BookingRejected),
			datedBooking(3, yesterday, "8-10", models.BookingCancelled),
		}, now)
		assert.Empty(t, dateExp)
		assert.Empty(t, timeExp)
	})

	t.Run("future bookings survive", func(t *testing.T) {
		dateExp, timeExp := ClassifyExpired([]models.Booking{
			datedBooking(1, tomorrow, "8-10", models.BookingPending),
		}, now)
		assert.Empty(t, dateExp)
		assert.Empty(t, timeExp)
	})

	t.Run("mixed batch splits by reason", func(t *testing.T) {
		dateExp, timeExp := ClassifyExpired([]models.Booking{
			datedBooking(1, yesterday, "13-15", models.BookingPending),
			datedBooking(2, now, "8-10", models.BookingPending),
			datedBooking(3, now, "15-17", models.BookingPending),
		}, now)
		assert.Equal(t, []uint{1}, dateExp)
		assert.Equal(t, []uint{2}, timeExp)
	})
}
