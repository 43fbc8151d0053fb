package service

import (
	"testing"
	"time"

	"room-booking-backend/internal/models"
	"room-booking-backend/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeLedger is an in-memory stand-in for the booking repository. It
// satisfies BookingStore, RoomBookingStore and SweepStore.
type fakeLedger struct {
	rows      []models.Booking
	nextID    uint
	cancelErr error
}

func (f *fakeLedger) Create(b *models.Booking) error {
	f.nextID++
	b.ID = f.nextID
	f.rows = append(f.rows, *b)
	return nil
}

func (f *fakeLedger) GetByID(id uint) (*models.Booking, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			b := f.rows[i]
			return &b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLedger) UserHasActiveOn(userID uint, date string) (bool, error) {
	for i := range f.rows {
		b := &f.rows[i]
		if b.UserID == userID && b.BookingDate.Format(schedule.DateLayout) == date && b.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) SlotTaken(roomID uint, date, slot string) (bool, error) {
	for i := range f.rows {
		b := &f.rows[i]
		if b.RoomID == roomID && b.BookingDate.Format(schedule.DateLayout) == date &&
			b.TimeSlot == slot && b.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) RoomHasActiveOn(roomID uint, date string) (bool, error) {
	for i := range f.rows {
		b := &f.rows[i]
		if b.RoomID == roomID && b.BookingDate.Format(schedule.DateLayout) == date && b.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) ActiveByDate(date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.rows {
		if b.BookingDate.Format(schedule.DateLayout) == date && b.IsActive() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListByUser(userID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.rows {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListForRoomOn(roomID uint, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.rows {
		if b.RoomID == roomID && b.BookingDate.Format(schedule.DateLayout) == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListPending() ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.rows {
		if b.Status == models.BookingPending {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListPendingThrough(date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.rows {
		if b.Status == models.BookingPending && b.BookingDate.Format(schedule.DateLayout) <= date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListDecidedOn(date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.rows {
		if b.BookingDate.Format(schedule.DateLayout) == date &&
			(b.Status == models.BookingApproved || b.Status == models.BookingRejected) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListAllOn(date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.rows {
		if b.BookingDate.Format(schedule.DateLayout) == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) CancelPending(ids []uint, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	for _, id := range ids {
		for i := range f.rows {
			if f.rows[i].ID == id && f.rows[i].Status == models.BookingPending {
				f.rows[i].Status = models.BookingCancelled
				r := reason
				f.rows[i].RejectReason = &r
			}
		}
	}
	return nil
}

func (f *fakeLedger) Cancel(id uint, reason string) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Status = models.BookingCancelled
			r := reason
			f.rows[i].RejectReason = &r
		}
	}
	return nil
}

func (f *fakeLedger) Decide(id uint, status string, approverID uint, reason *string) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Status = status
			f.rows[i].ApproverID = &approverID
			f.rows[i].RejectReason = reason
		}
	}
	return nil
}

type fakeRoomFinder struct {
	rooms map[uint]*models.Room
}

func (f *fakeRoomFinder) GetByID(id uint) (*models.Room, error) {
	if room, ok := f.rooms[id]; ok {
		return room, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type noopAudit struct{}

func (noopAudit) CreateAuditLog(userID *uint, action, details string) error { return nil }

func testNow() time.Time {
	return time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
}

func newBookingService(ledger *fakeLedger, now time.Time) *BookingService {
	rooms := &fakeRoomFinder{rooms: map[uint]*models.Room{
		1: {ID: 1, Name: "A101", Status: models.RoomAvailable},
	}}
	return NewBookingService(ledger, rooms, noopAudit{}, schedule.FixedClock{Instant: now}, zap.NewNop())
}

func seeded(status string, date time.Time, slot string, userID, roomID uint) models.Booking {
	return models.Booking{
		UserID:      userID,
		RoomID:      roomID,
		BookingDate: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
		TimeSlot:    slot,
		Status:      status,
		Room:        models.Room{ID: roomID, Name: "A101"},
	}
}

func TestBookingCreate(t *testing.T) {
	now := testNow()

	t.Run("rejects unknown slot", func(t *testing.T) {
		svc := newBookingService(&fakeLedger{}, now)
		_, err := svc.Create(7, 1, "18-20", nil)
		assert.ErrorIs(t, err, ErrInvalidSlot)
	})

	t.Run("rejects unknown room", func(t *testing.T) {
		svc := newBookingService(&fakeLedger{}, now)
		_, err := svc.Create(7, 99, "13-15", nil)
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("one active booking per user per day", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 10}
		ledger.rows = append(ledger.rows, seeded(models.BookingApproved, now, "8-10", 7, 1))
		ledger.rows[0].ID = 10

		svc := newBookingService(ledger, now)
		_, err := svc.Create(7, 1, "13-15", nil)
		assert.ErrorIs(t, err, ErrDuplicateBooking)
	})

	t.Run("one occupant per room slot day", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 10}
		ledger.rows = append(ledger.rows, seeded(models.BookingPending, now, "13-15", 8, 1))
		ledger.rows[0].ID = 10

		svc := newBookingService(ledger, now)
		_, err := svc.Create(7, 1, "13-15", nil)
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("admits a clean request as Pending for today", func(t *testing.T) {
		ledger := &fakeLedger{}
		svc := newBookingService(ledger, now)

		reason := "project meeting"
		booking, err := svc.Create(7, 1, "13-15", &reason)
		require.NoError(t, err)

		assert.Equal(t, models.BookingPending, booking.Status)
		assert.Equal(t, "2026-03-10", booking.BookingDate.Format(schedule.DateLayout))
		assert.Equal(t, "13-15", booking.TimeSlot)
		assert.NotZero(t, booking.ID)
	})

	t.Run("a cancelled booking frees the user's quota", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 10}
		ledger.rows = append(ledger.rows, seeded(models.BookingCancelled, now, "8-10", 7, 1))
		ledger.rows[0].ID = 10

		svc := newBookingService(ledger, now)
		_, err := svc.Create(7, 1, "13-15", nil)
		assert.NoError(t, err)
	})
}

func TestBookingListMine(t *testing.T) {
	now := testNow()
	yesterday := now.AddDate(0, 0, -1)

	t.Run("stale pending from yesterday is cancelled with the date reason", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 1}
		ledger.rows = append(ledger.rows, seeded(models.BookingPending, yesterday, "13-15", 7, 1))
		ledger.rows[0].ID = 1

		svc := newBookingService(ledger, now)
		views, err := svc.ListMine(7)
		require.NoError(t, err)
		require.Len(t, views, 1)

		assert.Equal(t, models.BookingCancelled, views[0].Status)
		require.NotNil(t, views[0].RejectReason)
		assert.Equal(t, schedule.ReasonDateExpired, *views[0].RejectReason)
	})

	t.Run("pending today past slot end gets the time reason", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 1}
		ledger.rows = append(ledger.rows, seeded(models.BookingPending, now, "8-10", 7, 1))
		ledger.rows[0].ID = 1

		// exactly at the boundary
		svc := newBookingService(ledger, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
		views, err := svc.ListMine(7)
		require.NoError(t, err)
		require.Len(t, views, 1)

		assert.Equal(t, models.BookingCancelled, views[0].Status)
		require.NotNil(t, views[0].RejectReason)
		assert.Equal(t, schedule.ReasonTimeExpired, *views[0].RejectReason)
	})

	t.Run("fresh bookings pass through untouched", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 1}
		ledger.rows = append(ledger.rows, seeded(models.BookingPending, now, "15-17", 7, 1))
		ledger.rows[0].ID = 1

		svc := newBookingService(ledger, now)
		views, err := svc.ListMine(7)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, models.BookingPending, views[0].Status)
	})

	t.Run("sweep failure returns the pre-sweep snapshot", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 1, cancelErr: assert.AnError}
		ledger.rows = append(ledger.rows, seeded(models.BookingPending, yesterday, "13-15", 7, 1))
		ledger.rows[0].ID = 1

		svc := newBookingService(ledger, now)
		views, err := svc.ListMine(7)
		require.NoError(t, err)
		require.Len(t, views, 1)

		// update failed, so the read still shows the stale Pending row
		assert.Equal(t, models.BookingPending, views[0].Status)
	})
}

func TestBookingCancel(t *testing.T) {
	now := testNow()

	t.Run("unknown booking", func(t *testing.T) {
		svc := newBookingService(&fakeLedger{}, now)
		_, err := svc.Cancel(42, 7)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 1}
		ledger.rows = append(ledger.rows, seeded(models.BookingPending, now, "13-15", 7, 1))
		ledger.rows[0].ID = 1

		svc := newBookingService(ledger, now)
		_, err := svc.Cancel(1, 8)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("cancelling a cancelled booking is a conflict and mutates nothing", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 1}
		row := seeded(models.BookingCancelled, now, "13-15", 7, 1)
		row.ID = 1
		ledger.rows = append(ledger.rows, row)

		svc := newBookingService(ledger, now)
		_, err := svc.Cancel(1, 7)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
		assert.Nil(t, ledger.rows[0].RejectReason)
	})

	t.Run("owner cancellation records the reason", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 1}
		row := seeded(models.BookingApproved, now, "13-15", 7, 1)
		row.ID = 1
		ledger.rows = append(ledger.rows, row)

		svc := newBookingService(ledger, now)
		result, err := svc.Cancel(1, 7)
		require.NoError(t, err)

		assert.Equal(t, models.BookingApproved, result.PreviousStatus)
		assert.Equal(t, models.BookingCancelled, result.NewStatus)
		assert.Equal(t, models.BookingCancelled, ledger.rows[0].Status)
		require.NotNil(t, ledger.rows[0].RejectReason)
		assert.Equal(t, CancelledByStudent, *ledger.rows[0].RejectReason)
	})
}

func TestBookingDecide(t *testing.T) {
	now := testNow()

	t.Run("decision must be Approved or Rejected", func(t *testing.T) {
		svc := newBookingService(&fakeLedger{}, now)
		_, err := svc.Decide(1, 2, "Maybe", nil)
		assert.ErrorIs(t, err, ErrInvalidDecision)
	})

	t.Run("only pending bookings can be decided", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 1}
		row := seeded(models.BookingCancelled, now, "13-15", 7, 1)
		row.ID = 1
		ledger.rows = append(ledger.rows, row)

		svc := newBookingService(ledger, now)
		_, err := svc.Decide(1, 2, models.BookingApproved, nil)
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("approval records the approver", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 1}
		row := seeded(models.BookingPending, now, "13-15", 7, 1)
		row.ID = 1
		ledger.rows = append(ledger.rows, row)

		svc := newBookingService(ledger, now)
		status, err := svc.Decide(1, 2, models.BookingApproved, nil)
		require.NoError(t, err)

		assert.Equal(t, models.BookingApproved, status)
		assert.Equal(t, models.BookingApproved, ledger.rows[0].Status)
		require.NotNil(t, ledger.rows[0].ApproverID)
		assert.Equal(t, uint(2), *ledger.rows[0].ApproverID)
	})

	t.Run("rejection carries the reason", func(t *testing.T) {
		ledger := &fakeLedger{nextID: 1}
		row := seeded(models.BookingPending, now, "13-15", 7, 1)
		row.ID = 1
		ledger.rows = append(ledger.rows, row)

		svc := newBookingService(ledger, now)
		reason := "room needed for exam"
		status, err := svc.Decide(1, 2, models.BookingRejected, &reason)
		require.NoError(t, err)

		assert.Equal(t, models.BookingRejected, status)
		require.NotNil(t, ledger.rows[0].RejectReason)
		assert.Equal(t, reason, *ledger.rows[0].RejectReason)
	})
}
