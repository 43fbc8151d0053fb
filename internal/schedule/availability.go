package schedule

import (
	"sort"
	"strings"
	"time"

	"room-booking-backend/internal/models"
)

// Derived statuses. Computed fresh per request from the ledger and the
// clock, never persisted.
const (
	StatusFree     = "Free"
	StatusReserved = "Reserved"
	StatusDisabled = "Disabled"
	StatusPending  = "Pending"
	StatusOnHold   = "On Hold"
)

// SlotStatus is one row of the per-slot detail view for a single room.
type SlotStatus struct {
	TimeSlot string `json:"time_slot"`
	Status   string `json:"status"`
}

// GroupByRoom indexes today's bookings by room id. Built once per request.
func GroupByRoom(bookings []models.Booking) map[uint][]models.Booking {
	byRoom := make(map[uint][]models.Booking)
	for _, b := range bookings {
		byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
	}
	return byRoom
}

// DeriveRoomStatus computes the display status for one room from its
// administrative flag, today's bookings and the current time.
//
// Precedence: an administrative "disabled" flag always wins. After the last
// slot of the day has ended, non-staff viewers see Disabled (nothing left to
// book) while staff see the operational picture (Reserved if anything was
// booked today, else Free). Otherwise the room is Reserved only when every
// slot that can still be booked is occupied by an active booking.
func DeriveRoomStatus(room models.Room, todays []models.Booking, now time.Time, staffViewer bool) string {
	if strings.EqualFold(room.Status, models.RoomDisabled) {
		return StatusDisabled
	}

	active := activeOnly(todays)

	remaining := RemainingSlots(now)
	if len(remaining) == 0 {
		if staffViewer {
			if len(active) > 0 {
				return StatusReserved
			}
			return StatusFree
		}
		return StatusDisabled
	}

	occupied := make(map[string]bool, len(active))
	for _, b := range active {
		occupied[b.TimeSlot] = true
	}

	for _, s := range remaining {
		if !occupied[s.Name] {
			return StatusFree
		}
	}
	return StatusReserved
}

// SlotBoard computes the per-slot detail view for a single room/day. Only
// the most recently created booking per slot counts; older superseded rows
// are ignored even if still Pending. A Pending slot shows as Pending to its
// owner and On Hold to everyone else.
func SlotBoard(todays []models.Booking, viewerID uint) []SlotStatus {
	ordered := make([]models.Booking, len(todays))
	copy(ordered, todays)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].ID > ordered[j].ID
	})

	latestBySlot := make(map[string]models.Booking)
	for _, b := range ordered {
		if _, seen := latestBySlot[b.TimeSlot]; !seen {
			latestBySlot[b.TimeSlot] = b
		}
	}

	board := make([]SlotStatus, 0, len(slots))
	for _, s := range slots {
		booking, ok := latestBySlot[s.Name]
		if !ok {
			board = append(board, SlotStatus{TimeSlot: s.Name, Status: StatusFree})
			continue
		}
		switch booking.Status {
		case models.BookingApproved:
			board = append(board, SlotStatus{TimeSlot: s.Name, Status: StatusReserved})
		case models.BookingPending:
			status := StatusOnHold
			if booking.UserID == viewerID {
				status = StatusPending
			}
			board = append(board, SlotStatus{TimeSlot: s.Name, Status: status})
		default: // Rejected, Cancelled
			board = append(board, SlotStatus{TimeSlot: s.Name, Status: StatusFree})
		}
	}
	return board
}

func activeOnly(bookings []models.Booking) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if b.IsActive() {
			out = append(out, b)
		}
	}
	return out
}
