package schedule

import "time"

// DateLayout is the calendar-day format used for booking dates.
const DateLayout = "2006-01-02"

// timeLayout is the wall-clock format slot boundaries are compared in.
// Zero-padded HH:MM:SS strings compare correctly with string ordering.
const timeLayout = "15:04:05"

// Slot is one of the fixed daily booking intervals. The set is static and
// shared by all rooms.
type Slot struct {
	Name string
	End  string // end-of-slot boundary, HH:MM:SS
}

var slots = []Slot{
	{Name: "8-10", End: "10:00:00"},
	{Name: "10-12", End: "12:00:00"},
	{Name: "13-15", End: "15:00:00"},
	{Name: "15-17", End: "17:00:00"},
}

// Slots returns all slots in day order.
func Slots() []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

// SlotEnd returns the end boundary for a slot name.
func SlotEnd(name string) (string, bool) {
	for _, s := range slots {
		if s.Name == name {
			return s.End, true
		}
	}
	return "", false
}

// ValidSlot reports whether name is one of the fixed slots.
func ValidSlot(name string) bool {
	_, ok := SlotEnd(name)
	return ok
}

// Ended reports whether the slot's end boundary has been reached.
// The boundary is inclusive: at exactly 10:00:00 the "8-10" slot has ended.
func Ended(slotName string, now time.Time) bool {
	end, ok := SlotEnd(slotName)
	if !ok {
		return false
	}
	return now.Format(timeLayout) >= end
}

// RemainingSlots returns the slots whose end boundary is strictly after now.
func RemainingSlots(now time.Time) []Slot {
	clock := now.Format(timeLayout)
	var out []Slot
	for _, s := range slots {
		if clock < s.End {
			out = append(out, s)
		}
	}
	return out
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
