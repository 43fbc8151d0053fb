package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP status codes with errors.Is.
var (
	ErrUsernameTaken    = errors.New("username already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInvalidRefresh   = errors.New("invalid or revoked refresh token")
	ErrRoomNotFound     = errors.New("room not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrDuplicateBooking = errors.New("you already have an active booking today (Pending or Approved)")
	ErrSlotTaken        = errors.New("this time slot is already booked or pending approval")
	ErrInvalidSlot      = errors.New("unknown time slot")
	ErrNotOwner         = errors.New("you cannot cancel someone else's booking")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrNotPending       = errors.New("booking has already been decided")
	ErrRoomInUse        = errors.New("room has active (Pending/Approved) bookings today")
	ErrInvalidDecision  = errors.New("decision must be Approved or Rejected")
	ErrNoUpdates        = errors.New("no fields provided for update")
)
