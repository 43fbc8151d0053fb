package service

import (
	"errors"
	"fmt"
	"time"

	"room-booking-backend/internal/models"
	"room-booking-backend/internal/schedule"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CancelledByStudent is the reject_reason written on owner cancellation.
const CancelledByStudent = "Cancelled by Student"

// BookingStore is the persistence surface BookingService needs.
type BookingStore interface {
	Create(booking *models.Booking) error
	GetByID(id uint) (*models.Booking, error)
	UserHasActiveOn(userID uint, date string) (bool, error)
	SlotTaken(roomID uint, date, slot string) (bool, error)
	ListByUser(userID uint) ([]models.Booking, error)
	ListPending() ([]models.Booking, error)
	ListDecidedOn(date string) ([]models.Booking, error)
	ListAllOn(date string) ([]models.Booking, error)
	CancelPending(ids []uint, reason string) error
	Cancel(id uint, reason string) error
	Decide(id uint, status string, approverID uint, reason *string) error
}

// RoomFinder resolves room ids on booking creation.
type RoomFinder interface {
	GetByID(id uint) (*models.Room, error)
}

type BookingService struct {
	bookings BookingStore
	rooms    RoomFinder
	audit    AuditStore
	clock    schedule.Clock
	logger   *zap.Logger
}

func NewBookingService(bookings BookingStore, rooms RoomFinder, audit AuditStore, clock schedule.Clock, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		rooms:    rooms,
		audit:    audit,
		clock:    clock,
		logger:   logger,
	}
}

// Create admits a new booking request for today. Two existence checks run
// before the insert: the user may hold only one active booking per day
// system-wide, and a room/slot/day carries at most one active booking.
// The checks and the insert are not atomic (accepted race, see DESIGN.md).
func (s *BookingService) Create(userID, roomID uint, slot string, reason *string) (*models.Booking, error) {
	if !schedule.ValidSlot(slot) {
		return nil, ErrInvalidSlot
	}

	if _, err := s.rooms.GetByID(roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}

	now := s.clock.Now()
	date := now.Format(schedule.DateLayout)

	hasActive, err := s.bookings.UserHasActiveOn(userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check user bookings: %w", err)
	}
	if hasActive {
		return nil, ErrDuplicateBooking
	}

	taken, err := s.bookings.SlotTaken(roomID, date, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	if taken {
		return nil, ErrSlotTaken
	}

	booking := &models.Booking{
		UserID:      userID,
		RoomID:      roomID,
		BookingDate: dayOf(now),
		TimeSlot:    slot,
		Reason:      reason,
		Status:      models.BookingPending,
	}

	if err := s.bookings.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, nil
}

// BookingView is one row of a student's booking list.
type BookingView struct {
	ID           uint    `json:"booking_id"`
	RoomName     string  `json:"room_name"`
	BookingDate  string  `json:"booking_date"`
	TimeSlot     string  `json:"time_slot"`
	Status       string  `json:"status"`
	Reason       *string `json:"reason"`
	RejectReason *string `json:"reject_reason"`
	ApproverName *string `json:"approver_name"`
}

// ListMine sweeps the caller's stale Pending bookings and returns the
// post-sweep list. Expiry is decided by the pure classifier; date-expired
// rows are cancelled before time-expired ones. If either bulk update fails
// the sweep is abandoned and the pre-sweep snapshot returned, keeping the
// read available.
func (s *BookingService) ListMine(userID uint) ([]BookingView, error) {
	rows, err := s.bookings.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}

	dateExpired, timeExpired := schedule.ClassifyExpired(rows, s.clock.Now())
	if len(dateExpired) == 0 && len(timeExpired) == 0 {
		return bookingViews(rows), nil
	}

	if err := s.bookings.CancelPending(dateExpired, schedule.ReasonDateExpired); err != nil {
		s.logger.Error("auto-cancel (date) update failed", zap.Uint("user_id", userID), zap.Error(err))
		return bookingViews(rows), nil
	}
	if err := s.bookings.CancelPending(timeExpired, schedule.ReasonTimeExpired); err != nil {
		s.logger.Error("auto-cancel (time) update failed", zap.Uint("user_id", userID), zap.Error(err))
		return bookingViews(rows), nil
	}

	rows, err = s.bookings.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-fetch bookings: %w", err)
	}
	return bookingViews(rows), nil
}

// CancelResult describes an owner cancellation.
type CancelResult struct {
	ID             uint   `json:"id"`
	RoomID         uint   `json:"room_id"`
	TimeSlot       string `json:"time_slot"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

// Cancel cancels the caller's own booking. Cancelling an already-Cancelled
// booking is a conflict and never mutates state.
func (s *BookingService) Cancel(bookingID, userID uint) (*CancelResult, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	if booking.UserID != userID {
		return nil, ErrNotOwner
	}
	if booking.Status == models.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}

	if err := s.bookings.Cancel(bookingID, CancelledByStudent); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	return &CancelResult{
		ID:             booking.ID,
		RoomID:         booking.RoomID,
		TimeSlot:       booking.TimeSlot,
		PreviousStatus: booking.Status,
		NewStatus:      models.BookingCancelled,
	}, nil
}

// RequestView is one row of the lecturer's pending-request queue.
type RequestView struct {
	ID          uint    `json:"booking_id"`
	StudentName string  `json:"student_name"`
	RoomName    string  `json:"room_name"`
	BookingDate string  `json:"booking_date"`
	TimeSlot    string  `json:"time_slot"`
	Reason      *string `json:"reason"`
	Status      string  `json:"status"`
}

// PendingRequests lists all Pending bookings for lecturer review.
func (s *BookingService) PendingRequests() ([]RequestView, error) {
	rows, err := s.bookings.ListPending()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending bookings: %w", err)
	}

	views := make([]RequestView, 0, len(rows))
	for _, b := range rows {
		views = append(views, RequestView{
			ID:          b.ID,
			StudentName: b.User.Name,
			RoomName:    b.Room.Name,
			BookingDate: b.BookingDate.Format(schedule.DateLayout),
			TimeSlot:    b.TimeSlot,
			Reason:      b.Reason,
			Status:      b.Status,
		})
	}
	return views, nil
}

// Decide records a lecturer's approval or rejection of a Pending booking.
func (s *BookingService) Decide(bookingID, approverID uint, decision string, reason *string) (string, error) {
	if decision != models.BookingApproved && decision != models.BookingRejected {
		return "", ErrInvalidDecision
	}

	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrBookingNotFound
		}
		return "", fmt.Errorf("failed to fetch booking: %w", err)
	}

	if booking.Status != models.BookingPending {
		return "", ErrNotPending
	}

	if err := s.bookings.Decide(bookingID, decision, approverID, reason); err != nil {
		return "", fmt.Errorf("failed to update booking: %w", err)
	}

	approverIDPtr := &approverID
	_ = s.audit.CreateAuditLog(approverIDPtr, "booking_decision",
		fmt.Sprintf("Booking %d set to %s", bookingID, decision))

	return decision, nil
}

// HistoryView is one row of the lecturer's decided-today history.
type HistoryView struct {
	ID           uint    `json:"booking_id"`
	StudentName  string  `json:"student_name"`
	RoomName     string  `json:"room_name"`
	BookingDate  string  `json:"booking_date"`
	TimeSlot     string  `json:"time_slot"`
	Status       string  `json:"status"`
	Reason       *string `json:"reason"`
	RejectReason *string `json:"reject_reason"`
}

// DecidedToday lists today's Approved/Rejected bookings.
func (s *BookingService) DecidedToday() ([]HistoryView, error) {
	date := s.clock.Now().Format(schedule.DateLayout)
	rows, err := s.bookings.ListDecidedOn(date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch decided bookings: %w", err)
	}

	views := make([]HistoryView, 0, len(rows))
	for _, b := range rows {
		views = append(views, HistoryView{
			ID:           b.ID,
			StudentName:  b.User.Name,
			RoomName:     b.Room.Name,
			BookingDate:  b.BookingDate.Format(schedule.DateLayout),
			TimeSlot:     b.TimeSlot,
			Status:       b.Status,
			Reason:       b.Reason,
			RejectReason: b.RejectReason,
		})
	}
	return views, nil
}

// StaffHistoryView is one row of the staff's full daily history.
type StaffHistoryView struct {
	ID           uint    `json:"booking_id"`
	StudentID    uint    `json:"student_id"`
	StudentName  string  `json:"student_name"`
	RoomID       uint    `json:"room_id"`
	RoomName     string  `json:"room_name"`
	RoomStatus   string  `json:"room_status"`
	LecturerID   *uint   `json:"lecturer_id"`
	LecturerName *string `json:"lecturer_name"`
	BookingDate  string  `json:"booking_date"`
	TimeSlot     string  `json:"time_slot"`
	Status       string  `json:"status"`
	Reason       *string `json:"reason"`
	RejectReason *string `json:"reject_reason"`
	CreatedTime  string  `json:"created_time"`
}

// HistoryToday lists every booking made for today across all students and
// rooms, for staff oversight.
func (s *BookingService) HistoryToday() ([]StaffHistoryView, error) {
	date := s.clock.Now().Format(schedule.DateLayout)
	rows, err := s.bookings.ListAllOn(date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking history: %w", err)
	}

	views := make([]StaffHistoryView, 0, len(rows))
	for _, b := range rows {
		view := StaffHistoryView{
			ID:           b.ID,
			StudentID:    b.UserID,
			StudentName:  b.User.Name,
			RoomID:       b.RoomID,
			RoomName:     b.Room.Name,
			RoomStatus:   b.Room.Status,
			LecturerID:   b.ApproverID,
			BookingDate:  b.BookingDate.Format(schedule.DateLayout),
			TimeSlot:     b.TimeSlot,
			Status:       b.Status,
			Reason:       b.Reason,
			RejectReason: b.RejectReason,
			CreatedTime:  b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if b.Approver != nil {
			view.LecturerName = &b.Approver.Name
		}
		views = append(views, view)
	}
	return views, nil
}

func bookingViews(rows []models.Booking) []BookingView {
	views := make([]BookingView, 0, len(rows))
	for _, b := range rows {
		view := BookingView{
			ID:           b.ID,
			RoomName:     b.Room.Name,
			BookingDate:  b.BookingDate.Format(schedule.DateLayout),
			TimeSlot:     b.TimeSlot,
			Status:       b.Status,
			Reason:       b.Reason,
			RejectReason: b.RejectReason,
		}
		if b.Approver != nil {
			view.ApproverName = &b.Approver.Name
		}
		views = append(views, view)
	}
	return views
}

// dayOf truncates an instant to its calendar day.
func dayOf(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
