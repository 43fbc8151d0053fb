package repository

import (
	"room-booking-backend/internal/models"

	"gorm.io/gorm"
)

var activeStatuses = []string{models.BookingPending, models.BookingApproved}

// BookingRepository is the query layer over the bookings ledger. Dates are
// passed as YYYY-MM-DD strings, matching the DATE column.
//
// The existence checks used by booking creation are not wrapped in a
// transaction with the insert; two concurrent requests can both pass the
// checks before either inserts (accepted race, see DESIGN.md).
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepo(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking row
func (r *BookingRepository) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ActiveByDate retrieves all Pending/Approved bookings for a calendar day,
// across all rooms. Feeds the availability deriver.
func (r *BookingRepository) ActiveByDate(date string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("booking_date = ? AND status IN ?", date, activeStatuses).
		Find(&bookings).Error
	return bookings, err
}

// UserHasActiveOn reports whether the user holds any Pending/Approved
// booking on the given day
func (r *BookingRepository) UserHasActiveOn(userID uint, date string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("user_id = ? AND booking_date = ? AND status IN ?", userID, date, activeStatuses).
		Count(&count).Error
	return count > 0, err
}

// SlotTaken reports whether a Pending/Approved booking already occupies the
// room/slot/day
func (r *BookingRepository) SlotTaken(roomID uint, date, slot string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("room_id = ? AND booking_date = ? AND time_slot = ? AND status IN ?",
			roomID, date, slot, activeStatuses).
		Count(&count).Error
	return count > 0, err
}

// RoomHasActiveOn reports whether the room has any Pending/Approved booking
// on the given day. Gates room edits and disabling.
func (r *BookingRepository) RoomHasActiveOn(roomID uint, date string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("room_id = ? AND booking_date = ? AND status IN ?", roomID, date, activeStatuses).
		Count(&count).Error
	return count > 0, err
}

// ListByUser retrieves all of a user's bookings, newest first
func (r *BookingRepository) ListByUser(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("user_id = ?", userID).
		Preload("Room").
		Preload("Approver").
		Order("created_at DESC, id DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListForRoomOn retrieves all bookings for a room/day, newest first.
// Feeds the per-slot detail view.
func (r *BookingRepository) ListForRoomOn(roomID uint, date string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("room_id = ? AND booking_date = ?", roomID, date).
		Order("created_at DESC, id DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListPending retrieves all Pending bookings, newest first
func (r *BookingRepository) ListPending() ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("status = ?", models.BookingPending).
		Preload("User").
		Preload("Room").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListPendingThrough retrieves Pending bookings dated on or before the
// given day. Feeds the background sweeper.
func (r *BookingRepository) ListPendingThrough(date string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("status = ? AND booking_date <= ?", models.BookingPending, date).
		Find(&bookings).Error
	return bookings, err
}

// ListDecidedOn retrieves Approved/Rejected bookings for a calendar day,
// newest first
func (r *BookingRepository) ListDecidedOn(date string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("booking_date = ? AND status IN ?", date,
		[]string{models.BookingApproved, models.BookingRejected}).
		Preload("User").
		Preload("Room").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListAllOn retrieves every booking for a calendar day, newest first
func (r *BookingRepository) ListAllOn(date string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("booking_date = ?", date).
		Preload("User").
		Preload("Room").
		Preload("Approver").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// CancelPending bulk-cancels the given bookings with a reason. Each row is
// only touched while still Pending, so a concurrent approval wins.
func (r *BookingRepository) CancelPending(ids []uint, reason string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Booking{}).
		Where("id IN ? AND status = ?", ids, models.BookingPending).
		Updates(map[string]interface{}{
			"status":        models.BookingCancelled,
			"reject_reason": reason,
		}).Error
}

// Cancel cancels a single booking with a reason
func (r *BookingRepository) Cancel(id uint, reason string) error {
	return r.db.Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.BookingCancelled,
			"reject_reason": reason,
		}).Error
}

// Decide records a lecturer decision on a booking
func (r *BookingRepository) Decide(id uint, status string, approverID uint, reason *string) error {
	return r.db.Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"approver_id":   approverID,
			"reject_reason": reason,
		}).Error
}
