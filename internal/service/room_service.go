package service

import (
	"errors"
	"fmt"
	"strings"

	"room-booking-backend/internal/models"
	"room-booking-backend/internal/schedule"

	"gorm.io/gorm"
)

// RoomStore is the persistence surface RoomService needs.
type RoomStore interface {
	GetAll() ([]models.Room, error)
	GetByID(id uint) (*models.Room, error)
	Create(room *models.Room) error
	UpdateFields(id uint, fields map[string]interface{}) error
	UpdateStatus(id uint, status string) error
}

// RoomBookingStore is the slice of the booking ledger the room side reads:
// today's active bookings for status derivation and the active-booking
// guard on edits.
type RoomBookingStore interface {
	ActiveByDate(date string) ([]models.Booking, error)
	ListForRoomOn(roomID uint, date string) ([]models.Booking, error)
	RoomHasActiveOn(roomID uint, date string) (bool, error)
}

type RoomService struct {
	rooms    RoomStore
	bookings RoomBookingStore
	audit    AuditStore
	clock    schedule.Clock
}

func NewRoomService(rooms RoomStore, bookings RoomBookingStore, audit AuditStore, clock schedule.Clock) *RoomService {
	return &RoomService{
		rooms:    rooms,
		bookings: bookings,
		audit:    audit,
		clock:    clock,
	}
}

// RoomView is a room enriched with its derived display status.
type RoomView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Capacity    int     `json:"capacity"`
	Status      string  `json:"status"`
	Image       *string `json:"image"`
}

// List returns all rooms with their status derived for the viewer's role.
func (s *RoomService) List(viewerRole string) ([]RoomView, error) {
	now := s.clock.Now()

	rooms, err := s.rooms.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rooms: %w", err)
	}

	active, err := s.bookings.ActiveByDate(now.Format(schedule.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch today's bookings: %w", err)
	}

	byRoom := schedule.GroupByRoom(active)
	staffViewer := viewerRole == models.RoleStaff

	views := make([]RoomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, RoomView{
			ID:          room.ID,
			Name:        room.Name,
			Description: room.Description,
			Capacity:    room.Capacity,
			Status:      schedule.DeriveRoomStatus(room, byRoom[room.ID], now, staffViewer),
			Image:       room.Image,
		})
	}
	return views, nil
}

// Get returns the raw room record.
func (s *RoomService) Get(id uint) (*models.Room, error) {
	room, err := s.rooms.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}
	return room, nil
}

// SlotBoard returns the room plus its per-slot derived statuses for today,
// from the viewer's perspective.
func (s *RoomService) SlotBoard(roomID, viewerID uint) (*models.Room, []schedule.SlotStatus, error) {
	room, err := s.Get(roomID)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	rows, err := s.bookings.ListForRoomOn(roomID, now.Format(schedule.DateLayout))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch room bookings: %w", err)
	}

	return room, schedule.SlotBoard(rows, viewerID), nil
}

// CreateRoomInput carries the fields for room creation.
type CreateRoomInput struct {
	Name        string
	Description *string
	Capacity    int
	Image       *string
}

// Create creates a new room in the available state.
func (s *RoomService) Create(input CreateRoomInput, actorID uint) (*models.Room, error) {
	capacity := input.Capacity
	if capacity <= 0 {
		capacity = 4
	}

	room := &models.Room{
		Name:        input.Name,
		Description: input.Description,
		Capacity:    capacity,
		Image:       input.Image,
		Status:      models.RoomAvailable,
	}

	if err := s.rooms.Create(room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	actorIDPtr := &actorID
	_ = s.audit.CreateAuditLog(actorIDPtr, "room_create", fmt.Sprintf("Created room: %s (ID: %d)", room.Name, room.ID))

	return room, nil
}

// UpdateRoomInput carries the optional fields for a partial room update.
// Nil means "leave unchanged".
type UpdateRoomInput struct {
	Name        *string
	Description *string
	Capacity    *int
	Status      *string
	Image       *string
}

// Update applies a partial update to a room. Rejected while the room has
// active bookings today, so a room is never re-described mid-use.
func (s *RoomService) Update(id uint, input UpdateRoomInput, actorID uint) (*models.Room, error) {
	room, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	hasActive, err := s.bookings.RoomHasActiveOn(id, s.clock.Now().Format(schedule.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to check active bookings: %w", err)
	}
	if hasActive {
		return nil, ErrRoomInUse
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Capacity != nil {
		fields["capacity"] = *input.Capacity
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.Image != nil {
		fields["image"] = *input.Image
	}

	if len(fields) == 0 {
		return nil, ErrNoUpdates
	}

	if err := s.rooms.UpdateFields(id, fields); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	actorIDPtr := &actorID
	_ = s.audit.CreateAuditLog(actorIDPtr, "room_update", fmt.Sprintf("Updated room: %s (ID: %d)", room.Name, id))

	return s.Get(id)
}

// SetStatus toggles the administrative status flag. Disabling is rejected
// while the room has active bookings today; enabling is unconstrained.
func (s *RoomService) SetStatus(id uint, status string, actorID uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	if strings.EqualFold(status, models.RoomDisabled) {
		hasActive, err := s.bookings.RoomHasActiveOn(id, s.clock.Now().Format(schedule.DateLayout))
		if err != nil {
			return fmt.Errorf("failed to check active bookings: %w", err)
		}
		if hasActive {
			return ErrRoomInUse
		}
	}

	if err := s.rooms.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	actorIDPtr := &actorID
	_ = s.audit.CreateAuditLog(actorIDPtr, "room_status", fmt.Sprintf("Room %d status set to %s", id, status))

	return nil
}
