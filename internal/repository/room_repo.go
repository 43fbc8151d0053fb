package repository

import (
	"room-booking-backend/internal/models"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// GetAll retrieves all rooms
func (r *RoomRepository) GetAll() ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.Order("id ASC").Find(&rooms).Error
	return rooms, err
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// Create creates a new room
func (r *RoomRepository) Create(room *models.Room) error {
	return r.db.Create(room).Error
}

// UpdateFields applies a partial update to a room
func (r *RoomRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Room{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateStatus sets the administrative status flag
func (r *RoomRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Room{}).Where("id = ?", id).Update("status", status).Error
}
