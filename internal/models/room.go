package models

import "time"

// Administrative room status values stored in the rooms table. The
// statuses shown to clients (Free/Reserved/Disabled) are derived per
// request and never persisted.
const (
	RoomAvailable = "available"
	RoomDisabled  = "disabled"
)

// Room represents the rooms table
type Room struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Capacity    int       `gorm:"default:4" json:"capacity"`
	Status      string    `gorm:"type:enum('available','disabled');default:'available'" json:"status"`
	Image       *string   `gorm:"size:255" json:"image"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for Room model
func (Room) TableName() string {
	return "rooms"
}
