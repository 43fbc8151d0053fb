package models

import "time"

// Booking lifecycle statuses. A booking starts Pending; lecturers move it
// to Approved or Rejected; the owner or the expiry sweep moves it to
// Cancelled. Cancelled, Rejected and Approved are terminal.
const (
	BookingPending   = "Pending"
	BookingApproved  = "Approved"
	BookingRejected  = "Rejected"
	BookingCancelled = "Cancelled"
)

// Booking represents the bookings table
type Booking struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	RoomID       uint      `gorm:"not null;index" json:"room_id"`
	BookingDate  time.Time `gorm:"type:date;not null;index" json:"booking_date"`
	TimeSlot     string    `gorm:"size:10;not null" json:"time_slot"`
	Status       string    `gorm:"type:enum('Pending','Approved','Rejected','Cancelled');default:'Pending'" json:"status"`
	Reason       *string   `gorm:"type:text" json:"reason"`
	RejectReason *string   `gorm:"size:255" json:"reject_reason"`
	ApproverID   *uint     `gorm:"index" json:"approver_id"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relationships
	User     User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Room     Room  `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Approver *User `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
}

// TableName specifies the table name for Booking model
func (Booking) TableName() string {
	return "bookings"
}

// IsActive reports whether the booking occupies its slot and counts
// against the owner's one-request-per-day quota.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingApproved
}
