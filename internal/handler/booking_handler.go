package handler

import (
	"errors"
	"net/http"
	"strconv"

	"room-booking-backend/internal/service"
	"room-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService *service.BookingService
}

func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

type CreateBookingRequest struct {
	RoomID   uint    `json:"room_id" binding:"required"`
	TimeSlot string  `json:"time_slot" binding:"required"`
	Reason   *string `json:"reason"`
}

// Create admits a booking request for today
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Room ID and time slot are required")
		return
	}

	userID, _ := c.Get("userID")

	booking, err := h.bookingService.Create(userID.(uint), req.RoomID, req.TimeSlot, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidSlot),
			errors.Is(err, service.ErrDuplicateBooking),
			errors.Is(err, service.ErrSlotTaken):
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to create booking")
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"booking": gin.H{
			"id":        booking.ID,
			"room_id":   booking.RoomID,
			"time_slot": booking.TimeSlot,
			"reason":    booking.Reason,
			"status":    booking.Status,
		},
	})
}

// MyBookings sweeps the caller's expired Pending bookings, then lists
func (h *BookingHandler) MyBookings(c *gin.Context) {
	userID, _ := c.Get("userID")

	bookings, err := h.bookingService.ListMine(userID.(uint))
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"bookings": bookings,
	})
}

// Cancel cancels the caller's own booking
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	userID, _ := c.Get("userID")

	result, err := h.bookingService.Cancel(uint(id), userID.(uint))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotOwner):
			utils.ErrorResponse(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAlreadyCancelled):
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to cancel booking")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"booking": result,
	})
}

// PendingRequests lists all Pending bookings for lecturer review
func (h *BookingHandler) PendingRequests(c *gin.Context) {
	requests, err := h.bookingService.PendingRequests()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch requests")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"requests": requests,
	})
}

type DecideRequest struct {
	BookingID uint    `json:"booking_id" binding:"required"`
	Decision  string  `json:"decision" binding:"required"`
	Reason    *string `json:"reason"`
}

// Decide records a lecturer's approval or rejection
func (h *BookingHandler) Decide(c *gin.Context) {
	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Missing fields")
		return
	}

	userID, _ := c.Get("userID")

	status, err := h.bookingService.Decide(req.BookingID, userID.(uint), req.Decision, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidDecision), errors.Is(err, service.ErrNotPending):
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update booking")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"status": status,
	})
}

// DecidedHistory lists today's Approved/Rejected bookings for lecturers
func (h *BookingHandler) DecidedHistory(c *gin.Context) {
	history, err := h.bookingService.DecidedToday()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"history": history,
	})
}

// StaffHistory lists today's full booking history across all rooms
func (h *BookingHandler) StaffHistory(c *gin.Context) {
	history, err := h.bookingService.HistoryToday()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"history": history,
	})
}
