package handler

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"room-booking-backend/internal/service"
	"room-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoomHandler struct {
	roomService *service.RoomService
	uploadsDir  string
	publicPath  string
}

func NewRoomHandler(roomService *service.RoomService, uploadsDir, publicPath string) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		uploadsDir:  uploadsDir,
		publicPath:  publicPath,
	}
}

// List returns all rooms with role-aware derived statuses
func (h *RoomHandler) List(c *gin.Context) {
	role, _ := c.Get("role")

	rooms, err := h.roomService.List(role.(string))
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch rooms")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// Get returns a single raw room record
func (h *RoomHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid room ID")
		return
	}

	room, err := h.roomService.Get(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch room")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"room": room,
	})
}

// SlotBoard returns today's per-slot derived statuses for a room
func (h *RoomHandler) SlotBoard(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid room ID")
		return
	}

	userID, _ := c.Get("userID")

	room, slots, err := h.roomService.SlotBoard(uint(id), userID.(uint))
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch room status")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"room": gin.H{
			"id":          room.ID,
			"name":        room.Name,
			"description": room.Description,
			"capacity":    room.Capacity,
		},
		"slots": slots,
	})
}

// Create creates a room from a multipart form with an optional image
func (h *RoomHandler) Create(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Room name is required")
		return
	}

	input := service.CreateRoomInput{Name: name}
	if description, ok := c.GetPostForm("description"); ok {
		input.Description = &description
	}
	if capacity, ok := c.GetPostForm("capacity"); ok {
		input.Capacity, _ = strconv.Atoi(capacity)
	}

	image, err := h.saveImage(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to store image")
		return
	}
	input.Image = image

	userID, _ := c.Get("userID")

	room, err := h.roomService.Create(input, userID.(uint))
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to create room")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"room": room,
	})
}

// Update applies a partial update from a multipart form. Rejected while
// the room has active bookings today.
func (h *RoomHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid room ID")
		return
	}

	var input service.UpdateRoomInput
	if name, ok := c.GetPostForm("name"); ok {
		input.Name = &name
	}
	if description, ok := c.GetPostForm("description"); ok {
		input.Description = &description
	}
	if capacity, ok := c.GetPostForm("capacity"); ok {
		n, convErr := strconv.Atoi(capacity)
		if convErr != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid capacity")
			return
		}
		input.Capacity = &n
	}
	if status, ok := c.GetPostForm("status"); ok {
		input.Status = &status
	}

	image, err := h.saveImage(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to store image")
		return
	}
	input.Image = image

	userID, _ := c.Get("userID")

	room, err := h.roomService.Update(uint(id), input, userID.(uint))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRoomInUse), errors.Is(err, service.ErrNoUpdates):
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update room")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"room": room,
	})
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus toggles the administrative status flag
func (h *RoomHandler) SetStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid room ID")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Missing status")
		return
	}

	userID, _ := c.Get("userID")

	if err := h.roomService.SetStatus(uint(id), req.Status, userID.(uint)); err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRoomInUse):
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}

	utils.MessageResponse(c, "Status updated successfully")
}

// saveImage stores an optional uploaded image and returns its public path.
// Returns (nil, nil) when the form carries no image.
func (h *RoomHandler) saveImage(c *gin.Context) (*string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	if err := os.MkdirAll(h.uploadsDir, 0o755); err != nil {
		return nil, err
	}

	filename := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadsDir, filename)); err != nil {
		return nil, err
	}

	publicPath := path.Join(h.publicPath, filename)
	return &publicPath, nil
}
