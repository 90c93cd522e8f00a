package video

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xelaconnect/backend/internal/apperror"
	"github.com/xelaconnect/backend/internal/middleware"
	"github.com/xelaconnect/backend/internal/plugins/auth"
)

// CreateRoomRequest carries a room creation request. All fields are
// optional; the provider names unnamed rooms.
type CreateRoomRequest struct {
	RoomName        string `json:"room_name" validate:"omitempty,max=128"`
	Privacy         string `json:"privacy" validate:"omitempty,oneof=public private"`
	MaxParticipants int    `json:"max_participants" validate:"omitempty,gte=2,lte=200"`
}

// MeetingTokenRequest carries a token request for a room.
type MeetingTokenRequest struct {
	RoomName          string `json:"room_name" validate:"required,max=128"`
	UserName          string `json:"user_name" validate:"omitempty,max=100"`
	IsOwner           bool   `json:"is_owner"`
	ExpirationMinutes int    `json:"expiration_minutes" validate:"omitempty,gte=1,lte=1440"`
}

// Handler handles HTTP requests for video rooms.
type Handler struct {
	service *VideoService
}

// NewHandler creates a video handler.
func NewHandler(service *VideoService) *Handler {
	return &Handler{service: service}
}

// CreateRoom handles POST /api/video/rooms/create.
func (h *Handler) CreateRoom(c echo.Context) error {
	var req CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		return err
	}

	room, err := h.service.CreateRoom(c.Request().Context(), req.RoomName, req.Privacy, req.MaxParticipants)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, room)
}

// GetRoom handles GET /api/video/rooms/:name.
func (h *Handler) GetRoom(c echo.Context) error {
	room, err := h.service.GetRoom(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, room)
}

// ListRooms handles GET /api/video/rooms.
func (h *Handler) ListRooms(c echo.Context) error {
	rooms, err := h.service.ListRooms(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"rooms": rooms})
}

// DeleteRoom handles DELETE /api/video/rooms/:name.
func (h *Handler) DeleteRoom(c echo.Context) error {
	name := c.Param("name")
	if err := h.service.DeleteRoom(c.Request().Context(), name); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "room " + name + " deleted"})
}

// CreateToken handles POST /api/video/rooms/token.
func (h *Handler) CreateToken(c echo.Context) error {
	var req MeetingTokenRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		return err
	}

	userName := req.UserName
	if userName == "" {
		userName = auth.CurrentUser(c).Name
	}

	token, err := h.service.CreateMeetingToken(c.Request().Context(), req.RoomName, userName, req.IsOwner, req.ExpirationMinutes)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, token)
}
