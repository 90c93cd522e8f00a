package video

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xelaconnect/backend/internal/apperror"
)

// defaultTokenTTL is the meeting-token lifetime when the request leaves it
// unset.
const defaultTokenTTL = 120 * time.Minute

// VideoService wraps the provider client with error mapping. Provider
// failures surface as upstream errors with the detail kept server-side.
type VideoService struct {
	rooms  RoomClient
	logger *slog.Logger
}

// NewVideoService creates the video service.
func NewVideoService(rooms RoomClient, logger *slog.Logger) *VideoService {
	return &VideoService{rooms: rooms, logger: logger}
}

// CreateRoom provisions a new room.
func (s *VideoService) CreateRoom(ctx context.Context, name, privacy string, maxParticipants int) (*Room, error) {
	if privacy == "" {
		privacy = "public"
	}

	room, err := s.rooms.CreateRoom(ctx, name, privacy, maxParticipants)
	if err != nil {
		s.logger.Error("room creation failed", "room_name", name, "error", err)
		return nil, apperror.NewUpstream("video", err)
	}

	return room, nil
}

// GetRoom returns the room's details.
func (s *VideoService) GetRoom(ctx context.Context, name string) (*Room, error) {
	room, err := s.rooms.GetRoom(ctx, name)
	if errors.Is(err, ErrRoomNotFound) {
		return nil, apperror.NewNotFound("room not found")
	}
	if err != nil {
		return nil, apperror.NewUpstream("video", err)
	}

	return room, nil
}

// ListRooms returns all provisioned rooms.
func (s *VideoService) ListRooms(ctx context.Context) ([]Room, error) {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, apperror.NewUpstream("video", err)
	}

	return rooms, nil
}

// DeleteRoom tears the room down.
func (s *VideoService) DeleteRoom(ctx context.Context, name string) error {
	err := s.rooms.DeleteRoom(ctx, name)
	if errors.Is(err, ErrRoomNotFound) {
		return apperror.NewNotFound("room not found")
	}
	if err != nil {
		return apperror.NewUpstream("video", err)
	}

	s.logger.Info("room deleted", "room_name", name)

	return nil
}

// CreateMeetingToken issues an entry token for a participant.
func (s *VideoService) CreateMeetingToken(ctx context.Context, roomName, userName string, isOwner bool, expirationMinutes int) (*MeetingToken, error) {
	ttl := defaultTokenTTL
	if expirationMinutes > 0 {
		ttl = time.Duration(expirationMinutes) * time.Minute
	}

	token, err := s.rooms.CreateMeetingToken(ctx, roomName, userName, isOwner, ttl)
	if err != nil {
		s.logger.Error("meeting token failed", "room_name", roomName, "error", err)
		return nil, apperror.NewUpstream("video", err)
	}

	return token, nil
}
