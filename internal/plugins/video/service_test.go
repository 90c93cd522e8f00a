package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/xelaconnect/backend/internal/apperror"
)

type mockRoomClient struct {
	createRoomFn  func(ctx context.Context, name, privacy string, maxParticipants int) (*Room, error)
	getRoomFn     func(ctx context.Context, name string) (*Room, error)
	deleteRoomFn  func(ctx context.Context, name string) error
	createTokenFn func(ctx context.Context, roomName, userName string, isOwner bool, ttl time.Duration) (*MeetingToken, error)
}

func (m *mockRoomClient) CreateRoom(ctx context.Context, name, privacy string, maxParticipants int) (*Room, error) {
	return m.createRoomFn(ctx, name, privacy, maxParticipants)
}

func (m *mockRoomClient) GetRoom(ctx context.Context, name string) (*Room, error) {
	return m.getRoomFn(ctx, name)
}

func (m *mockRoomClient) ListRooms(ctx context.Context) ([]Room, error) {
	return nil, nil
}

func (m *mockRoomClient) DeleteRoom(ctx context.Context, name string) error {
	return m.deleteRoomFn(ctx, name)
}

func (m *mockRoomClient) CreateMeetingToken(ctx context.Context, roomName, userName string, isOwner bool, ttl time.Duration) (*MeetingToken, error) {
	return m.createTokenFn(ctx, roomName, userName, isOwner, ttl)
}

func newTestVideoService(client RoomClient) *VideoService {
	return NewVideoService(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateRoom_DefaultsPrivacy(t *testing.T) {
	var gotPrivacy string
	svc := newTestVideoService(&mockRoomClient{
		createRoomFn: func(ctx context.Context, name, privacy string, maxParticipants int) (*Room, error) {
			gotPrivacy = privacy
			return &Room{Name: name, Privacy: privacy}, nil
		},
	})

	if _, err := svc.CreateRoom(context.Background(), "room-1", "", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPrivacy != "public" {
		t.Errorf("expected empty privacy to default to public, got %q", gotPrivacy)
	}
}

func TestCreateRoom_ProviderFailureIsUpstream(t *testing.T) {
	svc := newTestVideoService(&mockRoomClient{
		createRoomFn: func(ctx context.Context, name, privacy string, maxParticipants int) (*Room, error) {
			return nil, fmt.Errorf("daily: 500 internal error, api key leaked detail")
		},
	})

	_, err := svc.CreateRoom(context.Background(), "room-1", "public", 0)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 502 {
		t.Fatalf("expected 502, got %v", err)
	}
	if appErr.Message == "" || appErr.Message == "daily: 500 internal error, api key leaked detail" {
		t.Errorf("the provider detail must not reach the client: %q", appErr.Message)
	}
}

func TestGetRoom_MissingRoomIs404(t *testing.T) {
	svc := newTestVideoService(&mockRoomClient{
		getRoomFn: func(ctx context.Context, name string) (*Room, error) {
			return nil, ErrRoomNotFound
		},
	})

	_, err := svc.GetRoom(context.Background(), "ghost")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 404 {
		t.Errorf("expected 404 for a missing room, got %v", err)
	}
}

func TestDeleteRoom_MissingRoomIs404(t *testing.T) {
	svc := newTestVideoService(&mockRoomClient{
		deleteRoomFn: func(ctx context.Context, name string) error {
			return ErrRoomNotFound
		},
	})

	err := svc.DeleteRoom(context.Background(), "ghost")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 404 {
		t.Errorf("expected 404 for a missing room, got %v", err)
	}
}

func TestCreateMeetingToken_TTL(t *testing.T) {
	var gotTTL time.Duration
	svc := newTestVideoService(&mockRoomClient{
		createTokenFn: func(ctx context.Context, roomName, userName string, isOwner bool, ttl time.Duration) (*MeetingToken, error) {
			gotTTL = ttl
			return &MeetingToken{Token: "tok"}, nil
		},
	})

	if _, err := svc.CreateMeetingToken(context.Background(), "room-1", "Ada", false, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTTL != defaultTokenTTL {
		t.Errorf("expected the default token TTL, got %v", gotTTL)
	}

	if _, err := svc.CreateMeetingToken(context.Background(), "room-1", "Ada", false, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTTL != 30*time.Minute {
		t.Errorf("expected 30m, got %v", gotTTL)
	}
}
