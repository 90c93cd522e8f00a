// Package video provisions video call rooms through a Daily-compatible
// REST API. The plugin stores nothing locally; every operation is a pass
// through to the provider.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xelaconnect/backend/internal/config"
)

// roomTTL is how long a provisioned room stays valid.
const roomTTL = 24 * time.Hour

// Room is a provisioned video room.
type Room struct {
	URL       string `json:"url"`
	Name      string `json:"name"`
	Privacy   string `json:"privacy"`
	CreatedAt string `json:"created_at"`
}

// MeetingToken grants one participant entry to a room.
type MeetingToken struct {
	Token     string    `json:"token"`
	RoomName  string    `json:"room_name"`
	UserName  string    `json:"user_name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RoomClient is the provider-facing contract for room provisioning.
type RoomClient interface {
	CreateRoom(ctx context.Context, name, privacy string, maxParticipants int) (*Room, error)
	GetRoom(ctx context.Context, name string) (*Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, name string) error
	CreateMeetingToken(ctx context.Context, roomName, userName string, isOwner bool, ttl time.Duration) (*MeetingToken, error)
}

// ErrRoomNotFound is returned when the provider has no room by that name.
var ErrRoomNotFound = fmt.Errorf("room not found")

// dailyClient talks to a Daily-compatible REST API.
type dailyClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRoomClient creates the HTTP-backed room client.
func NewRoomClient(cfg config.VideoConfig) RoomClient {
	return &dailyClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *dailyClient) CreateRoom(ctx context.Context, name, privacy string, maxParticipants int) (*Room, error) {
	properties := map[string]any{
		"exp": time.Now().Add(roomTTL).Unix(),
	}
	if maxParticipants > 0 {
		properties["max_participants"] = maxParticipants
	}

	payload := map[string]any{
		"privacy":    privacy,
		"properties": properties,
	}
	if name != "" {
		payload["name"] = name
	}

	var room Room
	if err := c.do(ctx, http.MethodPost, "/rooms", payload, &room); err != nil {
		return nil, err
	}

	return &room, nil
}

func (c *dailyClient) GetRoom(ctx context.Context, name string) (*Room, error) {
	var room Room
	if err := c.do(ctx, http.MethodGet, "/rooms/"+name, nil, &room); err != nil {
		return nil, err
	}

	return &room, nil
}

func (c *dailyClient) ListRooms(ctx context.Context) ([]Room, error) {
	var response struct {
		Data []Room `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/rooms", nil, &response); err != nil {
		return nil, err
	}

	return response.Data, nil
}

func (c *dailyClient) DeleteRoom(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/rooms/"+name, nil, nil)
}

func (c *dailyClient) CreateMeetingToken(ctx context.Context, roomName, userName string, isOwner bool, ttl time.Duration) (*MeetingToken, error) {
	expiresAt := time.Now().Add(ttl)

	payload := map[string]any{
		"properties": map[string]any{
			"room_name": roomName,
			"user_name": userName,
			"is_owner":  isOwner,
			"exp":       expiresAt.Unix(),
		},
	}

	var response struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/meeting-tokens", payload, &response); err != nil {
		return nil, err
	}

	return &MeetingToken{
		Token:     response.Token,
		RoomName:  roomName,
		UserName:  userName,
		ExpiresAt: expiresAt,
	}, nil
}

// do runs one provider request and decodes the response into out when
// provided.
func (c *dailyClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrRoomNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(detail))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
