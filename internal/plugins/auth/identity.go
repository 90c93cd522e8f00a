package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// IdentityProfile is the subset of the identity provider's session-data
// response the backend cares about.
type IdentityProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// IdentityClient exchanges an opaque browser session id for a verified
// profile. The OAuth dance itself happens entirely on the provider's side;
// this is a bare lookup against its session-data endpoint.
type IdentityClient interface {
	Lookup(ctx context.Context, sessionID string) (*IdentityProfile, error)
}

// identityClient implements IdentityClient over plain HTTP with a bounded
// timeout so a slow provider can never hang a login request.
type identityClient struct {
	url    string
	client *http.Client
}

// NewIdentityClient creates an identity-exchange client for the given
// session-data endpoint URL.
func NewIdentityClient(url string, timeout time.Duration) IdentityClient {
	return &identityClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Lookup fetches the profile bound to sessionID. A non-200 response means
// the session id is unknown or expired on the provider's side.
func (c *identityClient) Lookup(ctx context.Context, sessionID string) (*IdentityProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating identity request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling identity service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var profile IdentityProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding identity response: %w", err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("identity response missing email")
	}

	return &profile, nil
}
