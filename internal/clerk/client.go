package clerk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

const defaultAPIURL = "https://api.clerk.com"

// ErrUserNotFound signals that no user exists for the requested id.
var ErrUserNotFound = errors.New("clerk: user not found")

// Config holds Clerk Backend API settings.
type Config struct {
	SecretKey string
	APIURL    string

	HTTPClient *http.Client
}

// User is the subset of a Clerk user record this service reads.
type User struct {
	ID string `json:"id"`
}

// Client calls the Clerk Backend API.
type Client struct {
	config     Config
	httpClient *http.Client
}

// New creates a new Clerk client.
func New(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		config:     cfg,
		httpClient: client,
	}
}

// GetUser fetches one user by id. Returns ErrUserNotFound when the provider
// has no such user; any other non-200 response is an error.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s", c.config.APIURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clerk: get user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clerk: get user: unexpected status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("clerk: get user: decode response: %w", err)
	}
	if user.ID == "" {
		return nil, ErrUserNotFound
	}

	return &user, nil
}
