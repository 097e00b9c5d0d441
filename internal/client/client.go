// Package client is the typed HTTP wrapper the web frontend uses to reach the
// user API. Every call takes a context so an abandoned page cancels its request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"user-directory/pkg/logger"
)

// ErrInvalidUserID is returned without a network call for ids that can only
// come from a route mix-up, such as the "new" placeholder.
var ErrInvalidUserID = errors.New("Invalid user ID")

// User mirrors the API's wire representation.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int64     `json:"age"`
	Mobile    int64     `json:"mobile"`
	Interests []string  `json:"interests"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserInput is the body of create and update calls.
type UserInput struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Age       int64    `json:"age"`
	Mobile    int64    `json:"mobile"`
	Interests []string `json:"interests"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the user API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger used for transport failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListUsers fetches every user.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users, "Failed to fetch users"); err != nil {
		return nil, err
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

// GetUser fetches one user.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var u User
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, &u, "Failed to fetch user"); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser stores a new user and returns it with its assigned id.
func (c *Client) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, "/users", normalize(in), &u, "Failed to create user"); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser replaces every field of an existing user.
func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) (*User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var u User
	if err := c.do(ctx, http.MethodPut, userPath(id), normalize(in), &u, "Failed to update user"); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, userPath(id), nil, nil, "Failed to delete user")
}

func checkID(id string) error {
	if id == "" || id == "new" {
		return ErrInvalidUserID
	}
	return nil
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}

// normalize keeps interests an array on the wire.
func normalize(in UserInput) UserInput {
	if in.Interests == nil {
		in.Interests = []string{}
	}
	return in
}

// do performs one JSON round trip. fallback is the message used when an
// error response carries no readable message.
func (c *Client) do(ctx context.Context, method, path string, body, out any, fallback string) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	target := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set(logger.RequestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.WithContext(ctx, c.log).Warn("api request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody, fallback)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("client: decode response: %w", err)
		}
	}
	return nil
}

func errorMessage(body []byte, fallback string) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err != nil || strings.TrimSpace(e.Message) == "" {
		return fallback
	}
	return e.Message
}
