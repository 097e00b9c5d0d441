package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-directory/pkg/logger"
)

const testID = "5f1d7a2e-3c4b-4e8f-9a1b-2c3d4e5f6a7b"

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", WithTimeout(2*time.Second), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "/api", "localhost:5000", "://bad"} {
		_, err := New(raw)
		assert.Error(t, err, raw)
	}
}

func TestListUsers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":"`+testID+`","name":"Harry Potter","email":"harry@hogwarts.com","age":22,"mobile":4234243224,"interests":["Magic"]}]`)
	})

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Harry Potter", users[0].Name)
	assert.Equal(t, []string{"Magic"}, users[0].Interests)
}

func TestListUsers_NullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestGetUser_GuardSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	for _, id := range []string{"new", ""} {
		_, err := c.GetUser(context.Background(), id)
		assert.ErrorIs(t, err, ErrInvalidUserID)
		assert.Equal(t, "Invalid user ID", err.Error())
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		call    func(c *Client) error
		message string
	}{
		{
			name:   "server message wins",
			status: http.StatusNotFound, body: `{"message":"User not found"}`,
			call:    func(c *Client) error { _, err := c.GetUser(context.Background(), testID); return err },
			message: "User not found",
		},
		{
			name:   "list fallback",
			status: http.StatusInternalServerError, body: `<html>oops</html>`,
			call:    func(c *Client) error { _, err := c.ListUsers(context.Background()); return err },
			message: "Failed to fetch users",
		},
		{
			name:   "get fallback",
			status: http.StatusBadGateway, body: ``,
			call:    func(c *Client) error { _, err := c.GetUser(context.Background(), testID); return err },
			message: "Failed to fetch user",
		},
		{
			name:   "create fallback",
			status: http.StatusBadRequest, body: `{"message":""}`,
			call:    func(c *Client) error { _, err := c.CreateUser(context.Background(), UserInput{}); return err },
			message: "Failed to create user",
		},
		{
			name:   "update fallback",
			status: http.StatusServiceUnavailable, body: `{}`,
			call:    func(c *Client) error { _, err := c.UpdateUser(context.Background(), testID, UserInput{}); return err },
			message: "Failed to update user",
		},
		{
			name:   "delete fallback",
			status: http.StatusInternalServerError, body: `not json`,
			call:    func(c *Client) error { return c.DeleteUser(context.Background(), testID) },
			message: "Failed to delete user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := tt.call(c)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Error())
		})
	}
}

func TestCreateUser_SendsArrayInterests(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{}, body["interests"])
		assert.Equal(t, float64(22), body["age"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"`+testID+`","name":"Ron Weasley","interests":[]}`)
	})

	u, err := c.CreateUser(context.Background(), UserInput{Name: "Ron Weasley", Email: "ron@hogwarts.com", Age: 22, Mobile: 1})
	require.NoError(t, err)
	assert.Equal(t, testID, u.ID)
}

func TestUpdateAndDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/"+testID, r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			_, _ = io.WriteString(w, `{"id":"`+testID+`","name":"Harry James Potter"}`)
		case http.MethodDelete:
			_, _ = io.WriteString(w, `{"success":true}`)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	u, err := c.UpdateUser(context.Background(), testID, UserInput{Name: "Harry James Potter"})
	require.NoError(t, err)
	assert.Equal(t, "Harry James Potter", u.Name)

	assert.NoError(t, c.DeleteUser(context.Background(), testID))
}

func TestRequestIDForwarded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", r.Header.Get(logger.RequestIDHeader))
		_, _ = io.WriteString(w, `[]`)
	})

	ctx := logger.ContextWithRequestID(context.Background(), "req-42")
	_, err := c.ListUsers(ctx)
	assert.NoError(t, err)
}

func TestTransportErrorsAreReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.ListUsers(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.ListUsers(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: http.StatusNotFound, Message: "User not found"}))
	assert.False(t, IsNotFound(&APIError{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsNotFound(errors.New("boom")))
}
