package user

import (
	"time"

	domain "user-directory/internal/domain/user"
)

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Payload domain.Payload
}

// UpdateUserRequest carries the raw path id and the full replacement payload.
type UpdateUserRequest struct {
	ID      string
	Payload domain.Payload
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID string
}

// DeleteUserResponse acknowledges a removal.
type DeleteUserResponse struct {
	ID      string
	Success bool
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID string
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID        string
	Name      string
	Email     string
	Age       int64
	Mobile    int64
	Interests []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func toDTO(u *domain.User) User {
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		Mobile:    u.Mobile,
		Interests: interests,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
