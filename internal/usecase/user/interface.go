package user

import "context"

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*User, error)
	CreateUser(ctx context.Context, in CreateUserRequest) (*User, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error)
}
