package user

import (
	"context"

	"go.uber.org/zap"

	domain "user-directory/internal/domain/user"
	pkgerrors "user-directory/pkg/errors"
	"user-directory/pkg/logger"
	"user-directory/pkg/metrics"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing the GORM store and its cached
// decorator to be used interchangeably.
type Repository interface {
	List(ctx context.Context) ([]domain.User, error)                   // All users, oldest first
	GetByID(ctx context.Context, id string) (*domain.User, error)      // Retrieve user by ID
	Create(ctx context.Context, u *domain.User) (*domain.User, error)  // Insert under a fresh ID
	Replace(ctx context.Context, u *domain.User) (*domain.User, error) // Overwrite every field but ID
	Delete(ctx context.Context, id string) error                       // Delete user by ID
}

// Service implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo    Repository          // Repository for data access
	log     *zap.Logger         // Logger for structured logging
	metrics *metrics.AppMetrics // Optional operation counters
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records an outcome per operation.
func WithMetrics(m *metrics.AppMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a new Service with the provided repository and logger.
func New(r Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{repo: r, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Usecase = (*Service)(nil)

// ListUsers returns every user. An empty directory is an empty slice.
func (s *Service) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	domainUsers, err := s.repo.List(ctx)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to list users", zap.Error(err))
		s.record("list", err)
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = toDTO(&domainUsers[i])
	}

	s.record("list", nil)
	return &ListUsersResponse{Users: users}, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)

	id, err := domain.ParseID(in.ID)
	if err != nil {
		log.Warn("get user rejected", zap.String("id", in.ID), zap.Error(err))
		s.record("get", err)
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logFailure(log, "failed to get user", id, err)
		s.record("get", err)
		return nil, err
	}

	s.record("get", nil)
	out := toDTO(u)
	return &out, nil
}

// CreateUser validates the payload and stores a new user.
// A rejected payload never reaches the repository.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("creating user", zap.String("name", in.Payload.Name), zap.String("email", in.Payload.Email))

	if err := domain.Validate(in.Payload); err != nil {
		log.Warn("validate failed", zap.Error(err))
		s.record("create", err)
		return nil, err
	}

	var u domain.User
	in.Payload.Apply(&u)

	created, err := s.repo.Create(ctx, &u)
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		s.record("create", err)
		return nil, err
	}

	s.record("create", nil)
	out := toDTO(created)
	return &out, nil
}

// UpdateUser replaces every field of an existing user. The ID never changes.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)

	id, err := domain.ParseID(in.ID)
	if err != nil {
		log.Warn("update user rejected", zap.String("id", in.ID), zap.Error(err))
		s.record("update", err)
		return nil, err
	}

	log.Info("updating user", zap.String("id", id), zap.String("name", in.Payload.Name), zap.String("email", in.Payload.Email))

	if err := domain.Validate(in.Payload); err != nil {
		log.Warn("validate failed", zap.String("id", id), zap.Error(err))
		s.record("update", err)
		return nil, err
	}

	u := domain.User{ID: id}
	in.Payload.Apply(&u)

	updated, err := s.repo.Replace(ctx, &u)
	if err != nil {
		s.logFailure(log, "failed to update user", id, err)
		s.record("update", err)
		return nil, err
	}

	s.record("update", nil)
	out := toDTO(updated)
	return &out, nil
}

// DeleteUser removes a user permanently.
func (s *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, s.log)

	id, err := domain.ParseID(in.ID)
	if err != nil {
		log.Warn("delete user rejected", zap.String("id", in.ID), zap.Error(err))
		s.record("delete", err)
		return nil, err
	}

	log.Info("deleting user", zap.String("id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logFailure(log, "failed to delete user", id, err)
		s.record("delete", err)
		return nil, err
	}

	s.record("delete", nil)
	return &DeleteUserResponse{ID: id, Success: true}, nil
}

// logFailure keeps expected misses out of the error log.
func (s *Service) logFailure(log *zap.Logger, msg, id string, err error) {
	if pkgerrors.IsNotFound(err) {
		log.Debug(msg, zap.String("id", id), zap.Error(err))
		return
	}
	log.Error(msg, zap.String("id", id), zap.Error(err))
}

func (s *Service) record(op string, err error) {
	s.metrics.RecordUserOperation(op, outcome(err))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case pkgerrors.IsValidation(err), pkgerrors.IsInvalidID(err):
		return "invalid"
	case pkgerrors.IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
