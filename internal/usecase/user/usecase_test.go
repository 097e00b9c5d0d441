package user

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-directory/internal/domain/user"
	pkgerrors "user-directory/pkg/errors"
	"user-directory/pkg/metrics"
)

const validID = "5f1d7a2e-3c4b-4e8f-9a1b-2c3d4e5f6a7b"

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Replace(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTestUsecase(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	uc := New(mockRepo, zaptest.NewLogger(t), WithMetrics(metrics.NewAppMetrics(prometheus.NewRegistry())))
	t.Cleanup(func() { mockRepo.AssertExpectations(t) })
	return uc, mockRepo
}

func int64Ptr(v int64) *int64 { return &v }

func harryPayload() domain.Payload {
	return domain.Payload{
		Name:      "Harry Potter",
		Email:     "harry@hogwarts.com",
		Age:       int64Ptr(22),
		Mobile:    int64Ptr(4234243224),
		Interests: []string{"Magic", "Quidditch"},
	}
}

// ==================== LIST USERS TESTS ====================

func TestListUsers(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		uc, repo := setupTestUsecase(t)
		ctx := context.Background()
		repo.On("List", ctx).Return([]domain.User{}, nil)

		resp, err := uc.ListUsers(ctx)
		require.NoError(t, err)
		assert.NotNil(t, resp.Users)
		assert.Empty(t, resp.Users)
	})

	t.Run("maps every user", func(t *testing.T) {
		uc, repo := setupTestUsecase(t)
		ctx := context.Background()
		repo.On("List", ctx).Return([]domain.User{
			{ID: validID, Name: "Harry Potter", Interests: nil},
			{ID: "other", Name: "Ron Weasley", Interests: []string{"Chess"}},
		}, nil)

		resp, err := uc.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, resp.Users, 2)
		assert.Equal(t, "Harry Potter", resp.Users[0].Name)
		assert.Equal(t, []string{}, resp.Users[0].Interests)
		assert.Equal(t, []string{"Chess"}, resp.Users[1].Interests)
	})

	t.Run("repository failure", func(t *testing.T) {
		uc, repo := setupTestUsecase(t)
		ctx := context.Background()
		repo.On("List", ctx).Return(nil, errors.New("connection refused"))

		resp, err := uc.ListUsers(ctx)
		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

// ==================== GET USER TESTS ====================

func TestGetUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc, repo := setupTestUsecase(t)
		ctx := context.Background()
		repo.On("GetByID", ctx, validID).Return(&domain.User{ID: validID, Name: "Harry Potter", Interests: []string{"Magic"}}, nil)

		resp, err := uc.GetUser(ctx, GetUserRequest{ID: validID})
		require.NoError(t, err)
		assert.Equal(t, validID, resp.ID)
		assert.Equal(t, "Harry Potter", resp.Name)
	})

	t.Run("malformed id never reaches the repository", func(t *testing.T) {
		uc, _ := setupTestUsecase(t)

		resp, err := uc.GetUser(context.Background(), GetUserRequest{ID: "abc"})
		assert.Nil(t, resp)
		assert.True(t, pkgerrors.IsInvalidID(err))
		assert.Equal(t, "Invalid ID format", err.Error())
	})

	t.Run("not found", func(t *testing.T) {
		uc, repo := setupTestUsecase(t)
		ctx := context.Background()
		repo.On("GetByID", ctx, validID).Return(nil, pkgerrors.NewNotFoundError("user", "User not found"))

		_, err := uc.GetUser(ctx, GetUserRequest{ID: validID})
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	uc, repo := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == "" && u.Name == "Harry Potter" && u.Age == 22 && u.Mobile == 4234243224 &&
			assert.ObjectsAreEqual([]string{"Magic", "Quidditch"}, u.Interests)
	})).Return(&domain.User{
		ID:        validID,
		Name:      "Harry Potter",
		Email:     "harry@hogwarts.com",
		Age:       22,
		Mobile:    4234243224,
		Interests: []string{"Magic", "Quidditch"},
	}, nil)

	resp, err := uc.CreateUser(ctx, CreateUserRequest{Payload: harryPayload()})
	require.NoError(t, err)
	assert.Equal(t, validID, resp.ID)
	assert.Equal(t, "harry@hogwarts.com", resp.Email)
}

func TestCreateUser_ValidationErrorNeverPersists(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *domain.Payload)
		message string
	}{
		{"short name", func(p *domain.Payload) { p.Name = "H" }, "name must be at least 2 characters"},
		{"bad email", func(p *domain.Payload) { p.Email = "nope" }, "email must be a valid email address"},
		{"negative age", func(p *domain.Payload) { p.Age = int64Ptr(-3) }, "age must be a positive integer"},
		{"missing mobile", func(p *domain.Payload) { p.Mobile = nil }, "mobile is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no expectations: any repository call fails the test
			uc, _ := setupTestUsecase(t)
			p := harryPayload()
			tt.mutate(&p)

			resp, err := uc.CreateUser(context.Background(), CreateUserRequest{Payload: p})
			assert.Nil(t, resp)
			assert.True(t, pkgerrors.IsValidation(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestCreateUser_RepositoryError(t *testing.T) {
	uc, repo := setupTestUsecase(t)
	ctx := context.Background()
	repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("disk full"))

	_, err := uc.CreateUser(ctx, CreateUserRequest{Payload: harryPayload()})
	assert.EqualError(t, err, "disk full")
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_Success(t *testing.T) {
	uc, repo := setupTestUsecase(t)
	ctx := context.Background()

	p := harryPayload()
	p.Name = "Harry James Potter"
	p.Interests = nil

	repo.On("Replace", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == validID && u.Name == "Harry James Potter" && u.Interests != nil && len(u.Interests) == 0
	})).Return(&domain.User{ID: validID, Name: "Harry James Potter", Interests: []string{}}, nil)

	resp, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: validID, Payload: p})
	require.NoError(t, err)
	assert.Equal(t, validID, resp.ID)
	assert.Equal(t, "Harry James Potter", resp.Name)
}

func TestUpdateUser_Errors(t *testing.T) {
	t.Run("invalid id wins over invalid payload", func(t *testing.T) {
		uc, _ := setupTestUsecase(t)
		_, err := uc.UpdateUser(context.Background(), UpdateUserRequest{ID: "123", Payload: domain.Payload{}})
		assert.True(t, pkgerrors.IsInvalidID(err))
	})

	t.Run("validation", func(t *testing.T) {
		uc, _ := setupTestUsecase(t)
		p := harryPayload()
		p.Name = ""
		_, err := uc.UpdateUser(context.Background(), UpdateUserRequest{ID: validID, Payload: p})
		assert.EqualError(t, err, "name is required")
	})

	t.Run("not found", func(t *testing.T) {
		uc, repo := setupTestUsecase(t)
		ctx := context.Background()
		repo.On("Replace", ctx, mock.Anything).Return(nil, pkgerrors.NewNotFoundError("user", "User not found"))

		_, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: validID, Payload: harryPayload()})
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc, repo := setupTestUsecase(t)
		ctx := context.Background()
		repo.On("Delete", ctx, validID).Return(nil)

		resp, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: validID})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, validID, resp.ID)
	})

	t.Run("not found", func(t *testing.T) {
		uc, repo := setupTestUsecase(t)
		ctx := context.Background()
		repo.On("Delete", ctx, validID).Return(pkgerrors.NewNotFoundError("user", "User not found"))

		resp, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: validID})
		assert.Nil(t, resp)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("invalid id", func(t *testing.T) {
		uc, _ := setupTestUsecase(t)
		_, err := uc.DeleteUser(context.Background(), DeleteUserRequest{ID: "not-a-uuid"})
		assert.True(t, pkgerrors.IsInvalidID(err))
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "invalid", outcome(pkgerrors.NewValidationError("name", "name is required")))
	assert.Equal(t, "invalid", outcome(pkgerrors.NewInvalidIDError("x")))
	assert.Equal(t, "not_found", outcome(pkgerrors.NewNotFoundError("user", "User not found")))
	assert.Equal(t, "error", outcome(errors.New("boom")))
}

func TestNew_WithoutMetrics(t *testing.T) {
	repo := new(MockRepository)
	repo.On("List", mock.Anything).Return([]domain.User{}, nil)

	uc := New(repo, zaptest.NewLogger(t))
	_, err := uc.ListUsers(context.Background())
	assert.NoError(t, err)
}
