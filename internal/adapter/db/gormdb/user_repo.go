package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-directory/internal/domain/user"
	pkgerrors "user-directory/pkg/errors"
)

// UserRepo implements the user Repository on top of GORM.
// It works with any dialect GORM supports; postgres and sqlite are wired in.
type UserRepo struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        string    `gorm:"primaryKey;size:36"`                 // UUID assigned on insert
	Name      string    `gorm:"not null"`                           // Display name
	Email     string    `gorm:"not null;index"`                     // Contact address, not unique
	Age       int64     `gorm:"not null"`                           // Positive age
	Mobile    int64     `gorm:"not null"`                           // Positive mobile number
	Interests []string  `gorm:"type:text;serializer:json;not null"` // Ordered tags stored as a JSON array
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// AutoMigrate creates or updates the users table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserSchema{})
}

func notFound() error {
	return pkgerrors.NewNotFoundError("user", "User not found")
}

// List returns every user, oldest first.
func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = toDomain(&models[i])
	}
	return users, nil
}

// GetByID retrieves a user by their identifier.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.String("id", id))
			return nil, notFound()
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := toDomain(&model)
	return &u, nil
}

// Create inserts a new user under a freshly generated id and returns the stored record.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := fromDomain(u)
	model.ID = user.NewID()

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.String("id", model.ID))
	created := toDomain(&model)
	return &created, nil
}

// Replace overwrites every mutable column of an existing user.
// The row is matched by id in a single UPDATE, so a missing row yields NotFound
// and the id itself is never written.
func (r *UserRepo) Replace(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := fromDomain(u)
	model.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("id = ?", u.ID).
		Select("name", "email", "age", "mobile", "interests", "updated_at").
		Updates(&model)
	if res.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(res.Error), zap.String("id", u.ID))
		return nil, fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Debug("user not found for update", zap.String("id", u.ID))
		return nil, notFound()
	}

	r.log.Info("user updated in db", zap.String("id", u.ID))
	return r.GetByID(ctx, u.ID)
}

// Delete removes a user permanently.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserSchema{})
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.String("id", id))
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Debug("user not found for delete", zap.String("id", id))
		return notFound()
	}

	r.log.Info("user deleted in db", zap.String("id", id))
	return nil
}

func toDomain(m *UserSchema) user.User {
	interests := m.Interests
	if interests == nil {
		interests = []string{}
	}
	return user.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Age:       m.Age,
		Mobile:    m.Mobile,
		Interests: interests,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromDomain(u *user.User) UserSchema {
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	return UserSchema{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		Mobile:    u.Mobile,
		Interests: interests,
	}
}
