package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "user-directory/internal/domain/user"
	"user-directory/internal/usecase/user"
	pkgerrors "user-directory/pkg/errors"
	"user-directory/pkg/logger"
)

// maxBodyBytes bounds a user payload.
const maxBodyBytes = 1 << 20

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserResponse is the wire representation of a user
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int64     `json:"age"`
	Mobile    int64     `json:"mobile"`
	Interests []string  `json:"interests"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// DeleteResponse acknowledges a deletion
type DeleteResponse struct {
	Success bool `json:"success"`
}

func toResponse(u *user.User) UserResponse {
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	return UserResponse{
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

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		users[i] = toResponse(&resp.Users[i])
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: c.Param("id")})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(resp))
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{Payload: payload})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(resp))
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	// a malformed id is reported before the body is looked at
	if _, err := domain.ParseID(id); err != nil {
		h.handleError(c, err)
		return
	}

	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{ID: id, Payload: payload})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(resp))
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: c.Param("id")})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResponse{Success: resp.Success})
}

// bindPayload decodes the JSON body. Only malformed JSON fails here; wrong
// field shapes travel inside the payload and surface as validation errors.
func (h *UserHandler) bindPayload(c *gin.Context) (domain.Payload, bool) {
	var payload domain.Payload

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return payload, false
	}
	return payload, true
}

// handleError converts usecase errors to {message} responses. Anything that
// is not a classified client error is logged and hidden behind a 500.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	status := pkgerrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context(), h.log).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Message: pkgerrors.PublicMessage(err)})
}
