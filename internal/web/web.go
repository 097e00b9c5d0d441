// Package web serves the HTML frontend: list, detail, create, edit and delete
// views backed by the user API through internal/client.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-directory/internal/adapter/gin/middleware"
	"user-directory/internal/client"
	domain "user-directory/internal/domain/user"
	"user-directory/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// UserAPI is the slice of the API client the views need.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]client.User, error)
	GetUser(ctx context.Context, id string) (*client.User, error)
	CreateUser(ctx context.Context, in client.UserInput) (*client.User, error)
	UpdateUser(ctx context.Context, id string, in client.UserInput) (*client.User, error)
	DeleteUser(ctx context.Context, id string) error
}

var _ UserAPI = (*client.Client)(nil)

// Handler renders the views.
type Handler struct {
	api UserAPI
	log *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(api UserAPI, log *zap.Logger) *Handler {
	return &Handler{api: api, log: log}
}

// NewRouter builds the frontend engine with its templates and middleware.
func NewRouter(api UserAPI, log *zap.Logger) (*gin.Engine, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	h := NewHandler(api, log)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logger(log),
	)

	r.GET("/", h.List)
	r.GET("/users/new", h.New)
	r.POST("/users", h.Create)
	r.GET("/users/:id", h.Detail)
	r.GET("/users/:id/edit", h.Edit)
	r.POST("/users/:id", h.Update)
	r.GET("/users/:id/delete", h.ConfirmDelete)
	r.POST("/users/:id/delete", h.Delete)

	return r, nil
}

// List renders every user.
func (h *Handler) List(c *gin.Context) {
	data := gin.H{"Title": "Users", "Flash": popFlash(c)}

	users, err := h.api.ListUsers(c.Request.Context())
	if err != nil {
		h.logErr(c, "failed to list users", err)
		data["Flash"] = &Flash{Kind: "error", Message: message(err, "Failed to fetch users")}
		data["Users"] = []client.User{}
		c.HTML(http.StatusBadGateway, "list.html", data)
		return
	}

	data["Users"] = users
	c.HTML(http.StatusOK, "list.html", data)
}

// New renders an empty create form.
func (h *Handler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "", domain.Form{}, "")
}

// Create validates the submitted form and creates the user.
func (h *Handler) Create(c *gin.Context) {
	h.submit(c, "")
}

// Detail renders one user.
func (h *Handler) Detail(c *gin.Context) {
	u, ok := h.fetch(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "detail.html", gin.H{"Title": u.Name, "Flash": popFlash(c), "User": u})
}

// Edit renders the form pre-populated with the stored user.
func (h *Handler) Edit(c *gin.Context) {
	u, ok := h.fetch(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, u.ID, domain.FormFromUser(toDomain(u)), "")
}

// Update validates the submitted form and replaces the user.
func (h *Handler) Update(c *gin.Context) {
	h.submit(c, c.Param("id"))
}

// ConfirmDelete asks before deleting.
func (h *Handler) ConfirmDelete(c *gin.Context) {
	u, ok := h.fetch(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "confirm.html", gin.H{"Title": "Delete " + u.Name, "User": u})
}

// Delete removes the user and returns to the list.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.api.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.logErr(c, "failed to delete user", err)
		setFlash(c, "error", message(err, "Failed to delete user"))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	setFlash(c, "success", "User deleted successfully")
	c.Redirect(http.StatusSeeOther, "/")
}

// submit runs the shared create/update flow. An empty id means create.
func (h *Handler) submit(c *gin.Context, id string) {
	var form domain.Form
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, id, form, "Invalid form submission")
		return
	}

	payload := form.Payload()
	if err := domain.Validate(payload); err != nil {
		h.renderForm(c, http.StatusBadRequest, id, form, err.Error())
		return
	}

	in := toInput(payload)
	ctx := c.Request.Context()

	var (
		err     error
		success string
	)
	if id == "" {
		_, err = h.api.CreateUser(ctx, in)
		success = "User created successfully"
	} else {
		_, err = h.api.UpdateUser(ctx, id, in)
		success = "User updated successfully"
	}
	if err != nil {
		h.logErr(c, "failed to save user", err)
		fallback := "Failed to create user"
		if id != "" {
			fallback = "Failed to update user"
		}
		h.renderForm(c, http.StatusBadRequest, id, form, message(err, fallback))
		return
	}

	setFlash(c, "success", success)
	c.Redirect(http.StatusSeeOther, "/")
}

// fetch loads the user named by the path. On failure it redirects to the
// list with the reason and reports false.
func (h *Handler) fetch(c *gin.Context) (*client.User, bool) {
	u, err := h.api.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logErr(c, "failed to fetch user", err)
		setFlash(c, "error", message(err, "Failed to fetch user"))
		c.Redirect(http.StatusSeeOther, "/")
		return nil, false
	}
	return u, true
}

func (h *Handler) renderForm(c *gin.Context, status int, id string, form domain.Form, errMsg string) {
	data := gin.H{
		"Form":   form,
		"Error":  errMsg,
		"Flash":  popFlash(c),
		"Title":  "Add User",
		"Submit": "Create User",
		"Action": "/users",
		"Cancel": "/",
	}
	if id != "" {
		data["Title"] = "Edit User"
		data["Submit"] = "Update User"
		data["Action"] = "/users/" + id
		data["Cancel"] = "/users/" + id
	}
	c.HTML(status, "form.html", data)
}

func (h *Handler) logErr(c *gin.Context, msg string, err error) {
	l := logger.WithContext(c.Request.Context(), h.log)
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		l.Debug(msg, zap.Error(err))
		return
	}
	l.Warn(msg, zap.Error(err))
}

// message picks what the user sees: the API's message, the client guard's
// message, or the fallback for transport failures.
func message(err error, fallback string) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, client.ErrInvalidUserID):
		return err.Error()
	default:
		return fallback
	}
}

func toInput(p domain.Payload) client.UserInput {
	var u domain.User
	p.Apply(&u)
	return client.UserInput{
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		Mobile:    u.Mobile,
		Interests: u.Interests,
	}
}

func toDomain(u *client.User) *domain.User {
	return &domain.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		Mobile:    u.Mobile,
		Interests: u.Interests,
	}
}
