package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/response"
	"github.com/oksasatya/go-account-service/pkg/validation"
)

type UserHandler struct {
	Svc     *userapp.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, cookies *helpers.Manager) *UserHandler {
	validation.Init()
	return &UserHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Username string `json:"username" binding:"omitempty,username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

type adminUpdateRequest struct {
	Username string               `json:"username" binding:"omitempty,username"`
	Email    string               `json:"email" binding:"omitempty,email"`
	IsAdmin  helpers.OptionalBool `json:"isAdmin"`
}

// statusFor maps service errors to an HTTP status and client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, userapp.ErrValidation):
		return http.StatusBadRequest, "Please fill all the inputs."
	case errors.Is(err, userapp.ErrEmailTaken):
		return http.StatusBadRequest, "User already exists."
	case errors.Is(err, userapp.ErrCannotDeleteAdmin):
		return http.StatusBadRequest, "Cannot delete admin user."
	case errors.Is(err, userapp.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Email or Password is incorrect."
	case errors.Is(err, userapp.ErrUserNotFound):
		return http.StatusNotFound, "User not found."
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError && h.Logger != nil {
		helpers.LogError(h.Logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"client_ip":  c.GetString(middleware.CtxClientIPKey),
			"path":       c.FullPath(),
			"method":     c.Request.Method,
		})
	}
	response.Fail(c, status, msg, nil)
}

// bind decodes the JSON body; a body missing required fields is reported
// the same way as the service's own validation error.
func (h *UserHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		msg := "invalid payload"
		if validation.IsMissingField(err) {
			msg = "Please fill all the inputs."
		}
		response.Fail(c, http.StatusBadRequest, msg, validation.ToDetails(err))
		return false
	}
	return true
}

// Register POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if !h.bind(c, &req) {
		return
	}
	sess, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.OK(c, http.StatusCreated, sess.Profile, "user registered")
}

// Login POST /api/users/auth
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, &req) {
		return
	}
	sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.OK(c, http.StatusOK, sess.Profile, "login successful")
}

// Logout POST /api/users/logout
func (h *UserHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.OK(c, http.StatusOK, gin.H{"message": "Logged out successfully."}, "logged out")
}

// ListUsers GET /api/users (admin)
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, users, "users")
}

// GetProfile GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	p, err := h.Svc.GetOwnProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, p, "profile")
}

// UpdateProfile PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !h.bind(c, &req) {
		return
	}
	p, err := h.Svc.UpdateOwnProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), userapp.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, p, "profile updated")
}

// DeleteUser DELETE /api/users/:id (admin)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	msg, err := h.Svc.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"message": msg}, msg)
}

// GetUser GET /api/users/:id (admin)
func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, u, "user")
}

// UpdateUser PUT /api/users/:id (admin)
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req adminUpdateRequest
	if !h.bind(c, &req) {
		return
	}
	in := userapp.AdminUpdateInput{Username: req.Username, Email: req.Email}
	isAdmin := req.IsAdmin.Or(false)
	in.IsAdmin = &isAdmin
	p, err := h.Svc.UpdateUserByID(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, p, "user updated")
}
