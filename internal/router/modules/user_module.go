package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// UserModule wires the account handlers and the cookie/JWT middleware.
// Public: POST /users, POST /users/auth, POST /users/logout
// Authenticated: GET|PUT /users/profile
// Admin: GET /users, GET|PUT|DELETE /users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Users   middleware.UserLookup
	JWT     *helpers.JWTManager
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewUserModule(h *handlers.UserHandler, users middleware.UserLookup, jwt *helpers.JWTManager, cookies *helpers.Manager, logger *logrus.Logger) *UserModule {
	return &UserModule{Handler: h, Users: users, JWT: jwt, Cookies: cookies, Logger: logger}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")

	users.POST("", m.Handler.Register)
	users.POST("/auth", m.Handler.Login)
	users.POST("/logout", m.Handler.Logout)

	auth := middleware.Auth(m.JWT, m.Cookies)
	admin := middleware.AdminOnly(m.Users, m.Logger)

	users.GET("/profile", auth, m.Handler.GetProfile)
	users.PUT("/profile", auth, m.Handler.UpdateProfile)

	users.GET("", auth, admin, m.Handler.ListUsers)
	users.GET("/:id", auth, admin, m.Handler.GetUser)
	users.PUT("/:id", auth, admin, m.Handler.UpdateUser)
	users.DELETE("/:id", auth, admin, m.Handler.DeleteUser)
}
