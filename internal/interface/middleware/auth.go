package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/response"
)

const (
	CtxUserIDKey  = "userID"
	CtxIsAdminKey = "isAdmin"
)

// UserLookup resolves the caller behind a session token.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*entity.User, error)
}

// Auth validates the session cookie and injects the caller's user ID into context.
func Auth(jwt *helpers.JWTManager, cookies *helpers.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookies.Token(c)
		if token == "" {
			response.Fail(c, http.StatusUnauthorized, "not authorized, no token", nil)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "not authorized, token failed", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

// AdminOnly must run after Auth. It re-reads the caller so a demoted or
// deleted admin loses access immediately.
func AdminOnly(users UserLookup, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.GetUser(c.Request.Context(), c.GetString(CtxUserIDKey))
		if err != nil && !errors.Is(err, application.ErrUserNotFound) {
			if logger != nil {
				logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("admin lookup failed")
			}
			response.Fail(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		if u == nil || !u.IsAdmin {
			response.Fail(c, http.StatusForbidden, "not authorized as an admin", nil)
			return
		}
		c.Set(CtxIsAdminKey, true)
		c.Next()
	}
}
