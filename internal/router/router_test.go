package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/container"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	gin.SetMode(gin.TestMode)
	container.Reset()
	t.Cleanup(container.Reset)
	container.SetConfig(&config.Config{StoreDriver: "memory", JWTSecret: "s", JWTTTL: time.Hour, BcryptCost: 4})
	container.SetLogger(helpers.NewDiscardLogger())

	reg := NewRegistry(gin.New())
	InitModules(reg)
	reg.RegisterAll()
	return reg
}

func TestInitModules_RegistersRoutes(t *testing.T) {
	reg := newRegistry(t)

	got := map[string]bool{}
	for _, ri := range reg.Engine.Routes() {
		got[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"POST /api/users",
		"GET /api/users",
		"POST /api/users/auth",
		"POST /api/users/logout",
		"GET /api/users/profile",
		"PUT /api/users/profile",
		"GET /api/users/:id",
		"PUT /api/users/:id",
		"DELETE /api/users/:id",
		"GET /healthz",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}

func TestInitModules_ServesRequests(t *testing.T) {
	reg := newRegistry(t)

	rec := httptest.NewRecorder()
	reg.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"username":"a","email":"a@example.com","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	reg.Engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	reg.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegistry_UseAppliesToAPIOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New())
	reg.Use(func(c *gin.Context) { c.Header("X-Api", "1"); c.Next() })
	reg.Add(moduleFunc(func(rg *gin.RouterGroup) { rg.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) }) }))
	reg.AddRoot(moduleFunc(func(rg *gin.RouterGroup) { rg.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) }) }))
	reg.RegisterAll()

	rec := httptest.NewRecorder()
	reg.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, "1", rec.Header().Get("X-Api"))

	rec = httptest.NewRecorder()
	reg.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Api"))
}

type moduleFunc func(rg *gin.RouterGroup)

func (f moduleFunc) Register(rg *gin.RouterGroup) { f(rg) }
