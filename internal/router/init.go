package router

import (
	appuser "github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/container"
	repouser "github.com/oksasatya/go-account-service/internal/domain/repository"
	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/router/modules"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *appuser.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	repo := container.GetUserRepo()

	service := appuser.NewService(
		repo,
		helpers.NewBcryptHasher(container.GetConfig().BcryptCost),
		container.GetJWT(),
		container.GetLogger(),
	)

	handler := handlers.NewUserHandler(
		service,
		container.GetLogger(),
		container.GetCookies(),
	)

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry.
// Call once during startup, after the container has been populated.
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(
		userDeps.Handler,
		userDeps.Service,
		container.GetJWT(),
		container.GetCookies(),
		container.GetLogger(),
	))
	r.AddRoot(modules.NewHealthModule(handlers.NewHealthHandler(userDeps.Repo)))
}
