package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// app-level container to share constructed components across packages.
// The router wires its modules from these singletons.

var (
	cfg    *config.Config
	logger *logrus.Logger
	pgPool *pgxpool.Pool

	userRepo   repository.UserRepository
	jwtManager *helpers.JWTManager
	cookies    *helpers.Manager
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}

func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}

func SetPGPool(p *pgxpool.Pool) { pgPool = p }
func GetPGPool() *pgxpool.Pool  { return pgPool }

func SetUserRepo(r repository.UserRepository) { userRepo = r }

// GetUserRepo returns the configured store: postgres when a pool is set,
// otherwise a process-local memory store.
func GetUserRepo() repository.UserRepository {
	if userRepo != nil {
		return userRepo
	}
	if pgPool != nil && !GetConfig().UseMemoryStore() {
		userRepo = pginfra.NewUserRepository(pgPool)
	} else {
		userRepo = memory.NewUserRepository()
	}
	return userRepo
}

func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil {
		c := GetConfig()
		jwtManager = helpers.NewJWTManager(c.JWTSecret, c.JWTTTL)
	}
	return jwtManager
}

func SetCookies(m *helpers.Manager) { cookies = m }
func GetCookies() *helpers.Manager {
	if cookies == nil {
		c := GetConfig()
		cookies = helpers.NewCookie(c.CookieDomain, c.CookieSecure)
	}
	return cookies
}

// Reset drops every singleton; tests use it to start from a clean slate.
func Reset() {
	cfg, logger, pgPool = nil, nil, nil
	userRepo, jwtManager, cookies = nil, nil, nil
}
