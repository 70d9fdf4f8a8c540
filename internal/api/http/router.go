package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/profile-service/internal/api/http/handlers"
	"github.com/spec-kit/profile-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	DBTest         *handlers.DBTestHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The admission middleware runs on every
// request; its path classification decides whether identity gets resolved.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/", cfg.Health.Root)
	app.Get("/health", cfg.Health.Health)

	users := app.Group("/users")
	users.Get("/me", cfg.Users.Me)
	users.Patch("/me", cfg.Users.UpdateMe)
	users.Delete("/me", cfg.Users.DeleteMe)

	dbTest := app.Group("/db-test")
	dbTest.Get("/ping", cfg.DBTest.Ping)
}
