package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/profile-service/internal/repository"
	apperrors "github.com/spec-kit/profile-service/pkg/util"
)

// DBTestHandler exposes a connectivity probe against the store.
type DBTestHandler struct {
	db repository.DB
}

// NewDBTestHandler constructs handler.
func NewDBTestHandler(db repository.DB) *DBTestHandler {
	return &DBTestHandler{db: db}
}

// Ping handles GET /db-test/ping with one trivial round trip. Failures come
// back as a generic internal error; the cause is only logged.
func (h *DBTestHandler) Ping(c *fiber.Ctx) error {
	var result int
	if err := h.db.QueryRow(c.Context(), "SELECT 1").Scan(&result); err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{
		"status": "connected",
		"result": result,
	})
}
