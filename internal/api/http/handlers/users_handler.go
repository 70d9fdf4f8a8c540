package handlers

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/profile-service/internal/api/dto"
	"github.com/spec-kit/profile-service/internal/auth"
	"github.com/spec-kit/profile-service/internal/service"
	apperrors "github.com/spec-kit/profile-service/pkg/util"
)

// UsersHandler exposes the current-user profile endpoints. Identity comes
// from the admission middleware; its absence is rejected here, not there.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Me handles GET /users/me. First access provisions the row, so the call
// never fails with not-found.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	clerkID, ok := auth.ClerkIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	user, err := h.users.GetOrCreate(c.Context(), clerkID, service.ProvisionDefaults{})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// UpdateMe handles PATCH /users/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	clerkID, ok := auth.ClerkIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(map[string]any{"body": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(validationDetails(err))
	}

	user, err := h.users.Update(c.Context(), clerkID, req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// DeleteMe handles DELETE /users/me. Removal is local only.
func (h *UsersHandler) DeleteMe(c *fiber.Ctx) error {
	clerkID, ok := auth.ClerkIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	if err := h.users.Delete(c.Context(), clerkID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// validationDetails flattens ozzo field errors into a details map keyed by
// field name.
func validationDetails(err error) map[string]any {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for field, ferr := range fieldErrs {
			details[field] = ferr.Error()
		}
		return details
	}
	return map[string]any{"body": err.Error()}
}
