package dto

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/spec-kit/profile-service/internal/domain"
)

// telegramHandlePattern: leading @ followed by 5-32 word characters.
var telegramHandlePattern = regexp.MustCompile(`^@[\w\d_]{5,32}$`)

// UserUpdateRequest is the PATCH payload. Absent fields leave the stored
// value untouched.
type UserUpdateRequest struct {
	TelegramHandle *string `json:"telegram_handle"`
	ReminderDays   *int    `json:"reminder_days"`
}

// Validate runs validation rules.
func (r UserUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TelegramHandle, validation.NilOrNotEmpty, validation.Match(telegramHandlePattern)),
		validation.Field(&r.ReminderDays, validation.Min(0), validation.Max(30)),
	)
}

// Patch converts the request into a domain patch.
func (r UserUpdateRequest) Patch() domain.UserPatch {
	return domain.UserPatch{
		TelegramHandle: r.TelegramHandle,
		ReminderDays:   r.ReminderDays,
	}
}

// UserResponse serializes one user row.
type UserResponse struct {
	ID             int64     `json:"id"`
	ClerkID        string    `json:"clerk_id"`
	TelegramHandle *string   `json:"telegram_handle"`
	ReminderDays   int       `json:"reminder_days"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUserResponse maps a domain user to its response shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		ClerkID:        user.ClerkID,
		TelegramHandle: user.TelegramHandle,
		ReminderDays:   user.ReminderDays,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
