package domain

import "time"

// User is the local profile row provisioned for one identity provider
// account. ClerkID joins the row to the external identity; it never changes
// after creation.
type User struct {
	ID             int64
	ClerkID        string
	TelegramHandle *string
	ReminderDays   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserPatch carries optional field updates. Nil fields are left untouched,
// never nulled.
type UserPatch struct {
	TelegramHandle *string
	ReminderDays   *int
}
