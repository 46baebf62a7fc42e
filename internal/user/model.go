package user

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`

	// PasswordHash never leaves the service.
	PasswordHash string `json:"-"`
}
