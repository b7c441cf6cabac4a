package models

import "time"

// Account is a stored login account. PasswordHash never leaves the auth
// service; responses use projections instead of this struct.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
