package models

import "time"

// User is a registered account. PasswordHash is cleared by the service
// layer before a User leaves the auth core.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
