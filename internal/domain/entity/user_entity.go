package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Password is stored as a bcrypt hash in PasswordHash; the hash never
// leaves the repository/application layers.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Country      string
	City         string
	Zip          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
