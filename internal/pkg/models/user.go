package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountType distinguishes passengers from drivers. It is fixed at signup
// and never changes for the lifetime of the account.
type AccountType string

const (
	AccountTypePassenger AccountType = "passenger"
	AccountTypeDriver    AccountType = "driver"
)

// Valid reports whether the account type is one of the known values.
func (t AccountType) Valid() bool {
	return t == AccountTypePassenger || t == AccountTypeDriver
}

// AuthToken is the result of a successful login.
type AuthToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      *User  `json:"user"`
}

// User represents an account in the system (either passenger or driver)
type User struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	FullName     string      `json:"full_name" db:"full_name"`
	Email        string      `json:"email" db:"email"`
	AccountType  AccountType `json:"account_type" db:"account_type"`
	PasswordHash string      `json:"-" db:"password_hash"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}
