package domain

import "time"

const (
	LoginTypeEmail  = "email"
	LoginTypeGoogle = "google"
)

// User models an account holder. PasswordHash never leaves the process;
// for google accounts it holds the hash of a generated placeholder, not a
// user-chosen secret.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstname"`
	LastName     string    `json:"lastname"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	LoginType    string    `json:"logintype"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidLoginType reports whether t is one of the supported login types.
func ValidLoginType(t string) bool {
	return t == LoginTypeEmail || t == LoginTypeGoogle
}
