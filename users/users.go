package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an identity record owned by the external User/Session Store.
// Records are immutable after signup: there are no update or delete paths.
type User struct {
	ID           string    `json:"id,omitempty"`         // Unique identifier assigned by the store
	Email        string    `json:"email,omitempty"`      // User's email address, unique across all users
	Name         string    `json:"name,omitempty"`       // Display name
	PasswordHash string    `json:"-"`                    // Hashed password - never serialize
	CreatedAt    time.Time `json:"created_at,omitempty"` // When the record was written
}

// HashPassword one-way transforms a plaintext password with bcrypt and a
// random salt. The empty string is a valid input.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether the plaintext matches the stored hash.
// A malformed hash yields false, never an error.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
