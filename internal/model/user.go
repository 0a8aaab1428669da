package model

import "time"

// User owns folders, links and tags. Email is unique across the store.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser creates a User with generated UUID and timestamp.
// The password hash is supplied by the caller; the model never sees
// plaintext credentials.
func NewUser(email, passwordHash string) User {
	return User{
		ID:           GenerateUUID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}
