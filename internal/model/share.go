package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// SharedLink grants read access to one link via an unguessable token.
// Multiple tokens may point at the same link; re-sharing mints a new one.
type SharedLink struct {
	ID        string    `json:"id"`
	LinkID    string    `json:"linkId"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSharedLink creates a SharedLink with a freshly minted token.
func NewSharedLink(linkID string) SharedLink {
	return SharedLink{
		ID:        GenerateUUID(),
		LinkID:    linkID,
		Token:     newShareToken(),
		CreatedAt: time.Now(),
	}
}

// newShareToken returns 16 random bytes hex-encoded (128 bits of entropy).
func newShareToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}
