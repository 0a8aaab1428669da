package model

import "errors"

// Error taxonomy shared by the store and service layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrInvalidReference = errors.New("invalid reference")
	ErrValidation       = errors.New("invalid input")
)
