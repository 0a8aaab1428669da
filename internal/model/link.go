package model

import "time"

// Link represents a saved URL with resolved display metadata.
// Title is always populated; Description, Icon and Notes may be empty.
type Link struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	FolderID    string    `json:"folderId"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewLinkParams holds parameters for creating a new Link.
type NewLinkParams struct {
	UserID      string
	FolderID    string
	URL         string
	Title       string
	Description string
	Icon        string
	Notes       string
}

// NewLink creates a Link with generated UUID and timestamp.
func NewLink(params NewLinkParams) Link {
	return Link{
		ID:          GenerateUUID(),
		UserID:      params.UserID,
		FolderID:    params.FolderID,
		URL:         params.URL,
		Title:       params.Title,
		Description: params.Description,
		Icon:        params.Icon,
		Notes:       params.Notes,
		CreatedAt:   time.Now(),
	}
}
