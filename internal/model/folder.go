package model

import "time"

// Folder represents a container for links and other folders.
// Folders form a forest per user; ParentID nil means root level.
type Folder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewFolderParams holds parameters for creating a new Folder.
type NewFolderParams struct {
	UserID   string
	Name     string
	ParentID *string
}

// NewFolder creates a Folder with generated UUID and timestamp.
func NewFolder(params NewFolderParams) Folder {
	return Folder{
		ID:        GenerateUUID(),
		UserID:    params.UserID,
		Name:      params.Name,
		ParentID:  params.ParentID,
		CreatedAt: time.Now(),
	}
}
