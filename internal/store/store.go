// Package store defines the persistence port for linkvault and its
// backends: an ephemeral in-memory store and two relational stores
// (SQLite, Postgres) behind the same interface.
package store

import (
	"context"

	"linkvault/internal/model"
)

// Store is the persistence interface for all entities. Implementations
// are safe for concurrent use and return the model sentinel errors:
// ErrNotFound for missing rows, ErrConflict for a duplicate user email.
// Referential checks beyond those live in the service layer.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, id string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	// Folders
	CreateFolder(ctx context.Context, folder model.Folder) error
	GetFolder(ctx context.Context, id string) (model.Folder, error)
	ListFolders(ctx context.Context, userID string) ([]model.Folder, error)

	// Links
	CreateLink(ctx context.Context, link model.Link) error
	GetLink(ctx context.Context, id string) (model.Link, error)
	UpdateLink(ctx context.Context, link model.Link) error
	ListLinks(ctx context.Context, userID string) ([]model.Link, error)

	// Tags and associations. AttachTag is idempotent; DetachTag of an
	// absent pair is a no-op.
	CreateTag(ctx context.Context, tag model.Tag) error
	GetTag(ctx context.Context, id string) (model.Tag, error)
	ListTags(ctx context.Context, userID string) ([]model.Tag, error)
	AttachTag(ctx context.Context, linkID, tagID string) error
	DetachTag(ctx context.Context, linkID, tagID string) error
	ListLinkTags(ctx context.Context, linkID string) ([]model.Tag, error)

	// Shares
	CreateShare(ctx context.Context, share model.SharedLink) error
	GetShareByToken(ctx context.Context, token string) (model.SharedLink, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
