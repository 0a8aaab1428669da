// Package service is the authoritative entry point for all entity
// operations: folder hierarchy, link creation with metadata enrichment,
// tagging and sharing. The route layer calls in with an already
// authenticated user id; this layer only authorizes by owner comparison.
package service

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"linkvault/internal/meta"
	"linkvault/internal/model"
	"linkvault/internal/search"
	"linkvault/internal/store"
)

// Service composes the storage port with the metadata resolver.
type Service struct {
	store    store.Store
	resolver *meta.Resolver
	log      zerolog.Logger
}

// New creates a Service.
func New(st store.Store, resolver *meta.Resolver, log zerolog.Logger) *Service {
	return &Service{
		store:    st,
		resolver: resolver,
		log:      log,
	}
}

// CreateUser registers a new user. The credential is bcrypt-hashed
// before it reaches the store. Returns ErrConflict for a duplicate
// email, ErrValidation for empty inputs.
func (s *Service) CreateUser(ctx context.Context, email, credential string) (model.User, error) {
	if email == "" || credential == "" {
		return model.User{}, model.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}

	user := model.NewUser(email, string(hash))
	if err := s.store.CreateUser(ctx, user); err != nil {
		return model.User{}, err
	}

	s.log.Info().Str("user", user.ID).Msg("user created")
	return user, nil
}

// GetUser looks up a user by id.
func (s *Service) GetUser(ctx context.Context, id string) (model.User, error) {
	return s.store.GetUser(ctx, id)
}

// GetUserByEmail looks up a user by email, for the auth collaborator.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.store.GetUserByEmail(ctx, email)
}

// CreateFolder creates a folder for the user. A non-nil parent must be
// an existing folder owned by the same user (ErrInvalidReference).
func (s *Service) CreateFolder(ctx context.Context, userID, name string, parentID *string) (model.Folder, error) {
	if name == "" {
		return model.Folder{}, model.ErrValidation
	}

	if parentID != nil {
		tree, err := s.folderTree(ctx, userID)
		if err != nil {
			return model.Folder{}, err
		}
		if !tree.Contains(*parentID) {
			return model.Folder{}, model.ErrInvalidReference
		}
	}

	folder := model.NewFolder(model.NewFolderParams{
		UserID:   userID,
		Name:     name,
		ParentID: parentID,
	})
	if err := s.store.CreateFolder(ctx, folder); err != nil {
		return model.Folder{}, err
	}

	s.log.Debug().Str("user", userID).Str("folder", folder.ID).Msg("folder created")
	return folder, nil
}

// ListFolders returns the user's folders under the given parent, in
// insertion order. A nil parent selects root level folders.
func (s *Service) ListFolders(ctx context.Context, userID string, parentID *string) ([]model.Folder, error) {
	tree, err := s.folderTree(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tree.ChildrenOf(parentID), nil
}

// FolderPath returns the ancestor chain from the root down to and
// including the given folder, ErrNotFound if the user does not own it.
func (s *Service) FolderPath(ctx context.Context, userID, folderID string) ([]model.Folder, error) {
	tree, err := s.folderTree(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tree.PathTo(folderID)
}

// CreateLink saves a URL into a folder, resolving display metadata
// synchronously. Metadata degradation never fails the call; only a bad
// folder reference (ErrInvalidReference) or an unparsable URL
// (ErrValidation) does.
func (s *Service) CreateLink(ctx context.Context, userID, folderID, rawURL, notes string) (model.Link, error) {
	if !validURL(rawURL) {
		return model.Link{}, model.ErrValidation
	}
	if err := s.checkFolderOwned(ctx, userID, folderID); err != nil {
		return model.Link{}, err
	}

	md := s.resolver.Resolve(ctx, rawURL)

	link := model.NewLink(model.NewLinkParams{
		UserID:      userID,
		FolderID:    folderID,
		URL:         rawURL,
		Title:       md.Title,
		Description: md.Description,
		Icon:        md.Icon,
		Notes:       notes,
	})
	if err := s.store.CreateLink(ctx, link); err != nil {
		return model.Link{}, err
	}

	s.log.Info().Str("user", userID).Str("link", link.ID).Str("url", rawURL).Msg("link created")
	return link, nil
}

// RefreshLink drops the cached metadata for the link's URL and
// re-resolves it, persisting the result.
func (s *Service) RefreshLink(ctx context.Context, userID, linkID string) (model.Link, error) {
	link, err := s.linkOwned(ctx, userID, linkID)
	if err != nil {
		return model.Link{}, err
	}

	s.resolver.Invalidate(link.URL)
	md := s.resolver.Resolve(ctx, link.URL)

	link.Title = md.Title
	link.Description = md.Description
	link.Icon = md.Icon
	if err := s.store.UpdateLink(ctx, link); err != nil {
		return model.Link{}, err
	}
	return link, nil
}

// ListLinksParams narrows a listing. A nil FolderID means all of the
// user's links; a non-empty SearchText keeps only links whose title,
// URL, description or notes contain it case-insensitively.
type ListLinksParams struct {
	FolderID   *string
	SearchText string
}

// ListLinks returns the user's links, optionally narrowed by folder and
// search text.
func (s *Service) ListLinks(ctx context.Context, userID string, params ListLinksParams) ([]model.Link, error) {
	links, err := s.store.ListLinks(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.FolderID != nil {
		filtered := []model.Link{}
		for _, l := range links {
			if l.FolderID == *params.FolderID {
				filtered = append(filtered, l)
			}
		}
		links = filtered
	}

	return search.Filter(links, params.SearchText), nil
}

// QuickSearch fuzzy-matches the user's links by title, best score first.
func (s *Service) QuickSearch(ctx context.Context, userID, query string) ([]search.Result, error) {
	links, err := s.store.ListLinks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return search.Rank(links, query), nil
}

// CreateTag creates a tag for the user. Tag name uniqueness per user is
// not enforced; the UI treats duplicates as a logical error.
func (s *Service) CreateTag(ctx context.Context, userID, name string) (model.Tag, error) {
	if name == "" {
		return model.Tag{}, model.ErrValidation
	}

	tag := model.NewTag(userID, name)
	if err := s.store.CreateTag(ctx, tag); err != nil {
		return model.Tag{}, err
	}
	return tag, nil
}

// ListTags returns the user's tags in insertion order.
func (s *Service) ListTags(ctx context.Context, userID string) ([]model.Tag, error) {
	return s.store.ListTags(ctx, userID)
}

// AttachTag associates a tag with a link. Idempotent: attaching the
// same pair twice leaves one association.
func (s *Service) AttachTag(ctx context.Context, userID, linkID, tagID string) error {
	if err := s.checkPairOwned(ctx, userID, linkID, tagID); err != nil {
		return err
	}
	return s.store.AttachTag(ctx, linkID, tagID)
}

// DetachTag removes a link/tag association. Detaching an absent pair is
// a no-op.
func (s *Service) DetachTag(ctx context.Context, userID, linkID, tagID string) error {
	if err := s.checkPairOwned(ctx, userID, linkID, tagID); err != nil {
		return err
	}
	return s.store.DetachTag(ctx, linkID, tagID)
}

// LinkTags returns the tags attached to a link owned by the user.
func (s *Service) LinkTags(ctx context.Context, userID, linkID string) ([]model.Tag, error) {
	if _, err := s.linkOwned(ctx, userID, linkID); err != nil {
		return nil, err
	}
	return s.store.ListLinkTags(ctx, linkID)
}

// ShareLink mints a new share token for the link. Each call produces a
// distinct token; all remain valid.
func (s *Service) ShareLink(ctx context.Context, linkID string) (model.SharedLink, error) {
	if _, err := s.store.GetLink(ctx, linkID); err != nil {
		return model.SharedLink{}, err
	}

	share := model.NewSharedLink(linkID)
	if err := s.store.CreateShare(ctx, share); err != nil {
		return model.SharedLink{}, err
	}

	s.log.Info().Str("link", linkID).Msg("share token minted")
	return share, nil
}

// ResolveShare returns the link behind a share token, regardless of
// owner. Share tokens bypass ownership checks by design.
func (s *Service) ResolveShare(ctx context.Context, token string) (model.Link, error) {
	share, err := s.store.GetShareByToken(ctx, token)
	if err != nil {
		return model.Link{}, err
	}
	return s.store.GetLink(ctx, share.LinkID)
}

// folderTree loads the user's folders into a Tree snapshot.
func (s *Service) folderTree(ctx context.Context, userID string) (*model.Tree, error) {
	folders, err := s.store.ListFolders(ctx, userID)
	if err != nil {
		return nil, err
	}
	return model.NewTree(folders), nil
}

// checkFolderOwned verifies the folder exists and belongs to the user.
func (s *Service) checkFolderOwned(ctx context.Context, userID, folderID string) error {
	folder, err := s.store.GetFolder(ctx, folderID)
	if err == model.ErrNotFound {
		return model.ErrInvalidReference
	}
	if err != nil {
		return err
	}
	if folder.UserID != userID {
		return model.ErrInvalidReference
	}
	return nil
}

// linkOwned fetches a link and hides other users' links behind
// ErrNotFound.
func (s *Service) linkOwned(ctx context.Context, userID, linkID string) (model.Link, error) {
	link, err := s.store.GetLink(ctx, linkID)
	if err != nil {
		return model.Link{}, err
	}
	if link.UserID != userID {
		return model.Link{}, model.ErrNotFound
	}
	return link, nil
}

// checkPairOwned verifies both sides of a link/tag association.
func (s *Service) checkPairOwned(ctx context.Context, userID, linkID, tagID string) error {
	if _, err := s.linkOwned(ctx, userID, linkID); err != nil {
		return err
	}
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return err
	}
	if tag.UserID != userID {
		return model.ErrNotFound
	}
	return nil
}

// validURL accepts absolute http(s) URLs with a host.
func validURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
