package store

import (
	"context"
	"strings"
	"sync"

	"linkvault/internal/model"
)

// MemoryStore is an ephemeral Store backed by slices, preserving
// insertion order. All state is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	users   []model.User
	folders []model.Folder
	links   []model.Link
	tags    []model.Tag
	pairs   []model.LinkTag
	shares  []model.SharedLink
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) CreateUser(_ context.Context, user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return model.ErrConflict
		}
	}
	m.users = append(m.users, user)
	return nil
}

func (m *MemoryStore) GetUser(_ context.Context, id string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (m *MemoryStore) CreateFolder(_ context.Context, folder model.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.folders = append(m.folders, folder)
	return nil
}

func (m *MemoryStore) GetFolder(_ context.Context, id string) (model.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, f := range m.folders {
		if f.ID == id {
			return f, nil
		}
	}
	return model.Folder{}, model.ErrNotFound
}

func (m *MemoryStore) ListFolders(_ context.Context, userID string) ([]model.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []model.Folder{}
	for _, f := range m.folders {
		if f.UserID == userID {
			result = append(result, f)
		}
	}
	return result, nil
}

func (m *MemoryStore) CreateLink(_ context.Context, link model.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.links = append(m.links, link)
	return nil
}

func (m *MemoryStore) GetLink(_ context.Context, id string) (model.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.links {
		if l.ID == id {
			return l, nil
		}
	}
	return model.Link{}, model.ErrNotFound
}

func (m *MemoryStore) UpdateLink(_ context.Context, link model.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.links {
		if m.links[i].ID == link.ID {
			m.links[i] = link
			return nil
		}
	}
	return model.ErrNotFound
}

func (m *MemoryStore) ListLinks(_ context.Context, userID string) ([]model.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []model.Link{}
	for _, l := range m.links {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *MemoryStore) CreateTag(_ context.Context, tag model.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tags = append(m.tags, tag)
	return nil
}

func (m *MemoryStore) GetTag(_ context.Context, id string) (model.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.tags {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Tag{}, model.ErrNotFound
}

func (m *MemoryStore) ListTags(_ context.Context, userID string) ([]model.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []model.Tag{}
	for _, t := range m.tags {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *MemoryStore) AttachTag(_ context.Context, linkID, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.pairs {
		if p.LinkID == linkID && p.TagID == tagID {
			return nil
		}
	}
	m.pairs = append(m.pairs, model.LinkTag{LinkID: linkID, TagID: tagID})
	return nil
}

func (m *MemoryStore) DetachTag(_ context.Context, linkID, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.pairs {
		if p.LinkID == linkID && p.TagID == tagID {
			m.pairs = append(m.pairs[:i], m.pairs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemoryStore) ListLinkTags(_ context.Context, linkID string) ([]model.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []model.Tag{}
	for _, p := range m.pairs {
		if p.LinkID != linkID {
			continue
		}
		for _, t := range m.tags {
			if t.ID == p.TagID {
				result = append(result, t)
				break
			}
		}
	}
	return result, nil
}

func (m *MemoryStore) CreateShare(_ context.Context, share model.SharedLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shares = append(m.shares, share)
	return nil
}

func (m *MemoryStore) GetShareByToken(_ context.Context, token string) (model.SharedLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.shares {
		if s.Token == token {
			return s, nil
		}
	}
	return model.SharedLink{}, model.ErrNotFound
}

func (m *MemoryStore) Ping(_ context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
