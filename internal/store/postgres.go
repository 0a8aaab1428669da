package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"linkvault/internal/model"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// PostgresStore implements Store on a Postgres database via lib/pq.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the given DSN and ensures the schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the schema if it does not exist. The seq columns give
// a stable insertion order for listings.
func (s *PostgresStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS folders (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			parent_id TEXT REFERENCES folders(id),
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_folders_user_id ON folders(user_id);

		CREATE TABLE IF NOT EXISTS links (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			folder_id TEXT NOT NULL REFERENCES folders(id),
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_links_user_id ON links(user_id);
		CREATE INDEX IF NOT EXISTS idx_links_folder_id ON links(folder_id);

		CREATE TABLE IF NOT EXISTS tags (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS link_tags (
			link_id TEXT NOT NULL REFERENCES links(id),
			tag_id TEXT NOT NULL REFERENCES tags(id),
			PRIMARY KEY (link_id, tag_id)
		);

		CREATE TABLE IF NOT EXISTS shared_links (
			id TEXT PRIMARY KEY,
			link_id TEXT NOT NULL REFERENCES links(id),
			token TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// isUnique reports whether err is a Postgres unique constraint violation.
func isUnique(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

func (s *PostgresStore) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, lower($2), $3, $4)
	`, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if isUnique(err) {
		return model.ErrConflict
	}
	return err
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, model.ErrNotFound
	}
	return u, err
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE email = lower($1)
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, model.ErrNotFound
	}
	return u, err
}

func (s *PostgresStore) CreateFolder(ctx context.Context, folder model.Folder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO folders (id, user_id, name, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, folder.ID, folder.UserID, folder.Name, folder.ParentID, folder.CreatedAt)
	return err
}

func (s *PostgresStore) GetFolder(ctx context.Context, id string) (model.Folder, error) {
	var f model.Folder
	var parentID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, parent_id, created_at FROM folders WHERE id = $1
	`, id).Scan(&f.ID, &f.UserID, &f.Name, &parentID, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Folder{}, model.ErrNotFound
	}
	if err != nil {
		return model.Folder{}, err
	}
	if parentID.Valid {
		f.ParentID = &parentID.String
	}
	return f, nil
}

func (s *PostgresStore) ListFolders(ctx context.Context, userID string) ([]model.Folder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, parent_id, created_at
		FROM folders
		WHERE user_id = $1
		ORDER BY seq
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders := []model.Folder{}
	for rows.Next() {
		var f model.Folder
		var parentID sql.NullString
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &parentID, &f.CreatedAt); err != nil {
			return nil, err
		}
		if parentID.Valid {
			f.ParentID = &parentID.String
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (s *PostgresStore) CreateLink(ctx context.Context, link model.Link) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO links (id, user_id, folder_id, url, title, description, icon, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, link.ID, link.UserID, link.FolderID, link.URL, link.Title,
		link.Description, link.Icon, link.Notes, link.CreatedAt)
	return err
}

func (s *PostgresStore) GetLink(ctx context.Context, id string) (model.Link, error) {
	var l model.Link
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, folder_id, url, title, description, icon, notes, created_at
		FROM links WHERE id = $1
	`, id).Scan(&l.ID, &l.UserID, &l.FolderID, &l.URL, &l.Title,
		&l.Description, &l.Icon, &l.Notes, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Link{}, model.ErrNotFound
	}
	return l, err
}

func (s *PostgresStore) UpdateLink(ctx context.Context, link model.Link) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE links
		SET folder_id = $1, url = $2, title = $3, description = $4, icon = $5, notes = $6
		WHERE id = $7
	`, link.FolderID, link.URL, link.Title, link.Description, link.Icon, link.Notes, link.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListLinks(ctx context.Context, userID string) ([]model.Link, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, folder_id, url, title, description, icon, notes, created_at
		FROM links
		WHERE user_id = $1
		ORDER BY seq
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []model.Link{}
	for rows.Next() {
		var l model.Link
		if err := rows.Scan(&l.ID, &l.UserID, &l.FolderID, &l.URL, &l.Title,
			&l.Description, &l.Icon, &l.Notes, &l.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (s *PostgresStore) CreateTag(ctx context.Context, tag model.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, user_id, name) VALUES ($1, $2, $3)
	`, tag.ID, tag.UserID, tag.Name)
	return err
}

func (s *PostgresStore) GetTag(ctx context.Context, id string) (model.Tag, error) {
	var t model.Tag
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name FROM tags WHERE id = $1
	`, id).Scan(&t.ID, &t.UserID, &t.Name)
	if err == sql.ErrNoRows {
		return model.Tag{}, model.ErrNotFound
	}
	return t, err
}

func (s *PostgresStore) ListTags(ctx context.Context, userID string) ([]model.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name FROM tags WHERE user_id = $1 ORDER BY seq
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *PostgresStore) AttachTag(ctx context.Context, linkID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO link_tags (link_id, tag_id) VALUES ($1, $2)
		ON CONFLICT (link_id, tag_id) DO NOTHING
	`, linkID, tagID)
	return err
}

func (s *PostgresStore) DetachTag(ctx context.Context, linkID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM link_tags WHERE link_id = $1 AND tag_id = $2
	`, linkID, tagID)
	return err
}

func (s *PostgresStore) ListLinkTags(ctx context.Context, linkID string) ([]model.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.name
		FROM tags t
		JOIN link_tags lt ON lt.tag_id = t.id
		WHERE lt.link_id = $1
		ORDER BY t.seq
	`, linkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *PostgresStore) CreateShare(ctx context.Context, share model.SharedLink) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shared_links (id, link_id, token, created_at)
		VALUES ($1, $2, $3, $4)
	`, share.ID, share.LinkID, share.Token, share.CreatedAt)
	return err
}

func (s *PostgresStore) GetShareByToken(ctx context.Context, token string) (model.SharedLink, error) {
	var sh model.SharedLink
	err := s.db.QueryRowContext(ctx, `
		SELECT id, link_id, token, created_at FROM shared_links WHERE token = $1
	`, token).Scan(&sh.ID, &sh.LinkID, &sh.Token, &sh.CreatedAt)
	if err == sql.ErrNoRows {
		return model.SharedLink{}, model.ErrNotFound
	}
	return sh, err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
