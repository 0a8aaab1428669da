package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"linkvault/internal/model"
)

const sqliteSchemaVersion = 1

// SQLiteStore implements Store on a SQLite database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path and migrates it.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys and set pragmas for performance
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStore) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY NOT NULL,
			email TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS folders (
			id TEXT PRIMARY KEY NOT NULL,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			parent_id TEXT,
			created_at TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (parent_id) REFERENCES folders(id)
		);

		CREATE INDEX IF NOT EXISTS idx_folders_user_id ON folders(user_id);
		CREATE INDEX IF NOT EXISTS idx_folders_parent_id ON folders(parent_id);

		CREATE TABLE IF NOT EXISTS links (
			id TEXT PRIMARY KEY NOT NULL,
			user_id TEXT NOT NULL,
			folder_id TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (folder_id) REFERENCES folders(id)
		);

		CREATE INDEX IF NOT EXISTS idx_links_user_id ON links(user_id);
		CREATE INDEX IF NOT EXISTS idx_links_folder_id ON links(folder_id);

		CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY NOT NULL,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		);

		CREATE INDEX IF NOT EXISTS idx_tags_user_id ON tags(user_id);

		CREATE TABLE IF NOT EXISTS link_tags (
			link_id TEXT NOT NULL,
			tag_id TEXT NOT NULL,
			PRIMARY KEY (link_id, tag_id),
			FOREIGN KEY (link_id) REFERENCES links(id),
			FOREIGN KEY (tag_id) REFERENCES tags(id)
		);

		CREATE TABLE IF NOT EXISTS shared_links (
			id TEXT PRIMARY KEY NOT NULL,
			link_id TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			FOREIGN KEY (link_id) REFERENCES links(id)
		);

		CREATE INDEX IF NOT EXISTS idx_shared_links_token ON shared_links(token);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, user.ID, user.Email, user.PasswordHash, formatTime(user.CreatedAt))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint") {
		return model.ErrConflict
	}
	return err
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE id = ?
	`, id)
	return scanUser(row)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE email = ?
	`, email)
	return scanUser(row)
}

func (s *SQLiteStore) CreateFolder(ctx context.Context, folder model.Folder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO folders (id, user_id, name, parent_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, folder.ID, folder.UserID, folder.Name, folder.ParentID, formatTime(folder.CreatedAt))
	return err
}

func (s *SQLiteStore) GetFolder(ctx context.Context, id string) (model.Folder, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, parent_id, created_at FROM folders WHERE id = ?
	`, id)
	return scanFolder(row)
}

func (s *SQLiteStore) ListFolders(ctx context.Context, userID string) ([]model.Folder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, parent_id, created_at
		FROM folders
		WHERE user_id = ?
		ORDER BY rowid
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders := []model.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (s *SQLiteStore) CreateLink(ctx context.Context, link model.Link) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO links (id, user_id, folder_id, url, title, description, icon, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, link.ID, link.UserID, link.FolderID, link.URL, link.Title,
		link.Description, link.Icon, link.Notes, formatTime(link.CreatedAt))
	return err
}

func (s *SQLiteStore) GetLink(ctx context.Context, id string) (model.Link, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, folder_id, url, title, description, icon, notes, created_at
		FROM links WHERE id = ?
	`, id)
	return scanLink(row)
}

func (s *SQLiteStore) UpdateLink(ctx context.Context, link model.Link) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE links
		SET folder_id = ?, url = ?, title = ?, description = ?, icon = ?, notes = ?
		WHERE id = ?
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

func (s *SQLiteStore) ListLinks(ctx context.Context, userID string) ([]model.Link, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, folder_id, url, title, description, icon, notes, created_at
		FROM links
		WHERE user_id = ?
		ORDER BY rowid
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []model.Link{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (s *SQLiteStore) CreateTag(ctx context.Context, tag model.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, user_id, name) VALUES (?, ?, ?)
	`, tag.ID, tag.UserID, tag.Name)
	return err
}

func (s *SQLiteStore) GetTag(ctx context.Context, id string) (model.Tag, error) {
	var t model.Tag
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name FROM tags WHERE id = ?
	`, id).Scan(&t.ID, &t.UserID, &t.Name)
	if err == sql.ErrNoRows {
		return model.Tag{}, model.ErrNotFound
	}
	return t, err
}

func (s *SQLiteStore) ListTags(ctx context.Context, userID string) ([]model.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name FROM tags WHERE user_id = ? ORDER BY rowid
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

func (s *SQLiteStore) AttachTag(ctx context.Context, linkID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO link_tags (link_id, tag_id) VALUES (?, ?)
	`, linkID, tagID)
	return err
}

func (s *SQLiteStore) DetachTag(ctx context.Context, linkID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM link_tags WHERE link_id = ? AND tag_id = ?
	`, linkID, tagID)
	return err
}

func (s *SQLiteStore) ListLinkTags(ctx context.Context, linkID string) ([]model.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.name
		FROM tags t
		JOIN link_tags lt ON lt.tag_id = t.id
		WHERE lt.link_id = ?
		ORDER BY t.rowid
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

func (s *SQLiteStore) CreateShare(ctx context.Context, share model.SharedLink) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shared_links (id, link_id, token, created_at)
		VALUES (?, ?, ?, ?)
	`, share.ID, share.LinkID, share.Token, formatTime(share.CreatedAt))
	return err
}

func (s *SQLiteStore) GetShareByToken(ctx context.Context, token string) (model.SharedLink, error) {
	var sh model.SharedLink
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, link_id, token, created_at FROM shared_links WHERE token = ?
	`, token).Scan(&sh.ID, &sh.LinkID, &sh.Token, &createdAt)
	if err == sql.ErrNoRows {
		return model.SharedLink{}, model.ErrNotFound
	}
	if err != nil {
		return model.SharedLink{}, err
	}
	sh.CreatedAt = parseTime(createdAt)
	return sh, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (model.User, error) {
	var u model.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

func scanFolder(row scanner) (model.Folder, error) {
	var f model.Folder
	var parentID sql.NullString
	var createdAt string
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &parentID, &createdAt)
	if err == sql.ErrNoRows {
		return model.Folder{}, model.ErrNotFound
	}
	if err != nil {
		return model.Folder{}, err
	}
	if parentID.Valid {
		f.ParentID = &parentID.String
	}
	f.CreatedAt = parseTime(createdAt)
	return f, nil
}

func scanLink(row scanner) (model.Link, error) {
	var l model.Link
	var createdAt string
	err := row.Scan(&l.ID, &l.UserID, &l.FolderID, &l.URL, &l.Title,
		&l.Description, &l.Icon, &l.Notes, &createdAt)
	if err == sql.ErrNoRows {
		return model.Link{}, model.ErrNotFound
	}
	if err != nil {
		return model.Link{}, err
	}
	l.CreatedAt = parseTime(createdAt)
	return l, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
