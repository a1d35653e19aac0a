package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore persists contacts in a SQLite database.
// Uses WAL mode and a single connection to avoid SQLITE_BUSY on writes.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite creates or opens the database at path and applies the schema.
// Safe to call repeatedly on the same file.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

const contactColumns = `id, first, last, favorite, avatar, github, notes, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (Contact, error) {
	var (
		c        Contact
		favorite int
		created  int64
	)
	if err := row.Scan(&c.ID, &c.First, &c.Last, &favorite, &c.Avatar, &c.GitHub, &c.Notes, &created); err != nil {
		return Contact{}, err
	}
	c.Favorite = favorite != 0
	c.CreatedAt = time.Unix(0, created).UTC()
	return c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// List loads every row and applies the shared matcher, so search results are
// identical to the memory store.
func (s *SQLiteStore) List(ctx context.Context, query string) ([]Contact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var all []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		all = append(all, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return Filter(all, query), nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Contact, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	c, err := scanContact(row)
	if err == sql.ErrNoRows {
		return Contact{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Contact{}, fmt.Errorf("get %s: %w", id, err)
	}
	return c, nil
}

func (s *SQLiteStore) Create(ctx context.Context, c Contact) (Contact, error) {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	c.CreatedAt = c.CreatedAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (`+contactColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.First, c.Last, boolToInt(c.Favorite), c.Avatar, c.GitHub, c.Notes, c.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Contact{}, fmt.Errorf("insert contact %s: %w", c.ID, err)
	}
	return c, nil
}

func (s *SQLiteStore) Update(ctx context.Context, c Contact) (Contact, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET first = ?, last = ?, favorite = ?, avatar = ?, github = ?, notes = ? WHERE id = ?`,
		c.First, c.Last, boolToInt(c.Favorite), c.Avatar, c.GitHub, c.Notes, c.ID,
	)
	if err != nil {
		return Contact{}, fmt.Errorf("update %s: %w", c.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Contact{}, fmt.Errorf("update %s: %w", c.ID, ErrNotFound)
	}
	return s.Get(ctx, c.ID)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
