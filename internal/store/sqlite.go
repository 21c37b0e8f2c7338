// Package store keeps brandings in a local SQLite database so templates can
// be edited and saved without access to the provider API.
package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/branding"
	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
)

// SQLiteStore implements branding.Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

var _ branding.Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens the database at dbPath and creates the schema.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStore, "open sqlite database").
			WithContext("path", dbPath).
			Build()
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, ferrors.WrapError(err, ferrors.CategoryStore, "initialize schema").Build()
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	PRAGMA foreign_keys = ON;
	CREATE TABLE IF NOT EXISTS brandings (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		text_color TEXT NOT NULL DEFAULT '',
		layout_color TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS branding_templates (
		branding_id TEXT NOT NULL REFERENCES brandings(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		html TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (branding_id, category)
	);
	CREATE INDEX IF NOT EXISTS idx_brandings_created ON brandings(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// List returns every branding, oldest first, with its templates.
func (s *SQLiteStore) List(ctx context.Context) ([]branding.Branding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, text_color, layout_color, created_at FROM brandings ORDER BY created_at, id")
	if err != nil {
		return nil, queryError(err, "query brandings")
	}
	defer rows.Close()

	var out []branding.Branding
	for rows.Next() {
		b, err := scanBranding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(err, "iterate brandings")
	}

	for i := range out {
		if out[i].Templates, err = s.templates(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Get returns one branding or a not_found error.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*branding.Branding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, text_color, layout_color, created_at FROM brandings WHERE id = ?", id)
	b, err := scanBranding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ferrors.NotFoundError("branding not found").WithContext("id", id).Build()
	}
	if err != nil {
		return nil, err
	}
	if b.Templates, err = s.templates(ctx, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a branding with one template and returns its new id.
func (s *SQLiteStore) Create(ctx context.Context, req branding.CreateRequest) (string, error) {
	if req.Name == "" {
		return "", ferrors.ValidationError("branding name is required").Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	now := s.now().Unix()
	err := s.tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO brandings (id, name, text_color, layout_color, created_at) VALUES (?, ?, ?, ?, ?)",
			id, req.Name, req.TextColor, req.LayoutColor, now); err != nil {
			return err
		}
		return upsertTemplate(ctx, tx, id, string(req.Category), req.HTML, now)
	})
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryStore, "create branding").Build()
	}
	return id, nil
}

// Update replaces the template of one category and the colours.
func (s *SQLiteStore) Update(ctx context.Context, id string, req branding.UpdateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	var missing bool
	err := s.tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE brandings SET text_color = ?, layout_color = ? WHERE id = ?",
			req.TextColor, req.LayoutColor, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			missing = true
			return nil
		}
		return upsertTemplate(ctx, tx, id, string(req.Category), req.HTML, now)
	})
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStore, "update branding").Build()
	}
	if missing {
		return ferrors.NotFoundError("branding not found").WithContext("id", id).Build()
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func (s *SQLiteStore) templates(ctx context.Context, id string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, html FROM branding_templates WHERE branding_id = ?", id)
	if err != nil {
		return nil, queryError(err, "query templates")
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var category, html string
		if err := rows.Scan(&category, &html); err != nil {
			return nil, queryError(err, "scan template")
		}
		out[category] = html
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(err, "iterate templates")
	}
	return out, nil
}

func (s *SQLiteStore) tx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func upsertTemplate(ctx context.Context, tx *sql.Tx, id, category, html string, now int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO branding_templates (branding_id, category, html, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(branding_id, category) DO UPDATE SET html = excluded.html, updated_at = excluded.updated_at`,
		id, category, html, now)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBranding(row scanner) (branding.Branding, error) {
	var b branding.Branding
	var created int64
	if err := row.Scan(&b.ID, &b.Name, &b.TextColor, &b.LayoutColor, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, queryError(err, "scan branding")
	}
	b.CreatedAt = time.Unix(created, 0).UTC().Format(time.RFC3339)
	return b, nil
}

func queryError(err error, msg string) error {
	return ferrors.WrapError(err, ferrors.CategoryStore, msg).Build()
}
