package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/goliatone/go-formdesigner/pkg/form"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS forms (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL DEFAULT '[]',
	fingerprint TEXT NOT NULL DEFAULT '',
	published   INTEGER NOT NULL DEFAULT 0,
	share_url   TEXT NOT NULL UNIQUE,
	visits      INTEGER NOT NULL DEFAULT 0,
	submissions INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS forms_user_id ON forms (user_id);
CREATE TABLE IF NOT EXISTS submissions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	form_id    TEXT NOT NULL REFERENCES forms (id) ON DELETE CASCADE,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_form_id ON submissions (form_id);
`

var formColumns = []string{
	"id", "user_id", "name", "description", "content", "fingerprint",
	"published", "share_url", "visits", "submissions", "created_at", "updated_at",
}

// SQLOption configures a SQLStore.
type SQLOption func(*SQLStore)

// WithSQLClock overrides the timestamp source.
func WithSQLClock(clock Clock) SQLOption {
	return func(s *SQLStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// SQLStore persists forms in SQLite through database/sql.
type SQLStore struct {
	db      *sql.DB
	builder squirrel.StatementBuilderType
	now     Clock
}

var _ Store = (*SQLStore)(nil)

// OpenSQLite opens (or creates) a SQLite database at dsn and applies the
// schema. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, dsn string, options ...SQLOption) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serialises
	// writers, which SQLite requires anyway
	db.SetMaxOpenConns(1)

	s := NewSQLStore(db, options...)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an open database handle. Call Migrate before use.
func NewSQLStore(db *sql.DB, options ...SQLOption) *SQLStore {
	s := &SQLStore{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		now:     defaultClock,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Migrate creates the tables when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("store: enable foreign keys: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) CreateForm(ctx context.Context, in NewForm) (Form, error) {
	now := s.now()
	record := Form{
		ID:          form.NewID(),
		UserID:      in.UserID,
		Name:        in.Name,
		Description: in.Description,
		Content:     "[]",
		ShareURL:    uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	query, args, err := s.builder.Insert("forms").
		Columns(formColumns...).
		Values(record.ID, record.UserID, record.Name, record.Description, record.Content, record.Fingerprint,
			0, record.ShareURL, 0, 0, millis(now), millis(now)).
		ToSql()
	if err != nil {
		return Form{}, err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return Form{}, fmt.Errorf("store: create form: %w", err)
	}
	return s.GetForm(ctx, record.ID)
}

func (s *SQLStore) GetForm(ctx context.Context, id string) (Form, error) {
	return s.getForm(ctx, s.db, squirrel.Eq{"id": id})
}

func (s *SQLStore) ListForms(ctx context.Context, userID string) ([]Form, error) {
	query, args, err := s.builder.Select(formColumns...).
		From("forms").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list forms: %w", err)
	}
	defer rows.Close()

	var out []Form
	for rows.Next() {
		record, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *SQLStore) FormByShareURL(ctx context.Context, shareURL string) (Form, error) {
	query, args, err := s.builder.Update("forms").
		Set("visits", squirrel.Expr("visits + 1")).
		Where(squirrel.Eq{"share_url": shareURL, "published": 1}).
		ToSql()
	if err != nil {
		return Form{}, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return Form{}, fmt.Errorf("store: count visit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Form{}, fmt.Errorf("%w: share url %q", ErrFormNotFound, shareURL)
	}
	return s.getForm(ctx, s.db, squirrel.Eq{"share_url": shareURL})
}

func (s *SQLStore) SaveContent(ctx context.Context, id, content, fingerprint string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	record, err := s.getForm(ctx, tx, squirrel.Eq{"id": id})
	if err != nil {
		return false, err
	}
	if record.Published {
		return false, fmt.Errorf("%w: %q", ErrFormPublished, id)
	}
	if fingerprint != "" && record.Fingerprint == fingerprint {
		return false, nil
	}

	query, args, err := s.builder.Update("forms").
		Set("content", content).
		Set("fingerprint", fingerprint).
		Set("updated_at", millis(s.now())).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("store: save content: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStore) Publish(ctx context.Context, id string) (Form, error) {
	query, args, err := s.builder.Update("forms").
		Set("published", 1).
		Set("updated_at", millis(s.now())).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Form{}, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return Form{}, fmt.Errorf("store: publish: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Form{}, fmt.Errorf("%w: %q", ErrFormNotFound, id)
	}
	return s.GetForm(ctx, id)
}

func (s *SQLStore) DeleteForm(ctx context.Context, id string) error {
	query, args, err := s.builder.Delete("forms").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("store: delete form: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrFormNotFound, id)
	}
	return nil
}

func (s *SQLStore) RecordSubmission(ctx context.Context, formID, content string) (Submission, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Submission{}, err
	}
	defer func() { _ = tx.Rollback() }()

	record, err := s.getForm(ctx, tx, squirrel.Eq{"id": formID})
	if err != nil {
		return Submission{}, err
	}
	if !record.Published {
		return Submission{}, fmt.Errorf("%w: %q", ErrFormNotPublished, formID)
	}

	now := s.now()
	query, args, err := s.builder.Insert("submissions").
		Columns("form_id", "content", "created_at").
		Values(formID, content, millis(now)).
		ToSql()
	if err != nil {
		return Submission{}, err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return Submission{}, fmt.Errorf("store: record submission: %w", err)
	}
	subID, err := res.LastInsertId()
	if err != nil {
		return Submission{}, err
	}

	query, args, err = s.builder.Update("forms").
		Set("submissions", squirrel.Expr("submissions + 1")).
		Where(squirrel.Eq{"id": formID}).
		ToSql()
	if err != nil {
		return Submission{}, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return Submission{}, fmt.Errorf("store: count submission: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Submission{}, err
	}
	return Submission{ID: subID, FormID: formID, Content: content, CreatedAt: fromMillis(millis(now))}, nil
}

func (s *SQLStore) Submissions(ctx context.Context, formID string) ([]Submission, error) {
	if _, err := s.GetForm(ctx, formID); err != nil {
		return nil, err
	}
	query, args, err := s.builder.Select("id", "form_id", "content", "created_at").
		From("submissions").
		Where(squirrel.Eq{"form_id": formID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		var created int64
		if err := rows.Scan(&sub.ID, &sub.FormID, &sub.Content, &created); err != nil {
			return nil, err
		}
		sub.CreatedAt = fromMillis(created)
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteSubmissions(ctx context.Context, formID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.getForm(ctx, tx, squirrel.Eq{"id": formID}); err != nil {
		return err
	}
	query, args, err := s.builder.Delete("submissions").Where(squirrel.Eq{"form_id": formID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store: delete submissions: %w", err)
	}
	query, args, err = s.builder.Update("forms").Set("submissions", 0).Where(squirrel.Eq{"id": formID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store: reset submission count: %w", err)
	}
	return tx.Commit()
}

func (s *SQLStore) Stats(ctx context.Context, userID string) (Stats, error) {
	query, args, err := s.builder.Select("COALESCE(SUM(visits), 0)", "COALESCE(SUM(submissions), 0)").
		From("forms").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return Stats{}, err
	}
	var visits, submissions int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&visits, &submissions); err != nil {
		return Stats{}, fmt.Errorf("store: stats: %w", err)
	}
	return newStats(visits, submissions), nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *SQLStore) getForm(ctx context.Context, q queryRower, where squirrel.Eq) (Form, error) {
	query, args, err := s.builder.Select(formColumns...).From("forms").Where(where).ToSql()
	if err != nil {
		return Form{}, err
	}
	record, err := scanForm(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Form{}, fmt.Errorf("%w: %v", ErrFormNotFound, where)
	}
	return record, err
}

func scanForm(row scanner) (Form, error) {
	var record Form
	var created, updated int64
	err := row.Scan(
		&record.ID, &record.UserID, &record.Name, &record.Description, &record.Content, &record.Fingerprint,
		&record.Published, &record.ShareURL, &record.Visits, &record.Submissions, &created, &updated,
	)
	if err != nil {
		return Form{}, err
	}
	record.CreatedAt = fromMillis(created)
	record.UpdatedAt = fromMillis(updated)
	return record, nil
}

func millis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
