package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leca/prompt-studio/internal/model"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by GetRecord when no row matches the id.
var ErrNotFound = errors.New("record not found")

// SQLiteDB implements Database backed by SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) an SQLite database at dsn and runs migrations.
// For in-memory use pass "file::memory:?cache=shared".
func NewSQLiteDB(dsn string) (*SQLiteDB, error) {
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	} else if !strings.Contains(dsn, "_journal_mode") {
		dsn += "&_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) InsertRecord(rec *model.ImageRecord) (int64, error) {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	res, err := s.db.Exec(`
		INSERT INTO images (prompt, filename, filepath, provider, created_at, width, height, extra_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Prompt, rec.Filename, rec.Filepath, rec.Provider,
		created.UTC().Format(time.RFC3339), rec.Width, rec.Height, rec.ExtraData,
	)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	rec.ID = id
	rec.CreatedAt = created
	return id, nil
}

func (s *SQLiteDB) ListRecent(limit int) ([]*model.ImageRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.Query(`
		SELECT id, prompt, filename, filepath, provider, created_at, width, height, extra_data
		FROM images
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *SQLiteDB) Search(substring string, limit int) ([]*model.ImageRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	// SQLite LIKE is case-insensitive for ASCII. Escape wildcard characters
	// so the user's substring matches literally.
	pattern := "%" + escapeLike(substring) + "%"

	rows, err := s.db.Query(`
		SELECT id, prompt, filename, filepath, provider, created_at, width, height, extra_data
		FROM images
		WHERE prompt LIKE ? ESCAPE '\'
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *SQLiteDB) GetRecord(id int64) (*model.ImageRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, prompt, filename, filepath, provider, created_at, width, height, extra_data
		FROM images WHERE id = ?`,
		id,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (s *SQLiteDB) DeleteRecord(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scannable) (*model.ImageRecord, error) {
	rec := &model.ImageRecord{}
	var createdStr string
	var width, height sql.NullInt64
	var extra sql.NullString

	err := row.Scan(&rec.ID, &rec.Prompt, &rec.Filename, &rec.Filepath,
		&rec.Provider, &createdStr, &width, &height, &extra)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	rec.Width = int(width.Int64)
	rec.Height = int(height.Int64)
	rec.ExtraData = extra.String
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]*model.ImageRecord, error) {
	var records []*model.ImageRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
