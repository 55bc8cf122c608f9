package database

import "github.com/leca/prompt-studio/internal/model"

// Database is the persistence interface for the image history catalog.
type Database interface {
	// InsertRecord stores a new record and returns its assigned id.
	InsertRecord(rec *model.ImageRecord) (int64, error)

	// ListRecent returns up to limit records, newest first.
	ListRecent(limit int) ([]*model.ImageRecord, error)

	// Search returns up to limit records whose prompt contains the substring,
	// case-insensitively, newest first.
	Search(substring string, limit int) ([]*model.ImageRecord, error)

	// GetRecord fetches one record by id.
	GetRecord(id int64) (*model.ImageRecord, error)

	// DeleteRecord removes the record with the given id and reports whether
	// a row was actually removed. It never touches the filesystem.
	DeleteRecord(id int64) (bool, error)

	Close() error
}

// DefaultListLimit bounds ListRecent and Search when the caller passes a
// non-positive limit.
const DefaultListLimit = 50
