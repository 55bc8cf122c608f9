// Package session tracks open edit sessions. A session pairs the originally
// loaded image with a snapshot history; all mutation of one session is
// serialized behind its mutex, matching the single-writer discipline of the
// desktop UI: no two logical operations run concurrently against the same
// edit state.
package session

import (
	"errors"
	"image"
	"sync"

	"github.com/google/uuid"

	"github.com/leca/prompt-studio/internal/editor"
)

// ErrNotFound is returned when no session matches the id.
var ErrNotFound = errors.New("session not found")

// Session is one open image with its undo/redo history. RecordID points at
// the history row the image was loaded from, zero when the image did not
// come from the catalog.
type Session struct {
	ID       string
	RecordID int64
	Prompt   string

	mu      sync.Mutex
	history *editor.History
}

// Current returns the operative image, the snapshot at the history cursor.
func (s *Session) Current() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Current()
}

// Push appends a new snapshot, discarding any redo states.
func (s *Session) Push(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Push(img)
}

// Undo steps back one snapshot; a no-op at the original image.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Undo()
}

// Redo steps forward one snapshot; a no-op at the newest.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Redo()
}

// State describes the history for clients.
type State struct {
	Snapshots int  `json:"snapshots"`
	Cursor    int  `json:"cursor"`
	CanUndo   bool `json:"can_undo"`
	CanRedo   bool `json:"can_redo"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Snapshots: s.history.Len(),
		Cursor:    s.history.Cursor(),
		CanUndo:   s.history.CanUndo(),
		CanRedo:   s.history.CanRedo(),
	}
}

// Manager owns all open sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Open starts a session whose first snapshot is img.
func (m *Manager) Open(img image.Image, recordID int64, prompt string) *Session {
	s := &Session{
		ID:       uuid.New().String(),
		RecordID: recordID,
		Prompt:   prompt,
		history:  editor.NewHistory(img),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Close discards a session and reports whether it existed.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
