package editor

import "image"

// History is a linear sequence of image snapshots with a cursor. The
// snapshot at the cursor is the operative image. Pushing while the cursor is
// not at the end discards every snapshot after it first.
type History struct {
	snapshots []image.Image
	cursor    int
}

// NewHistory starts a history whose first snapshot is the loaded image.
func NewHistory(initial image.Image) *History {
	return &History{snapshots: []image.Image{initial}}
}

// Current returns the snapshot at the cursor.
func (h *History) Current() image.Image {
	return h.snapshots[h.cursor]
}

// Push appends a new snapshot after the cursor, discarding any redo states,
// and moves the cursor to it.
func (h *History) Push(img image.Image) {
	h.snapshots = append(h.snapshots[:h.cursor+1], img)
	h.cursor = len(h.snapshots) - 1
}

// Undo moves the cursor back one snapshot. At the first snapshot it is a
// no-op and reports false.
func (h *History) Undo() bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	return true
}

// Redo moves the cursor forward one snapshot. At the last snapshot it is a
// no-op and reports false.
func (h *History) Redo() bool {
	if h.cursor == len(h.snapshots)-1 {
		return false
	}
	h.cursor++
	return true
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Len returns the number of snapshots retained.
func (h *History) Len() int { return len(h.snapshots) }

// Cursor returns the current cursor position.
func (h *History) Cursor() int { return h.cursor }
