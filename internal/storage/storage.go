package storage

import "image"

// Saver writes a bitmap to disk under a derived filename and returns the
// final path. It does not record anything in the history catalog; callers
// pair a successful save with a record insert.
type Saver interface {
	Save(img image.Image, dir, hint string) (string, error)
}
