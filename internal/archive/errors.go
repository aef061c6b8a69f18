package archive

import "errors"

var (
	// ErrFormat is returned when the header fails validation: bad
	// magic, unsupported version, or inconsistent slot counts. The
	// archive is unusable; nothing past the header is read.
	ErrFormat = errors.New("not a valid pak archive")

	// ErrNotFound is returned when no live record matches a path or id.
	ErrNotFound = errors.New("entry not found")

	// ErrIsDirectory is returned when content is opened on a directory
	// record.
	ErrIsDirectory = errors.New("entry is a directory")

	// ErrNotLoaded is returned when a query runs before Load has
	// completed. This is a caller bug, not an archive condition.
	ErrNotLoaded = errors.New("archive session not loaded")
)
