// pkg/nav/errors.go
package nav

import "errors"

var (
	// ErrNotFound is returned when a path names neither a member nor an implicit directory
	ErrNotFound = errors.New("no such file or directory in archive")

	// ErrNotADirectory is returned when a directory operation hits a plain file
	ErrNotADirectory = errors.New("not a directory")

	// ErrIsADirectory is returned when a file operation hits a directory
	ErrIsADirectory = errors.New("is a directory")
)
