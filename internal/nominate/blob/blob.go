package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("blob: not found")
	ErrInvalidName = errors.New("blob: invalid name")
)

// Store is name-addressed binary storage. Drivers (local, s3, gcs, badger)
// implement it; all methods are safe for concurrent use.
type Store interface {
	// Put stores data under name and returns the reference to persist.
	Put(ctx context.Context, name, contentType string, data []byte) (ref string, err error)

	// Get opens the blob at ref. Returns ErrNotFound if it does not exist.
	// The caller must close the reader.
	Get(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete removes the blob at ref. Deleting a missing blob is not an error.
	Delete(ctx context.Context, ref string) error

	// List returns every blob whose reference starts with prefix.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Object describes a stored blob.
type Object struct {
	Ref     string
	Size    int64
	ModTime time.Time
}

// ValidateName rejects names that could escape a driver's namespace. Names
// are flat: no separators, no dot segments, nothing empty.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return ErrInvalidName
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return ErrInvalidName
	}
	return nil
}
