package storage

import (
	"context"
	"os"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when reading a key that does not exist.
	ErrNotFound = errors.New("Object not found")
)

// Options alter the behavior of a write.
type Options struct {
	Mode    os.FileMode
	DirMode os.FileMode
}

// NewOptions returns the default write options.
func NewOptions() Options {
	return Options{
		Mode:    0644,
		DirMode: 0755,
	}
}

// Storage is a "bucket" style document store. Keys are path-like strings.
type Storage interface {
	Write(ctx context.Context, key string, body []byte, options *Options) error
	Read(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
	List(ctx context.Context, path string) ([][]byte, error)
}
