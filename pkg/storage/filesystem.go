package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FilesystemStorage implements the Storage interface against the local
// filesystem.
type FilesystemStorage struct {
	Config Config
}

// NewFilesystemStorage returns filesystem backed storage with S3 like
// semantics.
func NewFilesystemStorage(config Config) FilesystemStorage {
	return FilesystemStorage{
		Config: config,
	}
}

// Write writes the data to the key in the bucket.
func (f FilesystemStorage) Write(ctx context.Context,
	key string,
	body []byte,
	options *Options) error {

	if options == nil {
		opts := NewOptions()
		options = &opts
	}

	filename := f.buildPath(key)

	// make sure directory exists.
	if err := f.ensureExists(path.Dir(filename), options); err != nil {
		return err
	}

	return os.WriteFile(filename, body, options.Mode)
}

// Read reads the data from a file on the local filesystem.
func (f FilesystemStorage) Read(ctx context.Context,
	key string) ([]byte, error) {

	filename := f.buildPath(key)

	// check for existence of file
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, ErrNotFound
	}

	return os.ReadFile(filename)
}

// Remove removes the object stored at key, in the bucket.
func (f FilesystemStorage) Remove(ctx context.Context, key string) error {
	return os.Remove(f.buildPath(key))
}

// List returns all objects stored under the path.
//
// The path can be empty.
func (f FilesystemStorage) List(ctx context.Context, p string) ([][]byte, error) {
	dir := f.buildPath(p)

	if err := f.ensureExists(dir, nil); err != nil {
		return nil, err
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	objects := [][]byte{}

	for _, info := range files {
		if info.IsDir() {
			continue
		}

		b, err := f.Read(ctx, strings.Join([]string{p, info.Name()}, "/"))
		if err != nil {
			return nil, err
		}

		objects = append(objects, b)
	}

	return objects, nil
}

func (f FilesystemStorage) buildPath(key string) string {
	parts := []string{
		f.Config.Root,
		f.Config.Bucket,
	}

	if len(key) > 0 {
		parts = append(parts, key)
	}

	return filepath.FromSlash(strings.Join(parts, "/"))
}

func (f FilesystemStorage) ensureExists(dir string, options *Options) error {
	if options == nil {
		opts := NewOptions()
		options = &opts
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, options.DirMode); err != nil {
			return err
		}
	}

	return nil
}
