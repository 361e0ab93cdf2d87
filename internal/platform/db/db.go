package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yope/ethereum-contract/pkg/storage"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

var (
	// ErrInvalidDBProvided is returned in the event that an uninitialized
	// db is used to perform actions against.
	ErrInvalidDBProvided = errors.New("Invalid DB provided")

	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Entity not found")
)

// DB wraps document storage. The raw storage is not exposed; callers go
// through Put/Fetch/List keyed by path-like strings.
type DB struct {
	storage storage.Storage
}

// StorageConfig is geared towards "bucket" style storage, where you have
// a specific root (the Bucket).
type StorageConfig struct {
	Bucket string
	Root   string
}

// New returns a new DB value for use with document storage.
func New(sc *StorageConfig) (*DB, error) {
	var store storage.Storage
	if sc != nil {
		storeConfig := storage.NewConfig(sc.Bucket, sc.Root)
		if strings.ToLower(sc.Bucket) == "standalone" {
			store = storage.NewFilesystemStorage(storeConfig)
		} else {
			store = storage.NewS3Storage(storeConfig)
		}
	}

	db := DB{
		storage: store,
	}

	return &db, nil
}

// StatusCheck validates the DB status good.
func (db *DB) StatusCheck(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "platform.DB.StatusCheck")
	defer span.End()

	if db.storage != nil {
		// Generate a random key that is almost certain not to exist.
		uid, _ := uuid.NewRandom()
		ts := time.Now().UnixNano()
		k := fmt.Sprintf("healthcheck/%v/%v", uid, ts)

		// We should receive a "not found" error for a non-existent key.
		if _, err := db.Fetch(ctx, k); err != ErrNotFound {
			return err
		}
	}

	return nil
}

// Close closes a DB value being used.
func (db *DB) Close() {
	db.storage = nil
}

// Put saves a document under the key.
func (db *DB) Put(ctx context.Context, key string, body []byte) error {
	ctx, span := trace.StartSpan(ctx, "platform.DB.Put")
	defer span.End()

	if db.storage == nil {
		return ErrInvalidDBProvided
	}

	return db.storage.Write(ctx, key, body, nil)
}

// Fetch retrieves the document stored under the key. Returns ErrNotFound
// when no document exists.
func (db *DB) Fetch(ctx context.Context, key string) ([]byte, error) {
	ctx, span := trace.StartSpan(ctx, "platform.DB.Fetch")
	defer span.End()

	if db.storage == nil {
		return nil, ErrInvalidDBProvided
	}

	b, err := db.storage.Read(ctx, key)
	if err != nil {
		if errors.Cause(err) == storage.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return b, nil
}

// List returns all documents stored under the path.
func (db *DB) List(ctx context.Context, path string) ([][]byte, error) {
	ctx, span := trace.StartSpan(ctx, "platform.DB.List")
	defer span.End()

	if db.storage == nil {
		return nil, ErrInvalidDBProvided
	}

	return db.storage.List(ctx, path)
}

// Remove deletes the document stored under the key.
func (db *DB) Remove(ctx context.Context, key string) error {
	ctx, span := trace.StartSpan(ctx, "platform.DB.Remove")
	defer span.End()

	if db.storage == nil {
		return ErrInvalidDBProvided
	}

	return db.storage.Remove(ctx, key)
}
