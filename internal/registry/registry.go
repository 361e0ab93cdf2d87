package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/yope/ethereum-contract/internal/platform/db"
)

const storageKey = "contracts"

var (
	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Contract not found")
)

// Record holds what we know about a deployed contract.
type Record struct {
	Key       string          `json:"key"`
	Address   string          `json:"address"`
	TxHash    string          `json:"txHash"`
	ABI       json.RawMessage `json:"abi,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Save puts a single contract record in storage.
func Save(ctx context.Context, dbConn *db.DB, r *Record) error {
	ctx, span := trace.StartSpan(ctx, "internal.registry.Save")
	defer span.End()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.UpdatedAt = time.Now().UTC()

	b, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal contract record")
	}

	return dbConn.Put(ctx, buildStoragePath(r.Address), b)
}

// Fetch retrieves a single contract record from storage by its deployed
// address.
func Fetch(ctx context.Context, dbConn *db.DB, address string) (*Record, error) {
	ctx, span := trace.StartSpan(ctx, "internal.registry.Fetch")
	defer span.End()

	b, err := dbConn.Fetch(ctx, buildStoragePath(address))
	if err != nil {
		if err == db.ErrNotFound {
			err = ErrNotFound
		}

		return nil, err
	}

	r := Record{}
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}

	return &r, nil
}

// List returns every contract record in storage.
func List(ctx context.Context, dbConn *db.DB) ([]*Record, error) {
	ctx, span := trace.StartSpan(ctx, "internal.registry.List")
	defer span.End()

	bs, err := dbConn.List(ctx, storageKey)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(bs))
	for _, b := range bs {
		r := Record{}
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}

	return records, nil
}

// Remove deletes a single contract record from storage.
func Remove(ctx context.Context, dbConn *db.DB, address string) error {
	ctx, span := trace.StartSpan(ctx, "internal.registry.Remove")
	defer span.End()

	return dbConn.Remove(ctx, buildStoragePath(address))
}

// Returns the storage path for a given deployed address.
func buildStoragePath(address string) string {
	return fmt.Sprintf("%s/%s", storageKey, address)
}
