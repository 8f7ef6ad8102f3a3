// Package store persists computed diagrams for the HTTP service.
//
// Backends implement [Store]:
//   - [MemoryStore]: process-local, for development and tests
//   - [MongoStore]: MongoDB, for deployments with several replicas
//
// Records are immutable once saved; saving a record with an existing ID
// replaces it.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/provflow/pkg/diagram"
	"github.com/matzehuels/provflow/pkg/errors"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New(errors.ErrCodeDiagramNotFound, "diagram not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record is a stored diagram and the inputs that produced it.
type Record struct {
	ID          string          `json:"id" bson:"_id"`
	Name        string          `json:"name,omitempty" bson:"name,omitempty"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	DatasetHash string          `json:"dataset_hash" bson:"dataset_hash"`
	Ordering    string          `json:"ordering" bson:"ordering"`
	Diagram     diagram.Diagram `json:"diagram" bson:"diagram"`
}

// NewRecord returns a record with a fresh random ID.
func NewRecord(name, datasetHash, ordering string, d diagram.Diagram) *Record {
	return &Record{
		ID:          uuid.NewString(),
		Name:        name,
		CreatedAt:   time.Now().UTC(),
		DatasetHash: datasetHash,
		Ordering:    ordering,
		Diagram:     d,
	}
}

// Store is the interface for diagram persistence backends.
type Store interface {
	// Save inserts or replaces r.
	Save(ctx context.Context, r *Record) error

	// Get returns the record with id or an error matching ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// ValidateID rejects IDs that are not UUIDs, so malformed requests never
// reach a backend.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid diagram id %q", id)
	}
	return nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
