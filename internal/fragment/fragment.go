// Package fragment defines the unit of storage and retrieval and the stores
// that persist it.
package fragment

import (
	"context"
	"errors"
)

// Fragment is a bounded span of a document's extracted text. Fragments are
// write-once: inserted during ingestion, never mutated.
type Fragment struct {
	DocumentID string `bson:"document_id" json:"document_id"`
	Text       string `bson:"text" json:"text"`
	Source     string `bson:"source" json:"source"`
	Page       int    `bson:"page" json:"page"`
	Order      int    `bson:"order" json:"order"`
}

// ErrUnavailable indicates the persistence collaborator cannot be reached.
// It always propagates so ingestion can report partial failure.
var ErrUnavailable = errors.New("fragment store unavailable")

// Store persists fragments and serves per-document lookups. The connection
// behind it is a process-scoped resource: opened once at startup, shared by
// all requests, closed at shutdown.
type Store interface {
	// Store batch-inserts fragments. No-op on an empty batch.
	Store(ctx context.Context, fragments []Fragment) error
	// FetchTop returns up to k fragments of a document sorted by Order
	// ascending. No fragments is an empty slice, not an error.
	FetchTop(ctx context.Context, documentID string, k int) ([]Fragment, error)
	// Delete removes every fragment of a document. Used to roll back a
	// failed ingestion.
	Delete(ctx context.Context, documentID string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
