package store

import (
	"context"
	"errors"

	"grn-daily/internal/model"
)

// Collection names as they exist in the document database.
const (
	CollectionCurrent     = "dailyNews"
	CollectionArchived    = "archivedNews"
	CollectionSubscribers = "newsletter"
)

var (
	// ErrNotFound means the referenced document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrIndexRequired means the store has no index supporting a
	// composite filter+sort query. Callers surface this separately from
	// generic unavailability so the operator gets an actionable message.
	ErrIndexRequired = errors.New("no index supports this query")

	// ErrUnavailable wraps transient infrastructure failures.
	ErrUnavailable = errors.New("document store unavailable")
)

// Query is an equality filter combined with a single-field sort.
type Query struct {
	Field      string
	Equals     string
	SortBy     string
	Descending bool
}

// Store is the document-store adapter. Each operation is atomic per
// document; there are no transactions across collections, which is why
// the repository's archive move is a two-step protocol.
type Store interface {
	// Insert writes a new document and returns its store-assigned id.
	Insert(ctx context.Context, collection string, a *model.Article) (string, error)

	// Put writes a document under a caller-chosen id, replacing any
	// existing document with that id.
	Put(ctx context.Context, collection, id string, a *model.Article) error

	Get(ctx context.Context, collection, id string) (*model.Article, error)

	// List returns every document in the collection in natural
	// (insertion) order.
	List(ctx context.Context, collection string) ([]model.Article, error)

	// Find runs an equality filter + sort. Fails with ErrIndexRequired
	// when no supporting composite index exists.
	Find(ctx context.Context, collection string, q Query) ([]model.Article, error)

	// Delete removes a document. Deleting an absent id returns
	// ErrNotFound; callers that want idempotency ignore it.
	Delete(ctx context.Context, collection, id string) error

	AddSubscriber(ctx context.Context, s *model.Subscriber) error
	Subscribers(ctx context.Context) ([]model.Subscriber, error)

	Close(ctx context.Context) error
}
