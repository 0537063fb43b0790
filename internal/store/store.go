package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no document exists under the requested key.
	ErrNotFound = errors.New("store: key not found")
)

// KV is the typed wrapper over the persistent key-value medium. Documents are
// JSON-encoded; list collections are stored as JSON arrays under a single key.
// Operations are synchronous and NOT transactional across keys: a crash between
// two writes on different keys can leave the store inconsistent, and readers
// must tolerate missing cross-references.
type KV interface {
	// Get decodes the document stored under key into out.
	// Returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string, out interface{}) error

	// Set overwrites the document stored under key.
	Set(ctx context.Context, key string, value interface{}) error

	// Append treats the document under key as a JSON array and appends item,
	// creating the array if the key is absent.
	Append(ctx context.Context, key string, item interface{}) error

	// Keys returns all keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the document under key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Collection key scheme. The layout is shared with pre-existing data and must
// not change: global collections use a bare name, owner-scoped collections are
// suffixed with the owner id.
const (
	KeySummaries  = "marketplaceSummaries"
	KeyAgreements = "acceptedAgreements"

	fullRecordsPrefix   = "fullRecords:"
	notificationsPrefix = "notifications:"
)

// FullRecordsKey returns the key of an owner's listing-record collection.
func FullRecordsKey(ownerID string) string {
	return fullRecordsPrefix + ownerID
}

// NotificationsKey returns the key of an owner's notification inbox.
func NotificationsKey(ownerID string) string {
	return notificationsPrefix + ownerID
}

// FullRecordsPrefix is the prefix shared by all owner record collections,
// used to enumerate owners when a record must be located by id alone.
func FullRecordsPrefix() string {
	return fullRecordsPrefix
}

// OwnerFromRecordsKey extracts the owner id from a fullRecords key.
// Returns "" if the key is not owner-scoped.
func OwnerFromRecordsKey(key string) string {
	if len(key) <= len(fullRecordsPrefix) || key[:len(fullRecordsPrefix)] != fullRecordsPrefix {
		return ""
	}
	return key[len(fullRecordsPrefix):]
}
