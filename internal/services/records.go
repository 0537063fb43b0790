package services

import (
	"context"
	"errors"
	"log"

	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/remote"
	"github.com/idrealestat/aqariai-core/internal/store"
)

// ITaskEnqueuer hands failed mirror calls to the background queue for replay.
// Implemented by the tasks package; services tolerate a nil enqueuer.
type ITaskEnqueuer interface {
	EnqueueMirrorSync(ctx context.Context, call remote.Call) error
}

// loadOwnerRecords reads an owner's full record collection. An absent
// collection is an empty one.
func loadOwnerRecords(ctx context.Context, kv store.KV, ownerID string) ([]models.FullListingRecord, error) {
	var records []models.FullListingRecord
	err := kv.Get(ctx, store.FullRecordsKey(ownerID), &records)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return records, err
}

func saveOwnerRecords(ctx context.Context, kv store.KV, ownerID string, records []models.FullListingRecord) error {
	return kv.Set(ctx, store.FullRecordsKey(ownerID), records)
}

// findRecord locates a record by id inside an owner's collection.
// Returns the index into records, or -1.
func findRecord(records []models.FullListingRecord, recordID string) int {
	for i := range records {
		if records[i].ID == recordID {
			return i
		}
	}
	return -1
}

// findRecordAcrossOwners locates a record by id alone by walking every
// owner-scoped collection. Proposals arrive with only a record id; the
// broker does not know (and must not learn) which owner holds it.
func findRecordAcrossOwners(ctx context.Context, kv store.KV, recordID string) (ownerID string, records []models.FullListingRecord, idx int, err error) {
	keys, err := kv.Keys(ctx, store.FullRecordsPrefix())
	if err != nil {
		return "", nil, -1, err
	}
	for _, key := range keys {
		owner := store.OwnerFromRecordsKey(key)
		if owner == "" {
			continue
		}
		recs, err := loadOwnerRecords(ctx, kv, owner)
		if err != nil {
			return "", nil, -1, err
		}
		if i := findRecord(recs, recordID); i >= 0 {
			return owner, recs, i, nil
		}
	}
	return "", nil, -1, ErrNotFound
}

// attemptMirror runs a best-effort remote write. Failure is logged and the
// captured call is queued for background replay; the caller proceeds as if
// the write succeeded. The local store is the source of truth.
func attemptMirror(ctx context.Context, enqueuer ITaskEnqueuer, op func() error, call remote.Call) {
	if err := op(); err != nil {
		log.Printf("WARN: remote mirror %s %s failed, continuing with local write: %v", call.Method, call.Path, err)
		if enqueuer != nil {
			if qErr := enqueuer.EnqueueMirrorSync(ctx, call); qErr != nil {
				log.Printf("WARN: could not queue mirror replay for %s %s: %v", call.Method, call.Path, qErr)
			}
		}
	}
}
