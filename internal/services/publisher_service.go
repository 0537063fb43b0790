package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/idrealestat/aqariai-core/internal/config"
	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/remote"
	"github.com/idrealestat/aqariai-core/internal/store"
)

// IPublisherService defines the interface for listing publication operations.
type IPublisherService interface {
	Publish(ctx context.Context, ownerID string, draft models.ListingDraft) (*models.FullListingRecord, *models.MarketplaceSummary, error)
	SaveDraft(ctx context.Context, ownerID string, draft models.ListingDraft) (*models.FullListingRecord, error)
	PublishDraft(ctx context.Context, ownerID, recordID string) (*models.FullListingRecord, *models.MarketplaceSummary, error)
	UpdateListingStatus(ctx context.Context, ownerID, recordID string, status models.ListingStatus) error
	AddListingNote(ctx context.Context, ownerID, recordID, note string) error
	ListOwnerRecords(ctx context.Context, ownerID string) ([]models.FullListingRecord, error)
	MarketplaceFeed(ctx context.Context) ([]models.MarketplaceSummary, error)
}

// publisherService implements IPublisherService.
type publisherService struct {
	kv       store.KV
	cfg      *config.Config
	mirror   remote.Mirror
	enqueuer ITaskEnqueuer
}

// NewPublisherService creates a new PublisherService. enqueuer may be nil
// when no background queue is configured.
func NewPublisherService(kv store.KV, cfg *config.Config, mirror remote.Mirror, enqueuer ITaskEnqueuer) IPublisherService {
	return &publisherService{kv: kv, cfg: cfg, mirror: mirror, enqueuer: enqueuer}
}

// Publish creates the full record and its marketplace summary as two ordered
// writes. The writes are logically atomic but not storage-atomic: if the
// record write fails no summary is ever written; if the summary write fails
// the record stands without marketplace presence and the error is surfaced.
func (s *publisherService) Publish(ctx context.Context, ownerID string, draft models.ListingDraft) (*models.FullListingRecord, *models.MarketplaceSummary, error) {
	record := models.NewFullListingRecord(ownerID, draft, models.StatusActive)

	call, _ := remote.NewCall(http.MethodPost, "/listings", &record)
	attemptMirror(ctx, s.enqueuer, func() error {
		return s.mirror.CreateListing(ctx, &record)
	}, call)

	if err := s.kv.Append(ctx, store.FullRecordsKey(ownerID), record); err != nil {
		return nil, nil, fmt.Errorf("writing listing record for owner %s: %w", ownerID, err)
	}

	summary, err := s.writeSummary(ctx, &record)
	if err != nil {
		return &record, nil, err
	}
	return &record, summary, nil
}

// SaveDraft stores a record with status draft. Drafts have no marketplace
// presence; the summary is derived only when the draft is published.
func (s *publisherService) SaveDraft(ctx context.Context, ownerID string, draft models.ListingDraft) (*models.FullListingRecord, error) {
	record := models.NewFullListingRecord(ownerID, draft, models.StatusDraft)
	if err := s.kv.Append(ctx, store.FullRecordsKey(ownerID), record); err != nil {
		return nil, fmt.Errorf("writing draft record for owner %s: %w", ownerID, err)
	}
	return &record, nil
}

// PublishDraft transitions a draft to active and derives its summary.
func (s *publisherService) PublishDraft(ctx context.Context, ownerID, recordID string) (*models.FullListingRecord, *models.MarketplaceSummary, error) {
	records, err := loadOwnerRecords(ctx, s.kv, ownerID)
	if err != nil {
		return nil, nil, err
	}
	idx := findRecord(records, recordID)
	if idx < 0 {
		return nil, nil, ErrNotFound
	}
	if records[idx].Status != models.StatusDraft {
		return nil, nil, fmt.Errorf("listing %s is %s: %w", recordID, records[idx].Status, ErrInvalidTransition)
	}

	records[idx].Status = models.StatusActive
	records[idx].UpdatedAt = time.Now().UTC()
	record := records[idx]

	call, _ := remote.NewCall(http.MethodPatch, "/listings/"+recordID, map[string]string{"status": string(models.StatusActive)})
	attemptMirror(ctx, s.enqueuer, func() error {
		return s.mirror.UpdateListing(ctx, recordID, models.StatusActive)
	}, call)

	if err := saveOwnerRecords(ctx, s.kv, ownerID, records); err != nil {
		return nil, nil, fmt.Errorf("updating record %s: %w", recordID, err)
	}

	summary, err := s.writeSummary(ctx, &record)
	if err != nil {
		return &record, nil, err
	}
	return &record, summary, nil
}

// writeSummary derives and appends the feed projection of record. A failure
// here leaves the record without marketplace presence; that degraded state is
// reported loudly and not silently corrected.
func (s *publisherService) writeSummary(ctx context.Context, record *models.FullListingRecord) (*models.MarketplaceSummary, error) {
	summary := models.NewSummary(record)
	if err := s.kv.Append(ctx, store.KeySummaries, summary); err != nil {
		log.Printf("CRITICAL: listing %s saved but its marketplace summary could not be written: %v", record.ID, err)
		return nil, fmt.Errorf("writing marketplace summary for record %s: %w", record.ID, err)
	}
	return &summary, nil
}

// UpdateListingStatus applies a listing status transition. Legal transitions:
// active -> closed, draft -> active (use PublishDraft when the summary is
// needed back).
func (s *publisherService) UpdateListingStatus(ctx context.Context, ownerID, recordID string, status models.ListingStatus) error {
	if status == models.StatusActive {
		_, _, err := s.PublishDraft(ctx, ownerID, recordID)
		return err
	}

	records, err := loadOwnerRecords(ctx, s.kv, ownerID)
	if err != nil {
		return err
	}
	idx := findRecord(records, recordID)
	if idx < 0 {
		return ErrNotFound
	}
	if status != models.StatusClosed || records[idx].Status != models.StatusActive {
		return fmt.Errorf("listing %s cannot go from %s to %s: %w", recordID, records[idx].Status, status, ErrInvalidTransition)
	}

	records[idx].Status = models.StatusClosed
	records[idx].UpdatedAt = time.Now().UTC()

	call, _ := remote.NewCall(http.MethodPatch, "/listings/"+recordID, map[string]string{"status": string(status)})
	attemptMirror(ctx, s.enqueuer, func() error {
		return s.mirror.UpdateListing(ctx, recordID, status)
	}, call)

	return saveOwnerRecords(ctx, s.kv, ownerID, records)
}

// AddListingNote appends a free-text note to a listing record.
func (s *publisherService) AddListingNote(ctx context.Context, ownerID, recordID, note string) error {
	records, err := loadOwnerRecords(ctx, s.kv, ownerID)
	if err != nil {
		return err
	}
	idx := findRecord(records, recordID)
	if idx < 0 {
		return ErrNotFound
	}

	records[idx].Notes = append(records[idx].Notes, note)
	records[idx].UpdatedAt = time.Now().UTC()

	call, _ := remote.NewCall(http.MethodPost, "/listings/"+recordID+"/notes", map[string]string{"note": note})
	attemptMirror(ctx, s.enqueuer, func() error {
		return s.mirror.AddNote(ctx, recordID, note)
	}, call)

	return saveOwnerRecords(ctx, s.kv, ownerID, records)
}

// ListOwnerRecords returns the owner's full records, newest first.
func (s *publisherService) ListOwnerRecords(ctx context.Context, ownerID string) ([]models.FullListingRecord, error) {
	records, err := loadOwnerRecords(ctx, s.kv, ownerID)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// MarketplaceFeed returns every marketplace summary, newest first. The feed
// is shared by all owners and carries no owner identity.
func (s *publisherService) MarketplaceFeed(ctx context.Context) ([]models.MarketplaceSummary, error) {
	var summaries []models.MarketplaceSummary
	err := s.kv.Get(ctx, store.KeySummaries, &summaries)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}
