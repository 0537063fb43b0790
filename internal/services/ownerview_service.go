package services

import (
	"context"
	"errors"
	"log"

	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/store"
)

// IOwnerViewService answers "what does this owner see" for collections that
// deliberately carry no owner identity. Summaries are anonymized for the
// shared feed, so ownership is proven by a two-hop foreign-key join:
// agreement -> summary -> source record -> owner.
type IOwnerViewService interface {
	AcceptedAgreementsFor(ctx context.Context, ownerID string) ([]models.AcceptedAgreement, error)
	SummariesFor(ctx context.Context, ownerID string) ([]models.MarketplaceSummary, error)
}

// ownerViewService implements IOwnerViewService.
type ownerViewService struct {
	kv store.KV
}

// NewOwnerViewService creates a new OwnerViewService.
func NewOwnerViewService(kv store.KV) IOwnerViewService {
	return &ownerViewService{kv: kv}
}

// AcceptedAgreementsFor returns the agreements whose underlying listing
// belongs to ownerID. Broken cross-references are skipped with a warning,
// never returned and never fatal; absent collections yield an empty result.
func (s *ownerViewService) AcceptedAgreementsFor(ctx context.Context, ownerID string) ([]models.AcceptedAgreement, error) {
	var agreements []models.AcceptedAgreement
	if err := s.kv.Get(ctx, store.KeyAgreements, &agreements); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	summariesByID, err := s.summariesByID(ctx)
	if err != nil {
		return nil, err
	}
	ownedRecordIDs, err := s.ownedRecordIDs(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var owned []models.AcceptedAgreement
	for _, agreement := range agreements {
		summary, ok := summariesByID[agreement.SummaryID]
		if !ok {
			// Possibly a write that has not completed rather than corruption;
			// treat as not yet visible.
			log.Printf("WARN: agreement %s references missing summary %s, skipping", agreement.ID, agreement.SummaryID)
			continue
		}
		if ownedRecordIDs[summary.SourceRecordID] {
			owned = append(owned, agreement)
		}
	}
	return owned, nil
}

// SummariesFor returns the feed summaries derived from ownerID's records.
func (s *ownerViewService) SummariesFor(ctx context.Context, ownerID string) ([]models.MarketplaceSummary, error) {
	var summaries []models.MarketplaceSummary
	if err := s.kv.Get(ctx, store.KeySummaries, &summaries); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	ownedRecordIDs, err := s.ownedRecordIDs(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var owned []models.MarketplaceSummary
	for _, summary := range summaries {
		if ownedRecordIDs[summary.SourceRecordID] {
			owned = append(owned, summary)
		}
	}
	return owned, nil
}

func (s *ownerViewService) summariesByID(ctx context.Context) (map[string]models.MarketplaceSummary, error) {
	var summaries []models.MarketplaceSummary
	err := s.kv.Get(ctx, store.KeySummaries, &summaries)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	index := make(map[string]models.MarketplaceSummary, len(summaries))
	for _, summary := range summaries {
		index[summary.ID] = summary
	}
	return index, nil
}

func (s *ownerViewService) ownedRecordIDs(ctx context.Context, ownerID string) (map[string]bool, error) {
	records, err := loadOwnerRecords(ctx, s.kv, ownerID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(records))
	for _, record := range records {
		ids[record.ID] = true
	}
	return ids, nil
}
