package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/store"
)

// IAgreementService reconciles accepted proposals into agreements.
type IAgreementService interface {
	// Reconcile materializes the agreement for an accepted proposal and fans
	// out the acceptance notification. The agreement write happens before the
	// notification so that a reader following the notification always finds
	// the agreement.
	Reconcile(ctx context.Context, record *models.FullListingRecord, proposal *models.BrokerProposal) (*models.AcceptedAgreement, error)

	ListAgreements(ctx context.Context) ([]models.AcceptedAgreement, error)
}

// agreementService implements IAgreementService.
type agreementService struct {
	kv            store.KV
	notifications INotificationService
}

// NewAgreementService creates a new AgreementService.
func NewAgreementService(kv store.KV, notifications INotificationService) IAgreementService {
	return &agreementService{kv: kv, notifications: notifications}
}

func (s *agreementService) Reconcile(ctx context.Context, record *models.FullListingRecord, proposal *models.BrokerProposal) (*models.AcceptedAgreement, error) {
	if proposal.Status != models.ProposalAccepted {
		return nil, fmt.Errorf("proposal %s is %s, not accepted: %w", proposal.ID, proposal.Status, ErrInvalidTransition)
	}

	summary, err := s.summaryForRecord(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	agreement := models.NewAcceptedAgreement(proposal, summary.ID)
	if err := s.kv.Append(ctx, store.KeyAgreements, agreement); err != nil {
		return nil, fmt.Errorf("writing agreement for proposal %s: %w", proposal.ID, err)
	}

	_, err = s.notifications.Notify(ctx, record.OwnerID, models.NotificationEvent{
		ListingID:  record.ID,
		ProposalID: proposal.ID,
		Kind:       models.NotifyProposalAccepted,
		Message:    fmt.Sprintf("Proposal from %s accepted at %.2f", proposal.BrokerName, proposal.ProposedPrice),
	})
	if err != nil {
		// The agreement stands; only its notification is missing. The next
		// poll cannot see what was never written, so report loudly.
		log.Printf("CRITICAL: agreement %s written but acceptance notification for owner %s failed: %v", agreement.ID, record.OwnerID, err)
	}
	return &agreement, nil
}

// summaryForRecord resolves the marketplace summary derived from recordID.
// Under the engine's invariants exactly one must exist; zero means the
// publish-time summary write was lost and the acceptance cannot be
// reconciled.
func (s *agreementService) summaryForRecord(ctx context.Context, recordID string) (*models.MarketplaceSummary, error) {
	var summaries []models.MarketplaceSummary
	err := s.kv.Get(ctx, store.KeySummaries, &summaries)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	bySource := make(map[string]*models.MarketplaceSummary, len(summaries))
	for i := range summaries {
		bySource[summaries[i].SourceRecordID] = &summaries[i]
	}

	summary, ok := bySource[recordID]
	if !ok {
		log.Printf("CRITICAL: no marketplace summary resolves to record %s; acceptance cannot be reconciled", recordID)
		return nil, fmt.Errorf("record %s has no marketplace summary: %w", recordID, ErrIntegrity)
	}
	return summary, nil
}

func (s *agreementService) ListAgreements(ctx context.Context) ([]models.AcceptedAgreement, error) {
	var agreements []models.AcceptedAgreement
	err := s.kv.Get(ctx, store.KeyAgreements, &agreements)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return agreements, err
}
