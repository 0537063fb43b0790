package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/idrealestat/aqariai-core/internal/config"
	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/remote"
	"github.com/idrealestat/aqariai-core/internal/store"
)

// IProposalService attaches broker proposals to listing records and drives
// their pending -> accepted|rejected lifecycle.
type IProposalService interface {
	AddProposal(ctx context.Context, recordID string, draft models.ProposalDraft) (*models.BrokerProposal, error)
	Decide(ctx context.Context, recordID, proposalID string, action models.DecisionAction) error
}

// proposalService implements IProposalService.
type proposalService struct {
	kv            store.KV
	cfg           *config.Config
	mirror        remote.Mirror
	enqueuer      ITaskEnqueuer
	agreements    IAgreementService
	notifications INotificationService
}

// NewProposalService creates a new ProposalService.
func NewProposalService(kv store.KV, cfg *config.Config, mirror remote.Mirror, enqueuer ITaskEnqueuer, agreements IAgreementService, notifications INotificationService) IProposalService {
	return &proposalService{
		kv:            kv,
		cfg:           cfg,
		mirror:        mirror,
		enqueuer:      enqueuer,
		agreements:    agreements,
		notifications: notifications,
	}
}

// AddProposal appends a pending proposal to the record identified by
// recordID and notifies the record's owner that a broker responded.
func (s *proposalService) AddProposal(ctx context.Context, recordID string, draft models.ProposalDraft) (*models.BrokerProposal, error) {
	ownerID, records, idx, err := findRecordAcrossOwners(ctx, s.kv, recordID)
	if err != nil {
		return nil, err
	}

	proposal := models.NewBrokerProposal(draft)
	records[idx].Proposals = append(records[idx].Proposals, proposal)
	records[idx].UpdatedAt = time.Now().UTC()

	call, _ := remote.NewCall(http.MethodPost, "/listings/"+recordID+"/proposals", &proposal)
	attemptMirror(ctx, s.enqueuer, func() error {
		return s.mirror.AddProposal(ctx, recordID, &proposal)
	}, call)

	if err := saveOwnerRecords(ctx, s.kv, ownerID, records); err != nil {
		return nil, fmt.Errorf("attaching proposal to record %s: %w", recordID, err)
	}

	if _, err := s.notifications.Notify(ctx, ownerID, models.NotificationEvent{
		ListingID:  recordID,
		ProposalID: proposal.ID,
		Kind:       models.NotifyBrokerResponse,
		Message:    fmt.Sprintf("New proposal from %s", proposal.BrokerName),
	}); err != nil {
		return nil, err
	}

	return &proposal, nil
}

// Decide applies the owner's verdict to a pending proposal. Deciding a
// proposal that already reached a terminal status fails with
// ErrInvalidTransition and changes nothing. On accept the agreement is
// reconciled before Decide returns.
func (s *proposalService) Decide(ctx context.Context, recordID, proposalID string, action models.DecisionAction) error {
	if action != models.ActionAccept && action != models.ActionReject {
		return fmt.Errorf("unknown decision %q: %w", action, ErrInvalidTransition)
	}

	ownerID, records, idx, err := findRecordAcrossOwners(ctx, s.kv, recordID)
	if err != nil {
		return err
	}

	proposal := records[idx].FindProposal(proposalID)
	if proposal == nil {
		return ErrNotFound
	}
	if proposal.Status != models.ProposalPending {
		return fmt.Errorf("proposal %s is already %s: %w", proposalID, proposal.Status, ErrInvalidTransition)
	}
	if action == models.ActionAccept && !s.cfg.AllowMultipleAcceptances && records[idx].HasAcceptedProposal() {
		return fmt.Errorf("listing %s: %w", recordID, ErrAlreadyAccepted)
	}

	now := time.Now().UTC()
	switch action {
	case models.ActionAccept:
		proposal.Status = models.ProposalAccepted
	case models.ActionReject:
		proposal.Status = models.ProposalRejected
	}
	proposal.RespondedAt = &now
	records[idx].UpdatedAt = now

	call, _ := remote.NewCall(http.MethodPatch, "/proposals/"+proposalID, map[string]string{"status": string(proposal.Status)})
	attemptMirror(ctx, s.enqueuer, func() error {
		return s.mirror.UpdateProposal(ctx, proposalID, proposal.Status)
	}, call)

	if err := saveOwnerRecords(ctx, s.kv, ownerID, records); err != nil {
		return fmt.Errorf("persisting decision on proposal %s: %w", proposalID, err)
	}

	if proposal.Status == models.ProposalAccepted {
		if _, err := s.agreements.Reconcile(ctx, &records[idx], proposal); err != nil {
			return err
		}
	}
	return nil
}
