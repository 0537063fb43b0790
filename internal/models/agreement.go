package models

import (
	"time"

	"github.com/google/uuid"
)

// BrokerSnapshot captures broker identity at acceptance time. The live
// proposal may sit on a record the reader cannot access, so the agreement
// carries its own copy.
type BrokerSnapshot struct {
	Name    string  `json:"name"`
	Contact string  `json:"contact"`
	Rating  float64 `json:"rating"`
}

// AcceptedAgreement is the materialized record of a proposal reaching
// accepted. It references the proposal and the originating marketplace
// summary (not the full record): owner views filter agreements by summary
// membership. Append-only, stored in a global collection.
type AcceptedAgreement struct {
	ID            string         `json:"id"`
	ProposalID    string         `json:"proposal_id"`
	SummaryID     string         `json:"summary_id"`
	Broker        BrokerSnapshot `json:"broker"`
	CommissionPct float64        `json:"commission_pct"`
	AgreedPrice   float64        `json:"agreed_price"`
	AcceptedAt    time.Time      `json:"accepted_at"`
}

// NewAcceptedAgreement snapshots an accepted proposal against its summary.
func NewAcceptedAgreement(proposal *BrokerProposal, summaryID string) AcceptedAgreement {
	return AcceptedAgreement{
		ID:         uuid.NewString(),
		ProposalID: proposal.ID,
		SummaryID:  summaryID,
		Broker: BrokerSnapshot{
			Name:    proposal.BrokerName,
			Contact: proposal.BrokerContact,
			Rating:  proposal.BrokerRating,
		},
		CommissionPct: proposal.CommissionPct,
		AgreedPrice:   proposal.ProposedPrice,
		AcceptedAt:    time.Now().UTC(),
	}
}
