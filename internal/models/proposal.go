package models

import (
	"time"

	"github.com/google/uuid"
)

// ProposalStatus is the lifecycle state of a broker proposal.
// Accepted and rejected are terminal.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// Terminal reports whether no further transition is legal from s.
func (s ProposalStatus) Terminal() bool {
	return s == ProposalAccepted || s == ProposalRejected
}

// DecisionAction is an owner's verdict on a pending proposal.
type DecisionAction string

const (
	ActionAccept DecisionAction = "accept"
	ActionReject DecisionAction = "reject"
)

// BrokerProposal is a broker's bid on a listing, embedded in its
// FullListingRecord and driven through pending -> accepted|rejected.
type BrokerProposal struct {
	ID            string         `json:"id"`
	BrokerID      string         `json:"broker_id"`
	BrokerName    string         `json:"broker_name"`
	BrokerContact string         `json:"broker_contact"`
	BrokerRating  float64        `json:"broker_rating"`
	CommissionPct float64        `json:"commission_pct"`
	ProposedPrice float64        `json:"proposed_price"`
	Message       string         `json:"message,omitempty"`
	Status        ProposalStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	RespondedAt   *time.Time     `json:"responded_at,omitempty"`
}

// ProposalDraft is the broker-supplied input for a new proposal.
type ProposalDraft struct {
	BrokerID      string  `json:"broker_id"`
	BrokerName    string  `json:"broker_name"`
	BrokerContact string  `json:"broker_contact"`
	BrokerRating  float64 `json:"broker_rating"`
	CommissionPct float64 `json:"commission_pct"`
	ProposedPrice float64 `json:"proposed_price"`
	Message       string  `json:"message,omitempty"`
}

// NewBrokerProposal builds a pending proposal with a fresh id.
func NewBrokerProposal(draft ProposalDraft) BrokerProposal {
	return BrokerProposal{
		ID:            uuid.NewString(),
		BrokerID:      draft.BrokerID,
		BrokerName:    draft.BrokerName,
		BrokerContact: draft.BrokerContact,
		BrokerRating:  draft.BrokerRating,
		CommissionPct: draft.CommissionPct,
		ProposedPrice: draft.ProposedPrice,
		Message:       draft.Message,
		Status:        ProposalPending,
		CreatedAt:     time.Now().UTC(),
	}
}
