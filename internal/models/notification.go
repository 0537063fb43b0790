package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies what triggered an inbox entry.
type NotificationKind string

const (
	NotifyBrokerResponse   NotificationKind = "broker_response"
	NotifyProposalAccepted NotificationKind = "proposal_accepted"
)

// OwnerNotification is a per-owner inbox entry referencing the triggering
// listing and broker response. Only the Read flag is ever mutated; repeated
// delivery of the same underlying event produces repeated entries.
type OwnerNotification struct {
	ID         string           `json:"id"`
	OwnerID    string           `json:"owner_id"`
	ListingID  string           `json:"listing_id"`
	ProposalID string           `json:"proposal_id"`
	Kind       NotificationKind `json:"kind"`
	Message    string           `json:"message"`
	Read       bool             `json:"read"`
	CreatedAt  time.Time        `json:"created_at"`
}

// NotificationEvent describes what to deliver to an owner's inbox.
type NotificationEvent struct {
	ListingID  string
	ProposalID string
	Kind       NotificationKind
	Message    string
}

// NewOwnerNotification builds an unread inbox entry for ownerID.
func NewOwnerNotification(ownerID string, event NotificationEvent) OwnerNotification {
	return OwnerNotification{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		ListingID:  event.ListingID,
		ProposalID: event.ProposalID,
		Kind:       event.Kind,
		Message:    event.Message,
		Read:       false,
		CreatedAt:  time.Now().UTC(),
	}
}
