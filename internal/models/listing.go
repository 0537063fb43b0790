package models

import (
	"time"

	"github.com/google/uuid"
)

// ListingKind distinguishes offers (sell/lease) from requests (buy/rent).
type ListingKind string

const (
	KindOffer   ListingKind = "offer"
	KindRequest ListingKind = "request"
)

// TransactionType is the commercial nature of a listing.
type TransactionType string

const (
	TransactionSale TransactionType = "sale"
	TransactionRent TransactionType = "rent"
)

// ListingStatus is the lifecycle state of a full listing record.
// Records are never physically deleted; closure is a status transition.
type ListingStatus string

const (
	StatusActive ListingStatus = "active"
	StatusDraft  ListingStatus = "draft"
	StatusClosed ListingStatus = "closed"
)

// Location identifies where the property is (or is wanted).
type Location struct {
	City     string `json:"city"`
	District string `json:"district,omitempty"`
	Address  string `json:"address,omitempty"`
}

// FullListingRecord is the authoritative property listing, owned exclusively
// by its owner and stored in the owner's record collection. Proposals are
// embedded and mutated in place.
type FullListingRecord struct {
	ID              string           `json:"id"`
	OwnerID         string           `json:"owner_id"`
	Kind            ListingKind      `json:"kind"`
	TransactionType TransactionType  `json:"transaction_type"`
	PropertyType    string           `json:"property_type"`
	Location        Location         `json:"location"`
	PriceMin        float64          `json:"price_min"`
	PriceMax        float64          `json:"price_max"`
	Features        []string         `json:"features,omitempty"`
	Description     string           `json:"description"`
	Notes           []string         `json:"notes,omitempty"`
	Status          ListingStatus    `json:"status"`
	Proposals       []BrokerProposal `json:"proposals"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ListingDraft is the pre-validated input to the publisher. The form layer
// owns business-rule validation; the engine trusts these values as given.
type ListingDraft struct {
	Kind            ListingKind     `json:"kind"`
	TransactionType TransactionType `json:"transaction_type"`
	PropertyType    string          `json:"property_type"`
	Location        Location        `json:"location"`
	PriceMin        float64         `json:"price_min"`
	PriceMax        float64         `json:"price_max"`
	Features        []string        `json:"features,omitempty"`
	Description     string          `json:"description"`
}

// NewFullListingRecord builds a record from a draft with a fresh id.
func NewFullListingRecord(ownerID string, draft ListingDraft, status ListingStatus) FullListingRecord {
	now := time.Now().UTC()
	return FullListingRecord{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Kind:            draft.Kind,
		TransactionType: draft.TransactionType,
		PropertyType:    draft.PropertyType,
		Location:        draft.Location,
		PriceMin:        draft.PriceMin,
		PriceMax:        draft.PriceMax,
		Features:        draft.Features,
		Description:     draft.Description,
		Status:          status,
		Proposals:       []BrokerProposal{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// FindProposal returns a pointer into the record's proposal slice, or nil.
func (r *FullListingRecord) FindProposal(proposalID string) *BrokerProposal {
	for i := range r.Proposals {
		if r.Proposals[i].ID == proposalID {
			return &r.Proposals[i]
		}
	}
	return nil
}

// HasAcceptedProposal reports whether any embedded proposal is accepted.
func (r *FullListingRecord) HasAcceptedProposal() bool {
	for i := range r.Proposals {
		if r.Proposals[i].Status == ProposalAccepted {
			return true
		}
	}
	return false
}
