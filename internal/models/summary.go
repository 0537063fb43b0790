package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const headlineMaxRunes = 140

// MarketplaceSummary is the anonymized projection of a FullListingRecord
// shared on the marketplace feed. It carries its own identity plus a single
// foreign key back to the source record, and deliberately no owner id:
// ownership can only be proven by resolving SourceRecordID into an owner's
// record collection. Summaries are append-only and never updated after
// creation, even when the source record changes.
type MarketplaceSummary struct {
	ID              string          `json:"id"`
	SourceRecordID  string          `json:"source_record_id"`
	Kind            ListingKind     `json:"kind"`
	TransactionType TransactionType `json:"transaction_type"`
	PropertyType    string          `json:"property_type"`
	City            string          `json:"city"`
	Headline        string          `json:"headline"`
	PriceFrom       float64         `json:"price_from"`
	PriceTo         float64         `json:"price_to"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewSummary derives the public feed projection of a record.
func NewSummary(record *FullListingRecord) MarketplaceSummary {
	return MarketplaceSummary{
		ID:              uuid.NewString(),
		SourceRecordID:  record.ID,
		Kind:            record.Kind,
		TransactionType: record.TransactionType,
		PropertyType:    record.PropertyType,
		City:            record.Location.City,
		Headline:        truncateRunes(record.Description, headlineMaxRunes),
		PriceFrom:       coarsePrice(record.PriceMin),
		PriceTo:         coarsePrice(record.PriceMax),
		CreatedAt:       time.Now().UTC(),
	}
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// coarsePrice rounds to two significant figures so the feed does not leak
// exact negotiated terms.
func coarsePrice(v float64) float64 {
	if v == 0 {
		return 0
	}
	magnitude := math.Pow(10, math.Floor(math.Log10(math.Abs(v)))-1)
	return math.Round(v/magnitude) * magnitude
}
