package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/idrealestat/aqariai-core/internal/config"
	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/remote"
	"github.com/idrealestat/aqariai-core/internal/store"
)

// downMirror simulates an unreachable remote backend: every call fails with
// ErrRemoteUnavailable, which the engine must swallow after the local write.
type downMirror struct {
	calls int
}

func (m *downMirror) fail() error {
	m.calls++
	return fmt.Errorf("%w: connection refused", remote.ErrRemoteUnavailable)
}

func (m *downMirror) CreateListing(context.Context, *models.FullListingRecord) error {
	return m.fail()
}
func (m *downMirror) UpdateListing(context.Context, string, models.ListingStatus) error {
	return m.fail()
}
func (m *downMirror) AddNote(context.Context, string, string) error { return m.fail() }
func (m *downMirror) AddProposal(context.Context, string, *models.BrokerProposal) error {
	return m.fail()
}
func (m *downMirror) UpdateProposal(context.Context, string, models.ProposalStatus) error {
	return m.fail()
}
func (m *downMirror) Do(context.Context, remote.Call) error { return m.fail() }

// recordingEnqueuer captures queued mirror replays.
type recordingEnqueuer struct {
	queued []remote.Call
}

func (e *recordingEnqueuer) EnqueueMirrorSync(ctx context.Context, call remote.Call) error {
	e.queued = append(e.queued, call)
	return nil
}

// failingKV wraps a real store and fails writes on one key, to exercise the
// partial-write paths.
type failingKV struct {
	store.KV
	failKey string
}

func (f *failingKV) Append(ctx context.Context, key string, item interface{}) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.KV.Append(ctx, key, item)
}

func (f *failingKV) Set(ctx context.Context, key string, value interface{}) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.KV.Set(ctx, key, value)
}

func testConfig() *config.Config {
	return &config.Config{AllowMultipleAcceptances: false}
}

func testDraft() models.ListingDraft {
	return models.ListingDraft{
		Kind:            models.KindOffer,
		TransactionType: models.TransactionRent,
		PropertyType:    "apartment",
		Location:        models.Location{City: "Riyadh", District: "Al Olaya"},
		PriceMin:        42000,
		PriceMax:        47500,
		Features:        []string{"furnished", "parking"},
		Description:     "Two bedroom apartment near the financial district",
	}
}

func testProposalDraft() models.ProposalDraft {
	return models.ProposalDraft{
		BrokerID:      "broker-1",
		BrokerName:    "Salem Brokerage",
		BrokerContact: "salem@example.com",
		BrokerRating:  4.6,
		CommissionPct: 2.5,
		ProposedPrice: 45000,
		Message:       "Can close within two weeks",
	}
}

// engineFixture wires the full engine over an in-memory store.
type engineFixture struct {
	kv            store.KV
	cfg           *config.Config
	mirror        *downMirror
	enqueuer      *recordingEnqueuer
	publisher     IPublisherService
	proposals     IProposalService
	agreements    IAgreementService
	notifications INotificationService
	ownerView     IOwnerViewService
}

func newEngineFixture(cfg *config.Config) *engineFixture {
	if cfg == nil {
		cfg = testConfig()
	}
	kv := store.NewMemoryStore()
	mirror := &downMirror{}
	enqueuer := &recordingEnqueuer{}
	notifications := NewNotificationService(kv)
	agreements := NewAgreementService(kv, notifications)
	return &engineFixture{
		kv:            kv,
		cfg:           cfg,
		mirror:        mirror,
		enqueuer:      enqueuer,
		publisher:     NewPublisherService(kv, cfg, mirror, enqueuer),
		proposals:     NewProposalService(kv, cfg, mirror, enqueuer, agreements, notifications),
		agreements:    agreements,
		notifications: notifications,
		ownerView:     NewOwnerViewService(kv),
	}
}
