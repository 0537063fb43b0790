package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/services"
)

// --- Mocks ---

// MockPublisherService
type MockPublisherService struct {
	mock.Mock
}

func (m *MockPublisherService) Publish(ctx context.Context, ownerID string, draft models.ListingDraft) (*models.FullListingRecord, *models.MarketplaceSummary, error) {
	args := m.Called(ctx, ownerID, draft)
	var record *models.FullListingRecord
	var summary *models.MarketplaceSummary
	if args.Get(0) != nil {
		record = args.Get(0).(*models.FullListingRecord)
	}
	if args.Get(1) != nil {
		summary = args.Get(1).(*models.MarketplaceSummary)
	}
	return record, summary, args.Error(2)
}

func (m *MockPublisherService) SaveDraft(ctx context.Context, ownerID string, draft models.ListingDraft) (*models.FullListingRecord, error) {
	args := m.Called(ctx, ownerID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FullListingRecord), args.Error(1)
}

func (m *MockPublisherService) PublishDraft(ctx context.Context, ownerID, recordID string) (*models.FullListingRecord, *models.MarketplaceSummary, error) {
	args := m.Called(ctx, ownerID, recordID)
	var record *models.FullListingRecord
	var summary *models.MarketplaceSummary
	if args.Get(0) != nil {
		record = args.Get(0).(*models.FullListingRecord)
	}
	if args.Get(1) != nil {
		summary = args.Get(1).(*models.MarketplaceSummary)
	}
	return record, summary, args.Error(2)
}

func (m *MockPublisherService) UpdateListingStatus(ctx context.Context, ownerID, recordID string, status models.ListingStatus) error {
	args := m.Called(ctx, ownerID, recordID, status)
	return args.Error(0)
}

func (m *MockPublisherService) AddListingNote(ctx context.Context, ownerID, recordID, note string) error {
	args := m.Called(ctx, ownerID, recordID, note)
	return args.Error(0)
}

func (m *MockPublisherService) ListOwnerRecords(ctx context.Context, ownerID string) ([]models.FullListingRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FullListingRecord), args.Error(1)
}

func (m *MockPublisherService) MarketplaceFeed(ctx context.Context) ([]models.MarketplaceSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MarketplaceSummary), args.Error(1)
}

// MockProposalService
type MockProposalService struct {
	mock.Mock
}

func (m *MockProposalService) AddProposal(ctx context.Context, recordID string, draft models.ProposalDraft) (*models.BrokerProposal, error) {
	args := m.Called(ctx, recordID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BrokerProposal), args.Error(1)
}

func (m *MockProposalService) Decide(ctx context.Context, recordID, proposalID string, action models.DecisionAction) error {
	args := m.Called(ctx, recordID, proposalID, action)
	return args.Error(0)
}

// MockOwnerViewService
type MockOwnerViewService struct {
	mock.Mock
}

func (m *MockOwnerViewService) AcceptedAgreementsFor(ctx context.Context, ownerID string) ([]models.AcceptedAgreement, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AcceptedAgreement), args.Error(1)
}

func (m *MockOwnerViewService) SummariesFor(ctx context.Context, ownerID string) ([]models.MarketplaceSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MarketplaceSummary), args.Error(1)
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, ownerID string, event models.NotificationEvent) (*models.OwnerNotification, error) {
	args := m.Called(ctx, ownerID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OwnerNotification), args.Error(1)
}

func (m *MockNotificationService) ListAll(ctx context.Context, ownerID string) ([]models.OwnerNotification, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OwnerNotification), args.Error(1)
}

func (m *MockNotificationService) ListUnread(ctx context.Context, ownerID string) ([]models.OwnerNotification, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OwnerNotification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, ownerID, notificationID string) error {
	args := m.Called(ctx, ownerID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockNotificationService) DeleteAll(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockNotificationService) Subscribe(ctx context.Context, ownerID string, interval time.Duration) (<-chan []models.OwnerNotification, services.CancelFunc) {
	args := m.Called(ctx, ownerID, interval)
	return args.Get(0).(<-chan []models.OwnerNotification), args.Get(1).(services.CancelFunc)
}
