package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/store"
)

// CancelFunc stops a notification subscription. Safe to call more than once.
type CancelFunc func()

// INotificationService is the per-owner inbox: append-only fanout plus read
// and polling queries. Events are not deduplicated; repeated delivery of the
// same underlying broker response produces repeated entries.
type INotificationService interface {
	Notify(ctx context.Context, ownerID string, event models.NotificationEvent) (*models.OwnerNotification, error)
	ListAll(ctx context.Context, ownerID string) ([]models.OwnerNotification, error)
	ListUnread(ctx context.Context, ownerID string) ([]models.OwnerNotification, error)
	MarkRead(ctx context.Context, ownerID, notificationID string) error
	MarkAllRead(ctx context.Context, ownerID string) error
	DeleteAll(ctx context.Context, ownerID string) error

	// Subscribe polls the inbox every interval and delivers a full unread
	// re-snapshot (not a delta) on the returned channel. Consumers must
	// tolerate staleness up to one interval. The subscription ends when the
	// context is done or the cancel func is called.
	Subscribe(ctx context.Context, ownerID string, interval time.Duration) (<-chan []models.OwnerNotification, CancelFunc)
}

// notificationService implements INotificationService.
type notificationService struct {
	kv store.KV
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(kv store.KV) INotificationService {
	return &notificationService{kv: kv}
}

func (s *notificationService) Notify(ctx context.Context, ownerID string, event models.NotificationEvent) (*models.OwnerNotification, error) {
	notification := models.NewOwnerNotification(ownerID, event)
	if err := s.kv.Append(ctx, store.NotificationsKey(ownerID), notification); err != nil {
		return nil, fmt.Errorf("appending notification for owner %s: %w", ownerID, err)
	}
	return &notification, nil
}

func (s *notificationService) ListAll(ctx context.Context, ownerID string) ([]models.OwnerNotification, error) {
	var notifications []models.OwnerNotification
	err := s.kv.Get(ctx, store.NotificationsKey(ownerID), &notifications)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return notifications, err
}

func (s *notificationService) ListUnread(ctx context.Context, ownerID string) ([]models.OwnerNotification, error) {
	all, err := s.ListAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var unread []models.OwnerNotification
	for _, n := range all {
		if !n.Read {
			unread = append(unread, n)
		}
	}
	return unread, nil
}

func (s *notificationService) MarkRead(ctx context.Context, ownerID, notificationID string) error {
	all, err := s.ListAll(ctx, ownerID)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == notificationID {
			if all[i].Read {
				return nil
			}
			all[i].Read = true
			return s.kv.Set(ctx, store.NotificationsKey(ownerID), all)
		}
	}
	return ErrNotFound
}

func (s *notificationService) MarkAllRead(ctx context.Context, ownerID string) error {
	all, err := s.ListAll(ctx, ownerID)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return nil
	}
	for i := range all {
		all[i].Read = true
	}
	return s.kv.Set(ctx, store.NotificationsKey(ownerID), all)
}

func (s *notificationService) DeleteAll(ctx context.Context, ownerID string) error {
	return s.kv.Delete(ctx, store.NotificationsKey(ownerID))
}

func (s *notificationService) Subscribe(ctx context.Context, ownerID string, interval time.Duration) (<-chan []models.OwnerNotification, CancelFunc) {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	updates := make(chan []models.OwnerNotification, 1)
	done := make(chan struct{})

	var once sync.Once
	cancel := func() {
		once.Do(func() { close(done) })
	}

	go func() {
		defer close(updates)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				unread, err := s.ListUnread(ctx, ownerID)
				if err != nil {
					log.Printf("WARN: notification poll for owner %s failed: %v", ownerID, err)
					continue
				}
				// Drop the stale snapshot if the consumer has not caught up;
				// each delivery is a full re-snapshot anyway.
				select {
				case updates <- unread:
				default:
					select {
					case <-updates:
					default:
					}
					updates <- unread
				}
			}
		}
	}()

	return updates, cancel
}
