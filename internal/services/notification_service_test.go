package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idrealestat/aqariai-core/internal/models"
)

func testEvent(listingID string) models.NotificationEvent {
	return models.NotificationEvent{
		ListingID:  listingID,
		ProposalID: "prop-1",
		Kind:       models.NotifyBrokerResponse,
		Message:    "New proposal from Salem Brokerage",
	}
}

func TestNotificationService_NotifyAndQueries(t *testing.T) {
	fx := newEngineFixture(nil)
	ctx := context.Background()

	first, err := fx.notifications.Notify(ctx, "owner-a", testEvent("rec-1"))
	require.NoError(t, err)
	assert.False(t, first.Read)

	second, err := fx.notifications.Notify(ctx, "owner-a", testEvent("rec-2"))
	require.NoError(t, err)

	// Another owner's inbox is untouched.
	other, err := fx.notifications.ListAll(ctx, "owner-b")
	require.NoError(t, err)
	assert.Empty(t, other)

	unread, err := fx.notifications.ListUnread(ctx, "owner-a")
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	require.NoError(t, fx.notifications.MarkRead(ctx, "owner-a", first.ID))
	unread, err = fx.notifications.ListUnread(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	// MarkRead twice is a no-op; unknown id is ErrNotFound.
	require.NoError(t, fx.notifications.MarkRead(ctx, "owner-a", first.ID))
	assert.ErrorIs(t, fx.notifications.MarkRead(ctx, "owner-a", "missing"), ErrNotFound)

	require.NoError(t, fx.notifications.MarkAllRead(ctx, "owner-a"))
	unread, err = fx.notifications.ListUnread(ctx, "owner-a")
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := fx.notifications.ListAll(ctx, "owner-a")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, fx.notifications.DeleteAll(ctx, "owner-a"))
	all, err = fx.notifications.ListAll(ctx, "owner-a")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNotificationService_RepeatedEventsAreRepeated(t *testing.T) {
	fx := newEngineFixture(nil)
	ctx := context.Background()

	// Same underlying event delivered twice lands twice; the inbox does not
	// deduplicate.
	_, err := fx.notifications.Notify(ctx, "owner-a", testEvent("rec-1"))
	require.NoError(t, err)
	_, err = fx.notifications.Notify(ctx, "owner-a", testEvent("rec-1"))
	require.NoError(t, err)

	all, err := fx.notifications.ListAll(ctx, "owner-a")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.NotEqual(t, all[0].ID, all[1].ID)
}

func TestNotificationService_SubscribeDeliversSnapshots(t *testing.T) {
	fx := newEngineFixture(nil)
	ctx := context.Background()

	_, err := fx.notifications.Notify(ctx, "owner-a", testEvent("rec-1"))
	require.NoError(t, err)

	updates, cancel := fx.notifications.Subscribe(ctx, "owner-a", 10*time.Millisecond)
	defer cancel()

	select {
	case snapshot := <-updates:
		require.Len(t, snapshot, 1)
		assert.Equal(t, "rec-1", snapshot[0].ListingID)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered within polling interval")
	}

	// New events show up in a later full re-snapshot.
	_, err = fx.notifications.Notify(ctx, "owner-a", testEvent("rec-2"))
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snapshot := <-updates:
			if len(snapshot) == 2 {
				return
			}
		case <-deadline:
			t.Fatal("snapshot never caught up with the second event")
		}
	}
}

func TestNotificationService_SubscribeCancel(t *testing.T) {
	fx := newEngineFixture(nil)

	updates, cancel := fx.notifications.Subscribe(context.Background(), "owner-a", 5*time.Millisecond)
	cancel()
	cancel() // safe to call twice

	// The channel closes once the poller notices cancellation.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscription channel not closed after cancel")
		}
	}
}
