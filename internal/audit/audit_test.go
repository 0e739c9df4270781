package audit

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePublisher_AssignsIDAndAppends(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewStorePublisher(store)

	err := pub.Emit(context.Background(), Event{
		Action:    ActionCaseClaimed,
		Actor:     "org-1",
		ActorRole: "organization",
		Entity:    "case-1",
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	events := store.All()
	require.Len(t, events, 1)
	assert.NotZero(t, events[0].ID)
	assert.Equal(t, ActionCaseClaimed, events[0].Action)
}

func TestWorker_PersistsFromInbox(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 4)
	worker := NewWorker(store, inbox, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	pub := NewChannelPublisher(inbox, slog.Default())
	require.NoError(t, pub.Emit(ctx, Event{Action: ActionOrgApproved, Entity: "org-1"}))
	require.NoError(t, pub.Emit(ctx, Event{Action: ActionOrgRejected, Entity: "org-2"}))

	require.Eventually(t, func() bool {
		return len(store.All()) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestChannelPublisher_DropsWhenFull(t *testing.T) {
	inbox := make(chan Event, 1)
	pub := NewChannelPublisher(inbox, slog.Default())

	ctx := context.Background()
	require.NoError(t, pub.Emit(ctx, Event{Action: ActionCaseReported, Entity: "case-1"}))
	// Inbox is full; the second emit must not block or error.
	require.NoError(t, pub.Emit(ctx, Event{Action: ActionCaseReported, Entity: "case-2"}))

	assert.Len(t, inbox, 1)
}

func TestInMemoryStore_ListByEntity(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Event{Action: ActionCaseClaimed, Entity: "case-1"}))
	require.NoError(t, store.Append(ctx, Event{Action: ActionCaseResolved, Entity: "case-1"}))
	require.NoError(t, store.Append(ctx, Event{Action: ActionCaseClaimed, Entity: "case-2"}))

	events, err := store.ListByEntity(ctx, "case-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionCaseClaimed, events[0].Action)
	assert.Equal(t, ActionCaseResolved, events[1].Action)
}
