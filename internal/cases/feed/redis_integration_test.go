//go:build integration

package feed_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resgate/internal/cases/feed"
	id "resgate/pkg/domain"
	"resgate/pkg/testutil/containers"
)

func TestRedisFeed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rc := containers.NewRedisContainer(t)
	f := feed.NewRedis(rc.Client, slog.Default())

	t.Run("published events reach the subscriber", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		caseID := id.NewCaseID()
		events, err := f.Subscribe(ctx, caseID)
		require.NoError(t, err)

		published := feed.Event{
			CaseID:     caseID,
			Kind:       feed.KindClaimed,
			OccurredAt: time.Now().UTC().Truncate(time.Millisecond),
		}
		require.NoError(t, f.Publish(ctx, published))

		select {
		case got := <-events:
			assert.Equal(t, published.CaseID, got.CaseID)
			assert.Equal(t, feed.KindClaimed, got.Kind)
		case <-ctx.Done():
			t.Fatal("timed out waiting for the event")
		}
	})

	t.Run("events are scoped per case", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		caseID := id.NewCaseID()
		events, err := f.Subscribe(ctx, caseID)
		require.NoError(t, err)

		other := feed.Event{CaseID: id.NewCaseID(), Kind: feed.KindMessage, OccurredAt: time.Now()}
		require.NoError(t, f.Publish(ctx, other))
		mine := feed.Event{CaseID: caseID, Kind: feed.KindResolved, OccurredAt: time.Now()}
		require.NoError(t, f.Publish(ctx, mine))

		select {
		case got := <-events:
			assert.Equal(t, caseID, got.CaseID, "the other case's event must not arrive here")
			assert.Equal(t, feed.KindResolved, got.Kind)
		case <-ctx.Done():
			t.Fatal("timed out waiting for the event")
		}
	})
}
