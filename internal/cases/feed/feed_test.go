package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "resgate/pkg/domain"
)

type FeedSuite struct {
	suite.Suite
	feed *InMemory
}

func (s *FeedSuite) SetupTest() {
	s.feed = NewInMemory()
}

func TestFeedSuite(t *testing.T) {
	suite.Run(t, new(FeedSuite))
}

func (s *FeedSuite) TestPublishReachesSubscribers() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	caseID := id.NewCaseID()
	ch, err := s.feed.Subscribe(ctx, caseID)
	s.Require().NoError(err)

	ev := Event{CaseID: caseID, Kind: KindClaimed, OccurredAt: time.Now()}
	s.Require().NoError(s.feed.Publish(ctx, ev))

	select {
	case got := <-ch:
		s.Equal(KindClaimed, got.Kind)
		s.Equal(caseID, got.CaseID)
	case <-time.After(time.Second):
		s.Fail("event never arrived")
	}
}

func (s *FeedSuite) TestSubscriptionsAreScopedToOneCase() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watched := id.NewCaseID()
	other := id.NewCaseID()
	ch, err := s.feed.Subscribe(ctx, watched)
	s.Require().NoError(err)

	s.Require().NoError(s.feed.Publish(ctx, Event{CaseID: other, Kind: KindMessage}))

	select {
	case ev := <-ch:
		s.Failf("leaked event", "got %v for the wrong case", ev.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *FeedSuite) TestSlowSubscriberDoesNotBlockPublish() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	caseID := id.NewCaseID()
	_, err := s.feed.Subscribe(ctx, caseID)
	s.Require().NoError(err)

	// Overrun the subscriber buffer; Publish must keep returning.
	for i := 0; i < subscriberBuffer*2; i++ {
		s.Require().NoError(s.feed.Publish(ctx, Event{CaseID: caseID, Kind: KindMessage, Seq: int64(i + 1)}))
	}
}

func (s *FeedSuite) TestCancelClosesSubscription() {
	ctx, cancel := context.WithCancel(context.Background())
	caseID := id.NewCaseID()
	ch, err := s.feed.Subscribe(ctx, caseID)
	s.Require().NoError(err)

	cancel()

	s.Require().Eventually(func() bool {
		select {
		case _, open := <-ch:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestNopSubscribeClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := Nop{}.Subscribe(ctx, id.NewCaseID())
	require.NoError(t, err)

	require.NoError(t, Nop{}.Publish(ctx, Event{CaseID: id.NewCaseID(), Kind: KindReported}))

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, open := <-ch:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
