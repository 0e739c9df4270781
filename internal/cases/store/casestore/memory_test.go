package casestore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"resgate/internal/cases/models"
	id "resgate/pkg/domain"
	"resgate/pkg/platform/sentinel"
)

type CaseStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *CaseStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestCaseStoreSuite(t *testing.T) {
	suite.Run(t, new(CaseStoreSuite))
}

func (s *CaseStoreSuite) seedCase(reportedAt time.Time) *models.Case {
	c, err := models.NewCase(id.NewCaseID(), id.NewUserID(), "dog", models.AgeAdulto, false, "", "Rua A 1", reportedAt)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Insert(s.ctx, c))
	return c
}

func (s *CaseStoreSuite) TestInsertAndFind() {
	s.Run("stored case is found by id", func() {
		c := s.seedCase(time.Now())
		found, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(c.ID, found.ID)
		s.Equal(c.Species, found.Species)
	})

	s.Run("missing case returns ErrNotFound", func() {
		_, err := s.store.FindByID(s.ctx, id.NewCaseID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("duplicate insert conflicts", func() {
		c := s.seedCase(time.Now())
		err := s.store.Insert(s.ctx, c)
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("reads return copies", func() {
		c := s.seedCase(time.Now())
		found, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		found.Species = "mutated"

		again, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal("dog", again.Species)
	})
}

func (s *CaseStoreSuite) TestClaim() {
	s.Run("open case is claimed", func() {
		c := s.seedCase(time.Now())
		org := id.NewOrgID()

		s.Require().NoError(s.store.Claim(s.ctx, c.ID, org))

		claimed, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.True(claimed.Claimed)
		s.Require().NotNil(claimed.ClaimantID)
		s.Equal(org, *claimed.ClaimantID)
	})

	s.Run("missing case returns ErrNotFound", func() {
		err := s.store.Claim(s.ctx, id.NewCaseID(), id.NewOrgID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("claimed case returns ErrConflict for another org", func() {
		c := s.seedCase(time.Now())
		s.Require().NoError(s.store.Claim(s.ctx, c.ID, id.NewOrgID()))

		err := s.store.Claim(s.ctx, c.ID, id.NewOrgID())
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("resolved case returns ErrInvalidState", func() {
		c := s.seedCase(time.Now())
		org := id.NewOrgID()
		s.Require().NoError(s.store.Claim(s.ctx, c.ID, org))
		s.Require().NoError(s.store.Resolve(s.ctx, c.ID, org))

		err := s.store.Claim(s.ctx, c.ID, id.NewOrgID())
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("org attending another case returns ErrAlreadyUsed", func() {
		first := s.seedCase(time.Now())
		second := s.seedCase(time.Now())
		org := id.NewOrgID()
		s.Require().NoError(s.store.Claim(s.ctx, first.ID, org))

		err := s.store.Claim(s.ctx, second.ID, org)
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("busy org outranks the target case being claimed", func() {
		held := s.seedCase(time.Now())
		target := s.seedCase(time.Now())
		org := id.NewOrgID()
		s.Require().NoError(s.store.Claim(s.ctx, held.ID, org))
		s.Require().NoError(s.store.Claim(s.ctx, target.ID, id.NewOrgID()))

		err := s.store.Claim(s.ctx, target.ID, org)
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("resolving frees the org for a new claim", func() {
		first := s.seedCase(time.Now())
		second := s.seedCase(time.Now())
		org := id.NewOrgID()
		s.Require().NoError(s.store.Claim(s.ctx, first.ID, org))
		s.Require().NoError(s.store.Resolve(s.ctx, first.ID, org))

		s.Require().NoError(s.store.Claim(s.ctx, second.ID, org))
	})
}

// TestConcurrentClaim drives many organizations at one open case and
// requires that exactly one write wins.
func (s *CaseStoreSuite) TestConcurrentClaim() {
	const contenders = 64

	c := s.seedCase(time.Now())

	var (
		wins      atomic.Int64
		conflicts atomic.Int64
		wg        sync.WaitGroup
		start     = make(chan struct{})
	)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			switch err := s.store.Claim(s.ctx, c.ID, id.NewOrgID()); {
			case err == nil:
				wins.Add(1)
			default:
				s.ErrorIs(err, sentinel.ErrConflict)
				conflicts.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(int64(1), wins.Load())
	s.Equal(int64(contenders-1), conflicts.Load())

	claimed, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.True(claimed.Claimed)
	s.NotNil(claimed.ClaimantID)
}

func (s *CaseStoreSuite) TestResolve() {
	s.Run("claimant resolves", func() {
		c := s.seedCase(time.Now())
		org := id.NewOrgID()
		s.Require().NoError(s.store.Claim(s.ctx, c.ID, org))

		s.Require().NoError(s.store.Resolve(s.ctx, c.ID, org))

		resolved, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.True(resolved.Resolved)
		s.False(resolved.Claimed)
		s.Require().NotNil(resolved.ClaimantID)
		s.Equal(org, *resolved.ClaimantID)
	})

	s.Run("missing case returns ErrNotFound", func() {
		err := s.store.Resolve(s.ctx, id.NewCaseID(), id.NewOrgID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("non-claimant returns ErrConflict", func() {
		c := s.seedCase(time.Now())
		s.Require().NoError(s.store.Claim(s.ctx, c.ID, id.NewOrgID()))

		err := s.store.Resolve(s.ctx, c.ID, id.NewOrgID())
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("second resolve returns ErrInvalidState", func() {
		c := s.seedCase(time.Now())
		org := id.NewOrgID()
		s.Require().NoError(s.store.Claim(s.ctx, c.ID, org))
		s.Require().NoError(s.store.Resolve(s.ctx, c.ID, org))

		err := s.store.Resolve(s.ctx, c.ID, org)
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})
}

func (s *CaseStoreSuite) TestActiveClaim() {
	s.Run("no claim reports false", func() {
		_, ok, err := s.store.ActiveClaim(s.ctx, id.NewOrgID())
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("active claim reports the held case", func() {
		c := s.seedCase(time.Now())
		org := id.NewOrgID()
		s.Require().NoError(s.store.Claim(s.ctx, c.ID, org))

		held, ok, err := s.store.ActiveClaim(s.ctx, org)
		s.Require().NoError(err)
		s.True(ok)
		s.Equal(c.ID, held)
	})

	s.Run("resolved claim no longer counts", func() {
		c := s.seedCase(time.Now())
		org := id.NewOrgID()
		s.Require().NoError(s.store.Claim(s.ctx, c.ID, org))
		s.Require().NoError(s.store.Resolve(s.ctx, c.ID, org))

		_, ok, err := s.store.ActiveClaim(s.ctx, org)
		s.Require().NoError(err)
		s.False(ok)
	})
}

func (s *CaseStoreSuite) TestListings() {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	oldest := s.seedCase(base)
	middle := s.seedCase(base.Add(time.Hour))
	newest := s.seedCase(base.Add(2 * time.Hour))

	s.Run("open cases come back newest first", func() {
		open, err := s.store.ListOpen(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(open, 3)
		s.Equal(newest.ID, open[0].ID)
		s.Equal(middle.ID, open[1].ID)
		s.Equal(oldest.ID, open[2].ID)
	})

	s.Run("claimed cases drop out of the open list", func() {
		org := id.NewOrgID()
		s.Require().NoError(s.store.Claim(s.ctx, middle.ID, org))

		open, err := s.store.ListOpen(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(open, 2)
		s.Equal(newest.ID, open[0].ID)
		s.Equal(oldest.ID, open[1].ID)
	})

	s.Run("reporter sees only their own cases", func() {
		mine, err := s.store.ListByReporter(s.ctx, oldest.ReporterID)
		s.Require().NoError(err)
		s.Require().Len(mine, 1)
		s.Equal(oldest.ID, mine[0].ID)
	})

	s.Run("claimant history includes resolved cases", func() {
		org := id.NewOrgID()
		s.Require().NoError(s.store.Claim(s.ctx, newest.ID, org))
		s.Require().NoError(s.store.Resolve(s.ctx, newest.ID, org))

		history, err := s.store.ListByClaimant(s.ctx, org)
		s.Require().NoError(err)
		s.Require().Len(history, 1)
		s.Equal(newest.ID, history[0].ID)
		s.True(history[0].Resolved)
	})
}
