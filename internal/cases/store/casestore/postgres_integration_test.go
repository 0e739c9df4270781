//go:build integration

package casestore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"resgate/internal/cases/models"
	"resgate/internal/cases/store/casestore"
	id "resgate/pkg/domain"
	"resgate/pkg/platform/sentinel"
	"resgate/pkg/testutil/containers"
)

type PostgresCaseStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *casestore.Postgres
	ctx   context.Context
}

func TestPostgresCaseStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCaseStoreSuite))
}

func (s *PostgresCaseStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = casestore.NewPostgres(s.pg.DB)
	s.ctx = context.Background()
}

func (s *PostgresCaseStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(s.ctx, "case_messages", "cases"))
}

func (s *PostgresCaseStoreSuite) insertCase() *models.Case {
	c, err := models.NewCase(id.NewCaseID(), id.NewUserID(), "cachorro", models.AgeAdulto, true,
		"preso em um bueiro", "Rua das Flores, 100", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Insert(s.ctx, c))
	return c
}

func (s *PostgresCaseStoreSuite) TestInsertAndFind() {
	c := s.insertCase()

	found, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.Species, found.Species)
	s.Equal(c.ReporterID, found.ReporterID)
	s.False(found.Claimed)

	_, err = s.store.FindByID(s.ctx, id.NewCaseID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresCaseStoreSuite) TestConcurrentClaimHasOneWinner() {
	c := s.insertCase()

	const orgs = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < orgs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Claim(s.ctx, c.ID, id.NewOrgID())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			default:
				conflicts++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, wins, "the conditional update must admit exactly one claimant")
	s.Equal(orgs-1, conflicts)
}

func (s *PostgresCaseStoreSuite) TestOneActiveClaimPerOrganization() {
	first := s.insertCase()
	second := s.insertCase()
	orgID := id.NewOrgID()

	s.Require().NoError(s.store.Claim(s.ctx, first.ID, orgID))

	err := s.store.Claim(s.ctx, second.ID, orgID)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed,
		"the partial unique index must reject a second active claim")

	// A busy organization is reported as busy even when the target case
	// is itself already claimed.
	s.Require().NoError(s.store.Claim(s.ctx, second.ID, id.NewOrgID()))
	err = s.store.Claim(s.ctx, second.ID, orgID)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

	// Resolving frees the slot.
	third := s.insertCase()
	s.Require().NoError(s.store.Resolve(s.ctx, first.ID, orgID))
	s.Require().NoError(s.store.Claim(s.ctx, third.ID, orgID))
}

func (s *PostgresCaseStoreSuite) TestClaimStateErrors() {
	c := s.insertCase()
	orgID := id.NewOrgID()
	other := id.NewOrgID()

	s.Require().NoError(s.store.Claim(s.ctx, c.ID, orgID))

	s.Run("already claimed", func() {
		s.Require().ErrorIs(s.store.Claim(s.ctx, c.ID, other), sentinel.ErrConflict)
	})

	s.Run("resolve by non-claimant", func() {
		s.Require().ErrorIs(s.store.Resolve(s.ctx, c.ID, other), sentinel.ErrConflict)
	})

	s.Require().NoError(s.store.Resolve(s.ctx, c.ID, orgID))

	s.Run("claim after resolve", func() {
		s.Require().ErrorIs(s.store.Claim(s.ctx, c.ID, other), sentinel.ErrInvalidState)
	})

	s.Run("resolve twice", func() {
		s.Require().ErrorIs(s.store.Resolve(s.ctx, c.ID, orgID), sentinel.ErrInvalidState)
	})
}

func (s *PostgresCaseStoreSuite) TestActiveClaim() {
	c := s.insertCase()
	orgID := id.NewOrgID()

	_, held, err := s.store.ActiveClaim(s.ctx, orgID)
	s.Require().NoError(err)
	s.False(held)

	s.Require().NoError(s.store.Claim(s.ctx, c.ID, orgID))

	caseID, held, err := s.store.ActiveClaim(s.ctx, orgID)
	s.Require().NoError(err)
	s.True(held)
	s.Equal(c.ID, caseID)
}

func (s *PostgresCaseStoreSuite) TestListOpenExcludesClaimedAndResolved() {
	open := s.insertCase()
	claimed := s.insertCase()
	s.Require().NoError(s.store.Claim(s.ctx, claimed.ID, id.NewOrgID()))

	listed, err := s.store.ListOpen(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(open.ID, listed[0].ID)
}
