//go:build integration

package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"resgate/internal/audit"
	txcontext "resgate/pkg/platform/tx"
	"resgate/pkg/testutil/containers"
)

type PostgresAuditStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *audit.PostgresStore
}

func TestPostgresAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	suite.Run(t, new(PostgresAuditStoreSuite))
}

func (s *PostgresAuditStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = audit.NewPostgresStore(s.pg.DB)
}

func (s *PostgresAuditStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(), "audit_events"))
}

func (s *PostgresAuditStoreSuite) event(action audit.Action, entity string, at time.Time) audit.Event {
	return audit.Event{
		ID:        uuid.New(),
		Action:    action,
		Actor:     uuid.NewString(),
		ActorRole: "organization",
		Entity:    entity,
		Timestamp: at,
	}
}

func (s *PostgresAuditStoreSuite) TestAppendAndListByEntity() {
	ctx := context.Background()
	caseID := uuid.NewString()
	base := time.Now().UTC().Truncate(time.Millisecond)

	s.Require().NoError(s.store.Append(ctx, s.event(audit.ActionCaseClaimed, caseID, base)))
	s.Require().NoError(s.store.Append(ctx, s.event(audit.ActionCaseResolved, caseID, base.Add(time.Minute))))
	s.Require().NoError(s.store.Append(ctx, s.event(audit.ActionOrgApproved, uuid.NewString(), base)))

	events, err := s.store.ListByEntity(ctx, caseID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.ActionCaseClaimed, events[0].Action)
	s.Equal(audit.ActionCaseResolved, events[1].Action)
}

func (s *PostgresAuditStoreSuite) TestAppendJoinsAnAmbientTransaction() {
	ctx := context.Background()
	caseID := uuid.NewString()

	tx, err := s.pg.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	txCtx := txcontext.WithTx(ctx, tx)

	s.Require().NoError(s.store.Append(txCtx, s.event(audit.ActionCaseClaimed, caseID, time.Now().UTC())))
	s.Require().NoError(tx.Rollback())

	// The write rode the rolled-back transaction, so nothing persisted.
	events, err := s.store.ListByEntity(ctx, caseID)
	s.Require().NoError(err)
	s.Empty(events)

	tx, err = s.pg.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(txcontext.WithTx(ctx, tx), s.event(audit.ActionCaseResolved, caseID, time.Now().UTC())))
	s.Require().NoError(tx.Commit())

	events, err = s.store.ListByEntity(ctx, caseID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionCaseResolved, events[0].Action)
}
