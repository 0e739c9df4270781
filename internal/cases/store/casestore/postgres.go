package casestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"resgate/internal/cases/models"
	id "resgate/pkg/domain"
	"resgate/pkg/platform/sentinel"
)

// Postgres persists cases in the cases table.
//
// Claim atomicity comes from two constraints instead of read-then-write:
// the conditional UPDATE only hits open cases, and the partial unique index
// cases_one_active_claim (claimant_id WHERE claimed) makes a second active
// claim by the same organization fail at commit, whoever wins the race.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const caseColumns = `id, species, age_category, injured, description, address, reported_at, reporter_id, claimed, claimant_id, resolved`

func (s *Postgres) Insert(ctx context.Context, c *models.Case) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cases (`+caseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID.String(), c.Species, string(c.AgeCategory), c.Injured, c.Description, c.Address,
		c.ReportedAt, c.ReporterID.String(), c.Claimed, claimantValue(c.ClaimantID), c.Resolved,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+caseColumns+` FROM cases WHERE id = $1`,
		caseID.String(),
	)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find case: %w", err)
	}
	return c, nil
}

func (s *Postgres) ListOpen(ctx context.Context) ([]*models.Case, error) {
	return s.list(ctx, `
		SELECT `+caseColumns+` FROM cases
		WHERE claimed = FALSE AND resolved = FALSE
		ORDER BY reported_at DESC`)
}

func (s *Postgres) ListByReporter(ctx context.Context, reporterID id.UserID) ([]*models.Case, error) {
	return s.list(ctx, `
		SELECT `+caseColumns+` FROM cases
		WHERE reporter_id = $1
		ORDER BY reported_at DESC`,
		reporterID.String())
}

func (s *Postgres) ListByClaimant(ctx context.Context, orgID id.OrgID) ([]*models.Case, error) {
	return s.list(ctx, `
		SELECT `+caseColumns+` FROM cases
		WHERE claimant_id = $1
		ORDER BY reported_at DESC`,
		orgID.String())
}

func (s *Postgres) ActiveClaim(ctx context.Context, orgID id.OrgID) (id.CaseID, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM cases WHERE claimant_id = $1 AND claimed = TRUE`,
		orgID.String(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return id.CaseID{}, false, nil
	}
	if err != nil {
		return id.CaseID{}, false, fmt.Errorf("find active claim: %w", err)
	}
	caseID, err := id.ParseCaseID(raw)
	if err != nil {
		return id.CaseID{}, false, fmt.Errorf("parse active claim id: %w", err)
	}
	return caseID, true, nil
}

func (s *Postgres) Claim(ctx context.Context, caseID id.CaseID, orgID id.OrgID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cases
		SET claimed = TRUE, claimant_id = $2
		WHERE id = $1 AND claimed = FALSE AND resolved = FALSE`,
		caseID.String(), orgID.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			// cases_one_active_claim: the organization already attends
			// another case.
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("claim case: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim case rows: %w", err)
	}
	if rows == 1 {
		return nil
	}

	// The conditional write matched no row; distinguish why. A busy
	// organization outranks the target case's own state, so check the
	// active claim before inspecting the case.
	if held, busy, err := s.ActiveClaim(ctx, orgID); err != nil {
		return err
	} else if busy && held != caseID {
		return sentinel.ErrAlreadyUsed
	}
	current, err := s.FindByID(ctx, caseID)
	if err != nil {
		return err
	}
	if current.Resolved {
		return sentinel.ErrInvalidState
	}
	return sentinel.ErrConflict
}

func (s *Postgres) Resolve(ctx context.Context, caseID id.CaseID, orgID id.OrgID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cases
		SET claimed = FALSE, resolved = TRUE
		WHERE id = $1 AND claimant_id = $2 AND claimed = TRUE`,
		caseID.String(), orgID.String(),
	)
	if err != nil {
		return fmt.Errorf("resolve case: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve case rows: %w", err)
	}
	if rows == 1 {
		return nil
	}

	current, err := s.FindByID(ctx, caseID)
	if err != nil {
		return err
	}
	if current.ClaimantID == nil || *current.ClaimantID != orgID {
		return sentinel.ErrConflict
	}
	return sentinel.ErrInvalidState
}

func (s *Postgres) list(ctx context.Context, query string, args ...any) ([]*models.Case, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var out []*models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*models.Case, error) {
	var (
		c        models.Case
		rawID    string
		rawRep   string
		age      string
		claimant sql.NullString
	)
	if err := row.Scan(&rawID, &c.Species, &age, &c.Injured, &c.Description, &c.Address,
		&c.ReportedAt, &rawRep, &c.Claimed, &claimant, &c.Resolved); err != nil {
		return nil, err
	}

	caseID, err := id.ParseCaseID(rawID)
	if err != nil {
		return nil, err
	}
	reporterID, err := id.ParseUserID(rawRep)
	if err != nil {
		return nil, err
	}
	c.ID = caseID
	c.ReporterID = reporterID
	c.AgeCategory = models.AgeCategory(age)

	if claimant.Valid {
		orgID, err := id.ParseOrgID(claimant.String)
		if err != nil {
			return nil, err
		}
		c.ClaimantID = &orgID
	}
	return &c, nil
}

func claimantValue(orgID *id.OrgID) any {
	if orgID == nil {
		return nil
	}
	return orgID.String()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
