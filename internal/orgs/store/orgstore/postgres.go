package orgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"resgate/internal/orgs/models"
	id "resgate/pkg/domain"
	"resgate/pkg/platform/sentinel"
)

// Postgres persists organizations in the organizations table. CNPJ and
// email carry unique constraints; Execute decisions run inside a
// transaction with SELECT FOR UPDATE so a registration cannot be approved
// and rejected at the same time.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const orgColumns = `id, name, cnpj, email, phone, address, password_hash, registered_at, status, rejection_reason, decided_at, document_path`

func (s *Postgres) CreateIfCNPJAvailable(ctx context.Context, org *models.Organization) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizations (`+orgColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		org.ID.String(), org.Name, org.CNPJ, org.Email, org.Phone, org.Address,
		org.PasswordHash, org.RegisteredAt, string(org.Status), org.RejectionReason,
		org.DecidedAt, org.DocumentPath,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("cnpj or email already registered: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, orgID id.OrgID) (*models.Organization, error) {
	return s.findBy(ctx, "id = $1", orgID.String())
}

func (s *Postgres) FindByCNPJ(ctx context.Context, cnpj string) (*models.Organization, error) {
	return s.findBy(ctx, "cnpj = $1", cnpj)
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.Organization, error) {
	return s.findBy(ctx, "email = $1", email)
}

func (s *Postgres) findBy(ctx context.Context, where string, arg any) (*models.Organization, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orgColumns+` FROM organizations WHERE `+where, arg)
	org, err := scanOrg(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("organization not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find organization: %w", err)
	}
	return org, nil
}

func (s *Postgres) ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.Organization, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+orgColumns+` FROM organizations
		WHERE status = $1
		ORDER BY registered_at ASC`,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var out []*models.Organization
	for rows.Next() {
		org, err := scanOrg(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

func (s *Postgres) Execute(ctx context.Context, orgID id.OrgID,
	validate func(*models.Organization) error,
	mutate func(*models.Organization)) (*models.Organization, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin decision tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+orgColumns+` FROM organizations WHERE id = $1 FOR UPDATE`,
		orgID.String(),
	)
	org, err := scanOrg(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("organization not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}

	if err := validate(org); err != nil {
		return nil, err
	}
	mutate(org)

	_, err = tx.ExecContext(ctx, `
		UPDATE organizations
		SET status = $2, rejection_reason = $3, decided_at = $4, document_path = $5
		WHERE id = $1`,
		org.ID.String(), string(org.Status), org.RejectionReason, org.DecidedAt, org.DocumentPath,
	)
	if err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit decision: %w", err)
	}
	return org, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrg(row rowScanner) (*models.Organization, error) {
	var (
		org       models.Organization
		rawID     string
		status    string
		reason    sql.NullString
		decidedAt sql.NullTime
		docPath   sql.NullString
	)
	if err := row.Scan(&rawID, &org.Name, &org.CNPJ, &org.Email, &org.Phone, &org.Address,
		&org.PasswordHash, &org.RegisteredAt, &status, &reason, &decidedAt, &docPath); err != nil {
		return nil, err
	}

	orgID, err := id.ParseOrgID(rawID)
	if err != nil {
		return nil, err
	}
	org.ID = orgID
	org.Status = models.ApprovalStatus(status)
	org.RejectionReason = reason.String
	org.DocumentPath = docPath.String
	if decidedAt.Valid {
		t := decidedAt.Time
		org.DecidedAt = &t
	}
	return &org, nil
}
