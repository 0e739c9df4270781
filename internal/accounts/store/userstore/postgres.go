package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"resgate/internal/accounts/models"
	id "resgate/pkg/domain"
	"resgate/pkg/platform/sentinel"
)

// Postgres persists users in the users table. Email and CPF carry unique
// constraints; the database is the arbiter when two registrations race.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const userColumns = `id, name, email, cpf, phone, role, org_id, password_hash, created_at`

func (s *Postgres) CreateIfAvailable(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID.String(), user.Name, user.Email, nullIfEmpty(user.CPF), user.Phone,
		string(user.Role), orgValue(user.OrgID), user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("email or cpf already registered: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findBy(ctx, "id = $1", userID.String())
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findBy(ctx, "email = $1", email)
}

func (s *Postgres) findBy(ctx context.Context, where string, arg any) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *Postgres) ListByOrganization(ctx context.Context, orgID id.OrgID) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE org_id = $1 AND role = $2
		ORDER BY created_at ASC`,
		orgID.String(), string(models.RoleStaff),
	)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user   models.User
		rawID  string
		cpf    sql.NullString
		role   string
		rawOrg sql.NullString
	)
	if err := row.Scan(&rawID, &user.Name, &user.Email, &cpf, &user.Phone,
		&role, &rawOrg, &user.PasswordHash, &user.CreatedAt); err != nil {
		return nil, err
	}

	userID, err := id.ParseUserID(rawID)
	if err != nil {
		return nil, err
	}
	user.ID = userID
	user.CPF = cpf.String
	user.Role = models.Role(role)
	if rawOrg.Valid {
		orgID, err := id.ParseOrgID(rawOrg.String)
		if err != nil {
			return nil, err
		}
		user.OrgID = orgID
	}
	return &user, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func orgValue(orgID id.OrgID) any {
	if orgID.IsZero() {
		return nil
	}
	return orgID.String()
}
