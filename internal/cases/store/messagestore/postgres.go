package messagestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"resgate/internal/cases/models"
	id "resgate/pkg/domain"
)

// Postgres persists the conversation log in case_messages, keyed by
// (case_id, seq). The next sequence number is computed inside the INSERT
// so concurrent appends to the same case contend on the primary key
// instead of racing a separate counter.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const appendAttempts = 5

func (s *Postgres) Append(ctx context.Context, caseID id.CaseID, msg models.Message) (models.Message, error) {
	var err error
	for attempt := 0; attempt < appendAttempts; attempt++ {
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO case_messages (case_id, seq, text, sent_at, sender_name, sender_role)
			SELECT $1, COALESCE(MAX(seq), 0) + 1, $2, $3, $4, $5
			FROM case_messages WHERE case_id = $1
			RETURNING seq`,
			caseID.String(), msg.Text, msg.SentAt, msg.SenderName, string(msg.SenderRole),
		).Scan(&msg.Seq)
		if err == nil {
			return msg, nil
		}
		if !isUniqueViolation(err) {
			break
		}
		// Lost the (case_id, seq) race to a concurrent append; recompute.
	}
	return models.Message{}, fmt.Errorf("append message: %w", err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Postgres) List(ctx context.Context, caseID id.CaseID) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, text, sent_at, sender_name, sender_role
		FROM case_messages
		WHERE case_id = $1
		ORDER BY seq ASC`,
		caseID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]models.Message, 0)
	for rows.Next() {
		var (
			m    models.Message
			role string
		)
		if err := rows.Scan(&m.Seq, &m.Text, &m.SentAt, &m.SenderName, &role); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.SenderRole = models.SenderRole(role)
		out = append(out, m)
	}
	return out, rows.Err()
}
