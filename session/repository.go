package session

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts the waiting session together with its customer participant
// and the system greeting in one transaction.
func (r *SessionRepository) Create(s *ChatSession, greeting string) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO chat_sessions (id, customer_id, subject, department, priority, status, started_at, last_activity_at)
		VALUES ($1, $2, $3, $4, $5, 'waiting', NOW(), NOW())
		RETURNING started_at, last_activity_at, status
	`
	err = tx.QueryRow(query, s.ID, s.CustomerID, s.Subject, s.Department, s.Priority).
		Scan(&s.StartedAt, &s.LastActivityAt, &s.Status)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO chat_participants (session_id, user_id, role, joined_at, is_active)
		VALUES ($1, $2, 'customer', NOW(), TRUE)
	`, s.ID, s.CustomerID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO chat_messages (session_id, sender_type, sender_id, text, message_type, sent_at, is_read)
		VALUES ($1, 'system', NULL, $2, 'system', NOW(), FALSE)
	`, s.ID, greeting)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SessionRepository) GetByID(id uuid.UUID) (*ChatSession, error) {
	var s ChatSession
	query := `
		SELECT id, customer_id, assigned_agent_id, subject, department, priority, status,
			started_at, ended_at, last_activity_at, rating, feedback
		FROM chat_sessions
		WHERE id = $1
	`
	if err := r.db.Get(&s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.KindNotFound, "session not found")
		}
		return nil, err
	}
	return &s, nil
}

// End moves the session to its terminal state. Ending an already ended
// session returns the stored record with changed=false, never an error.
func (r *SessionRepository) End(id uuid.UUID, closing string) (*ChatSession, bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var s ChatSession
	query := `
		SELECT id, customer_id, assigned_agent_id, subject, department, priority, status,
			started_at, ended_at, last_activity_at, rating, feedback
		FROM chat_sessions
		WHERE id = $1
		FOR UPDATE
	`
	if err := tx.Get(&s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, errs.E(errs.KindNotFound, "session not found")
		}
		return nil, false, err
	}

	if s.Status == StatusEnded {
		return &s, false, nil
	}

	agentID := s.AssignedAgentID

	err = tx.QueryRow(`
		UPDATE chat_sessions
		SET status = 'ended', assigned_agent_id = NULL, ended_at = NOW(), last_activity_at = NOW()
		WHERE id = $1
		RETURNING status, assigned_agent_id, ended_at, last_activity_at
	`, id).Scan(&s.Status, &s.AssignedAgentID, &s.EndedAt, &s.LastActivityAt)
	if err != nil {
		return nil, false, err
	}

	if agentID != nil {
		_, err = tx.Exec(`
			UPDATE agent_status
			SET current_chat_count = GREATEST(current_chat_count - 1, 0)
			WHERE agent_id = $1
		`, *agentID)
		if err != nil {
			return nil, false, err
		}
	}

	_, err = tx.Exec(`
		UPDATE chat_participants
		SET is_active = FALSE, left_at = NOW()
		WHERE session_id = $1 AND is_active
	`, id)
	if err != nil {
		return nil, false, err
	}

	_, err = tx.Exec(`
		INSERT INTO chat_messages (session_id, sender_type, sender_id, text, message_type, sent_at, is_read)
		VALUES ($1, 'system', NULL, $2, 'system', NOW(), FALSE)
	`, id, closing)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return &s, true, nil
}

// SetRating only lands on an ended session; the guard keeps a concurrent
// reopen impossible by construction (ended is terminal).
func (r *SessionRepository) SetRating(id uuid.UUID, rating int, feedback *string) error {
	result, err := r.db.Exec(`
		UPDATE chat_sessions
		SET rating = $1, feedback = $2
		WHERE id = $3 AND status = 'ended'
	`, rating, feedback, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errs.E(errs.KindStaleState, "session is not ended yet")
	}
	return nil
}

func (r *SessionRepository) ListWaiting() ([]ChatSession, error) {
	sessions := []ChatSession{}
	query := `
		SELECT id, customer_id, assigned_agent_id, subject, department, priority, status,
			started_at, ended_at, last_activity_at, rating, feedback
		FROM chat_sessions
		WHERE status = 'waiting'
		ORDER BY
			CASE priority
				WHEN 'urgent' THEN 3
				WHEN 'high' THEN 2
				WHEN 'medium' THEN 1
				ELSE 0
			END DESC,
			started_at ASC
	`
	if err := r.db.Select(&sessions, query); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) Summary() (*QueueSummary, error) {
	var summary QueueSummary

	counts := struct {
		Waiting    int `db:"waiting"`
		Active     int `db:"active"`
		EndedToday int `db:"ended_today"`
	}{}
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'waiting') AS waiting,
			COUNT(*) FILTER (WHERE status = 'active') AS active,
			COUNT(*) FILTER (WHERE status = 'ended' AND ended_at >= date_trunc('day', NOW())) AS ended_today
		FROM chat_sessions
	`
	if err := r.db.Get(&counts, query); err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	summary.Waiting = counts.Waiting
	summary.Active = counts.Active
	summary.EndedToday = counts.EndedToday

	loads := []AgentLoad{}
	loadQuery := `
		SELECT assigned_agent_id AS agent_id, COUNT(*) AS active_sessions
		FROM chat_sessions
		WHERE status = 'active' AND assigned_agent_id IS NOT NULL
		GROUP BY assigned_agent_id
		ORDER BY active_sessions DESC
	`
	if err := r.db.Select(&loads, loadQuery); err != nil {
		return nil, fmt.Errorf("failed to load agent counts: %w", err)
	}
	summary.AgentLoads = loads

	return &summary, nil
}
