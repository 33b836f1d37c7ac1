package reconcile

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// StaleSession is an active session the sweep considers broken: the agent
// is not online anymore, or the conversation has idled past the threshold.
type StaleSession struct {
	ID             uuid.UUID  `db:"id"`
	CustomerID     int64      `db:"customer_id"`
	AgentID        *int64     `db:"assigned_agent_id"`
	LastActivityAt time.Time  `db:"last_activity_at"`
	AgentPresence  *string    `db:"presence"`
}

func (s *StaleSession) AgentOffline() bool {
	return s.AgentPresence == nil || *s.AgentPresence != "online"
}

type ReconcileRepository struct {
	db *sqlx.DB
}

func NewReconcileRepository(db *sqlx.DB) *ReconcileRepository {
	return &ReconcileRepository{db: db}
}

// RecountAgentLoads rewrites every drifted counter from the authoritative
// count of active sessions. Returns how many rows needed correction.
func (r *ReconcileRepository) RecountAgentLoads() (int64, error) {
	result, err := r.db.Exec(`
		UPDATE agent_status a
		SET current_chat_count = sub.active_count
		FROM (
			SELECT ag.agent_id, COUNT(s.id) AS active_count
			FROM agent_status ag
			LEFT JOIN chat_sessions s
				ON s.assigned_agent_id = ag.agent_id AND s.status = 'active'
			GROUP BY ag.agent_id
		) sub
		WHERE a.agent_id = sub.agent_id AND a.current_chat_count <> sub.active_count
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *ReconcileRepository) ListStale(idleBefore time.Time) ([]StaleSession, error) {
	stale := []StaleSession{}
	query := `
		SELECT s.id, s.customer_id, s.assigned_agent_id, s.last_activity_at, a.presence
		FROM chat_sessions s
		LEFT JOIN agent_status a ON a.agent_id = s.assigned_agent_id
		WHERE s.status = 'active'
			AND (a.presence IS NULL OR a.presence <> 'online' OR s.last_activity_at < $1)
	`
	if err := r.db.Select(&stale, query, idleBefore); err != nil {
		return nil, err
	}
	return stale, nil
}

// Requeue returns the session to the waiting queue. The status guard makes
// it a no-op when a concurrent sweep or an explicit end got there first.
func (r *ReconcileRepository) Requeue(sessionID uuid.UUID) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var agentID *int64
	err = tx.QueryRow(`
		SELECT assigned_agent_id FROM chat_sessions
		WHERE id = $1 AND status = 'active'
		FOR UPDATE
	`, sessionID).Scan(&agentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	_, err = tx.Exec(`
		UPDATE chat_sessions
		SET status = 'waiting', assigned_agent_id = NULL, last_activity_at = NOW()
		WHERE id = $1
	`, sessionID)
	if err != nil {
		return false, err
	}

	if agentID != nil {
		_, err = tx.Exec(`
			UPDATE agent_status
			SET current_chat_count = GREATEST(current_chat_count - 1, 0)
			WHERE agent_id = $1
		`, *agentID)
		if err != nil {
			return false, err
		}
	}

	_, err = tx.Exec(`
		UPDATE chat_participants
		SET is_active = FALSE, left_at = NOW()
		WHERE session_id = $1 AND role = 'agent' AND is_active
	`, sessionID)
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(`
		INSERT INTO chat_messages (session_id, sender_type, sender_id, text, message_type, sent_at, is_read)
		VALUES ($1, 'system', NULL, 'You have been returned to the queue and will be connected to the next available agent.', 'system', NOW(), FALSE)
	`, sessionID)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// EndStale closes an idle session under the end policy. Same guard as
// Requeue; returns the customer to notify when the close happened.
func (r *ReconcileRepository) EndStale(sessionID uuid.UUID) (int64, bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback()

	var customerID int64
	var agentID *int64
	err = tx.QueryRow(`
		SELECT customer_id, assigned_agent_id FROM chat_sessions
		WHERE id = $1 AND status = 'active'
		FOR UPDATE
	`, sessionID).Scan(&customerID, &agentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}

	_, err = tx.Exec(`
		UPDATE chat_sessions
		SET status = 'ended', assigned_agent_id = NULL, ended_at = NOW(), last_activity_at = NOW()
		WHERE id = $1
	`, sessionID)
	if err != nil {
		return 0, false, err
	}

	if agentID != nil {
		_, err = tx.Exec(`
			UPDATE agent_status
			SET current_chat_count = GREATEST(current_chat_count - 1, 0)
			WHERE agent_id = $1
		`, *agentID)
		if err != nil {
			return 0, false, err
		}
	}

	_, err = tx.Exec(`
		UPDATE chat_participants
		SET is_active = FALSE, left_at = NOW()
		WHERE session_id = $1 AND is_active
	`, sessionID)
	if err != nil {
		return 0, false, err
	}

	_, err = tx.Exec(`
		INSERT INTO chat_messages (session_id, sender_type, sender_id, text, message_type, sent_at, is_read)
		VALUES ($1, 'system', NULL, 'This session was closed due to inactivity.', 'system', NOW(), FALSE)
	`, sessionID)
	if err != nil {
		return 0, false, err
	}

	if err := tx.Commit(); err != nil {
		return 0, false, err
	}
	return customerID, true, nil
}
