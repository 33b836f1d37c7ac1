package assignment

import (
	"database/sql"
	"errors"

	"github.com/eben2468/srcwebsite-sub008/agent"
	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/eben2468/srcwebsite-sub008/session"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type AssignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) ListWaiting() ([]session.ChatSession, error) {
	sessions := []session.ChatSession{}
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

func (r *AssignmentRepository) ListEligible() ([]agent.AgentStatus, error) {
	agents := []agent.AgentStatus{}
	query := `
		SELECT agent_id, presence, max_concurrent_chats, current_chat_count, auto_assign, last_seen_at
		FROM agent_status
		WHERE presence = 'online' AND auto_assign AND current_chat_count < max_concurrent_chats
		ORDER BY current_chat_count ASC, last_seen_at ASC
	`
	if err := r.db.Select(&agents, query); err != nil {
		return nil, err
	}
	return agents, nil
}

// Claim binds a waiting session to an eligible agent. Both guarded UPDATEs
// re-verify their precondition; a zero row count means another request won
// the race, and the whole transaction rolls back untouched.
func (r *AssignmentRepository) Claim(sessionID uuid.UUID, agentID int64) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE agent_status
		SET current_chat_count = current_chat_count + 1
		WHERE agent_id = $1 AND presence = 'online' AND auto_assign
			AND current_chat_count < max_concurrent_chats
	`, agentID)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, errs.E(errs.KindConflict, "agent is no longer eligible")
	}

	var customerID int64
	err = tx.QueryRow(`
		UPDATE chat_sessions
		SET status = 'active', assigned_agent_id = $1, last_activity_at = NOW()
		WHERE id = $2 AND status = 'waiting'
		RETURNING customer_id
	`, agentID, sessionID).Scan(&customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errs.E(errs.KindConflict, "session is no longer waiting")
		}
		return 0, err
	}

	if err := r.swapAgentParticipant(tx, sessionID, agentID); err != nil {
		return 0, err
	}

	_, err = tx.Exec(`
		INSERT INTO chat_messages (session_id, sender_type, sender_id, text, message_type, sent_at, is_read)
		VALUES ($1, 'system', NULL, 'You have been connected to a support agent.', 'system', NOW(), FALSE)
	`, sessionID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return customerID, nil
}

// Reassign is the supervisor override: it skips load balancing and the
// auto_assign/presence checks but still honors capacity and the state
// machine (an ended session can never be assigned).
func (r *AssignmentRepository) Reassign(sessionID uuid.UUID, agentID int64) (*session.ChatSession, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var s session.ChatSession
	err = tx.Get(&s, `
		SELECT id, customer_id, assigned_agent_id, subject, department, priority, status,
			started_at, ended_at, last_activity_at, rating, feedback
		FROM chat_sessions
		WHERE id = $1
		FOR UPDATE
	`, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.KindNotFound, "session not found")
		}
		return nil, err
	}

	if s.Status == session.StatusEnded {
		return nil, errs.E(errs.KindStaleState, "cannot assign an ended session")
	}
	if s.AssignedAgentID != nil && *s.AssignedAgentID == agentID {
		return &s, tx.Commit()
	}

	var exists bool
	err = tx.Get(&exists, `SELECT EXISTS (SELECT 1 FROM agent_status WHERE agent_id = $1)`, agentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.E(errs.KindNotFound, "agent not found")
	}

	result, err := tx.Exec(`
		UPDATE agent_status
		SET current_chat_count = current_chat_count + 1
		WHERE agent_id = $1 AND current_chat_count < max_concurrent_chats
	`, agentID)
	if err != nil {
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, errs.E(errs.KindCapacity, "agent is already at capacity")
	}

	if s.AssignedAgentID != nil {
		_, err = tx.Exec(`
			UPDATE agent_status
			SET current_chat_count = GREATEST(current_chat_count - 1, 0)
			WHERE agent_id = $1
		`, *s.AssignedAgentID)
		if err != nil {
			return nil, err
		}
	}

	err = tx.QueryRow(`
		UPDATE chat_sessions
		SET status = 'active', assigned_agent_id = $1, last_activity_at = NOW()
		WHERE id = $2
		RETURNING status, assigned_agent_id, last_activity_at
	`, agentID, sessionID).Scan(&s.Status, &s.AssignedAgentID, &s.LastActivityAt)
	if err != nil {
		return nil, err
	}

	if err := r.swapAgentParticipant(tx, sessionID, agentID); err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		INSERT INTO chat_messages (session_id, sender_type, sender_id, text, message_type, sent_at, is_read)
		VALUES ($1, 'system', NULL, 'Your session has been transferred to another agent.', 'system', NOW(), FALSE)
	`, sessionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &s, nil
}

// swapAgentParticipant applies the reassignment semantics on the roster:
// the previously active agent participant, if any, is deactivated before
// the new one is attached.
func (r *AssignmentRepository) swapAgentParticipant(tx *sqlx.Tx, sessionID uuid.UUID, agentID int64) error {
	_, err := tx.Exec(`
		UPDATE chat_participants
		SET is_active = FALSE, left_at = NOW()
		WHERE session_id = $1 AND role = 'agent' AND is_active
	`, sessionID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO chat_participants (session_id, user_id, role, joined_at, is_active)
		VALUES ($1, $2, 'agent', NOW(), TRUE)
	`, sessionID, agentID)
	return err
}
