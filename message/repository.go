package message

import (
	"database/sql"
	"errors"

	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SessionInfo is the slice of the session row the ledger needs for access
// checks and for picking the notification counterparty.
type SessionInfo struct {
	CustomerID      int64  `db:"customer_id"`
	AssignedAgentID *int64 `db:"assigned_agent_id"`
	Status          string `db:"status"`
}

type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append inserts the message while holding the session row lock, so a
// concurrent end cannot slip between the status check and the insert.
func (r *MessageRepository) Append(msg *ChatMessage) (*SessionInfo, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var info SessionInfo
	err = tx.Get(&info, `
		SELECT customer_id, assigned_agent_id, status
		FROM chat_sessions
		WHERE id = $1
		FOR UPDATE
	`, msg.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.KindNotFound, "session not found")
		}
		return nil, err
	}

	if info.Status == "ended" {
		return nil, errs.E(errs.KindStaleState, "cannot post into an ended session")
	}

	if msg.SenderType != SenderSystem {
		var active bool
		err = tx.Get(&active, `
			SELECT EXISTS (
				SELECT 1 FROM chat_participants
				WHERE session_id = $1 AND user_id = $2 AND is_active
			)
		`, msg.SessionID, msg.SenderID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, errs.E(errs.KindValidation, "sender is not an active participant of this session")
		}
	}

	err = tx.QueryRow(`
		INSERT INTO chat_messages (session_id, sender_type, sender_id, text, message_type, sent_at, is_read)
		VALUES ($1, $2, $3, $4, $5, NOW(), FALSE)
		RETURNING id, sent_at
	`, msg.SessionID, msg.SenderType, msg.SenderID, msg.Text, msg.Type).
		Scan(&msg.ID, &msg.SentAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`UPDATE chat_sessions SET last_activity_at = NOW() WHERE id = $1`, msg.SessionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &info, nil
}

// FetchSince is the polling cursor read: everything after sinceID, ordered
// by the persisted id alone, so reconnecting clients replay without gaps or
// duplicates.
func (r *MessageRepository) FetchSince(sessionID uuid.UUID, sinceID int64) ([]ChatMessage, error) {
	messages := []ChatMessage{}
	query := `
		SELECT id, session_id, sender_type, sender_id, text, message_type, sent_at, is_read
		FROM chat_messages
		WHERE session_id = $1 AND id > $2
		ORDER BY id ASC
	`
	if err := r.db.Select(&messages, query, sessionID, sinceID); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *MessageRepository) GetSessionInfo(sessionID uuid.UUID) (*SessionInfo, error) {
	var info SessionInfo
	err := r.db.Get(&info, `
		SELECT customer_id, assigned_agent_id, status
		FROM chat_sessions
		WHERE id = $1
	`, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.KindNotFound, "session not found")
		}
		return nil, err
	}
	return &info, nil
}

// MarkRead flips is_read on every message the reader did not send. is_read
// is the only mutable column of a message.
func (r *MessageRepository) MarkRead(sessionID uuid.UUID, readerType SenderType) (int64, error) {
	result, err := r.db.Exec(`
		UPDATE chat_messages
		SET is_read = TRUE
		WHERE session_id = $1 AND is_read = FALSE AND sender_type <> $2
	`, sessionID, readerType)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
