package participant

import (
	"database/sql"
	"errors"

	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Attach enforces the roster invariants inside one transaction: one active
// customer per session, at most one active agent (the new agent replaces
// the old one), supervisors unrestricted.
func (r *ParticipantRepository) Attach(sessionID uuid.UUID, userID int64, role string) (*Participant, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var status string
	err = tx.Get(&status, `SELECT status FROM chat_sessions WHERE id = $1 FOR UPDATE`, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.KindNotFound, "session not found")
		}
		return nil, err
	}
	if status == "ended" {
		return nil, errs.E(errs.KindStaleState, "cannot join an ended session")
	}

	switch role {
	case RoleCustomer:
		var exists bool
		err = tx.Get(&exists, `
			SELECT EXISTS (
				SELECT 1 FROM chat_participants
				WHERE session_id = $1 AND role = 'customer' AND is_active
			)
		`, sessionID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errs.E(errs.KindConflict, "session already has an active customer")
		}
	case RoleAgent:
		// Reassignment semantics: the incoming agent replaces the old one.
		_, err = tx.Exec(`
			UPDATE chat_participants
			SET is_active = FALSE, left_at = NOW()
			WHERE session_id = $1 AND role = 'agent' AND is_active
		`, sessionID)
		if err != nil {
			return nil, err
		}
	}

	p := &Participant{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		IsActive:  true,
	}
	err = tx.QueryRow(`
		INSERT INTO chat_participants (session_id, user_id, role, joined_at, is_active)
		VALUES ($1, $2, $3, NOW(), TRUE)
		RETURNING id, joined_at
	`, sessionID, userID, role).Scan(&p.ID, &p.JoinedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, errs.E(errs.KindConflict, "participant slot already taken")
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return p, nil
}

func (r *ParticipantRepository) Detach(sessionID uuid.UUID, userID int64) error {
	result, err := r.db.Exec(`
		UPDATE chat_participants
		SET is_active = FALSE, left_at = NOW()
		WHERE session_id = $1 AND user_id = $2 AND is_active
	`, sessionID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errs.E(errs.KindNotFound, "no active participant for this user")
	}
	return nil
}

func (r *ParticipantRepository) List(sessionID uuid.UUID) ([]Participant, error) {
	participants := []Participant{}
	query := `
		SELECT id, session_id, user_id, role, joined_at, left_at, is_active
		FROM chat_participants
		WHERE session_id = $1
		ORDER BY joined_at ASC, id ASC
	`
	if err := r.db.Select(&participants, query, sessionID); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *ParticipantRepository) SessionCustomer(sessionID uuid.UUID) (int64, error) {
	var customerID int64
	err := r.db.Get(&customerID, `SELECT customer_id FROM chat_sessions WHERE id = $1`, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errs.E(errs.KindNotFound, "session not found")
		}
		return 0, err
	}
	return customerID, nil
}
