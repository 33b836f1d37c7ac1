package agent

import (
	"database/sql"
	"errors"

	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/jmoiron/sqlx"
)

type AgentRepository struct {
	db *sqlx.DB
}

func NewAgentRepository(db *sqlx.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// Upsert creates the status row on an agent's first presence update and
// rewrites presence/config afterwards. The chat counter is never written
// here; it belongs to claim/end transactions and the reconciliation sweep.
func (r *AgentRepository) Upsert(agentID int64, presence string, maxConcurrent *int, autoAssign *bool) (*AgentStatus, error) {
	var status AgentStatus
	query := `
		INSERT INTO agent_status (agent_id, presence, max_concurrent_chats, current_chat_count, auto_assign, last_seen_at)
		VALUES ($1, $2, COALESCE($3, $4), 0, COALESCE($5, TRUE), NOW())
		ON CONFLICT (agent_id) DO UPDATE SET
			presence = $2,
			max_concurrent_chats = COALESCE($3, agent_status.max_concurrent_chats),
			auto_assign = COALESCE($5, agent_status.auto_assign),
			last_seen_at = NOW()
		RETURNING agent_id, presence, max_concurrent_chats, current_chat_count, auto_assign, last_seen_at
	`
	err := r.db.Get(&status, query, agentID, presence, maxConcurrent, DefaultMaxConcurrentChats, autoAssign)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *AgentRepository) GetByID(agentID int64) (*AgentStatus, error) {
	var status AgentStatus
	query := `
		SELECT agent_id, presence, max_concurrent_chats, current_chat_count, auto_assign, last_seen_at
		FROM agent_status
		WHERE agent_id = $1
	`
	if err := r.db.Get(&status, query, agentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.KindNotFound, "agent not found")
		}
		return nil, err
	}
	return &status, nil
}

func (r *AgentRepository) List() ([]AgentStatus, error) {
	agents := []AgentStatus{}
	query := `
		SELECT agent_id, presence, max_concurrent_chats, current_chat_count, auto_assign, last_seen_at
		FROM agent_status
		ORDER BY agent_id ASC
	`
	if err := r.db.Select(&agents, query); err != nil {
		return nil, err
	}
	return agents, nil
}
