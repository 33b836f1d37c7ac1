package migrate

import (
	"log"

	"github.com/jmoiron/sqlx"
)

func RunMigrations(db *sqlx.DB) {
	log.Println("Starting migrations...")

	query := `
	CREATE TABLE IF NOT EXISTS chat_sessions (
		id UUID PRIMARY KEY,
		customer_id BIGINT NOT NULL,
		assigned_agent_id BIGINT,
		subject TEXT NOT NULL,
		department VARCHAR(100) NOT NULL,
		priority VARCHAR(20) NOT NULL CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
		status VARCHAR(20) NOT NULL CHECK (status IN ('waiting', 'active', 'ended')),
		started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		ended_at TIMESTAMPTZ,
		last_activity_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		rating INT CHECK (rating BETWEEN 1 AND 5),
		feedback TEXT,
		CHECK ((status = 'ended') = (ended_at IS NOT NULL)),
		CHECK (assigned_agent_id IS NULL OR status = 'active')
	);

	CREATE INDEX IF NOT EXISTS idx_chat_sessions_status ON chat_sessions(status);
	CREATE INDEX IF NOT EXISTS idx_chat_sessions_agent ON chat_sessions(assigned_agent_id) WHERE status = 'active';
	CREATE INDEX IF NOT EXISTS idx_chat_sessions_customer ON chat_sessions(customer_id);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id BIGSERIAL PRIMARY KEY,
		session_id UUID NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
		sender_type VARCHAR(20) NOT NULL CHECK (sender_type IN ('customer', 'agent', 'system')),
		sender_id BIGINT,
		text TEXT NOT NULL,
		message_type VARCHAR(20) NOT NULL CHECK (message_type IN ('text', 'system', 'file', 'image')),
		sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		CHECK ((sender_type = 'system') = (sender_id IS NULL))
	);

	CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, id);

	CREATE TABLE IF NOT EXISTS chat_participants (
		id BIGSERIAL PRIMARY KEY,
		session_id UUID NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL,
		role VARCHAR(20) NOT NULL CHECK (role IN ('customer', 'agent', 'supervisor')),
		joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		left_at TIMESTAMPTZ,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_participants_one_customer
		ON chat_participants(session_id) WHERE role = 'customer' AND is_active;
	CREATE UNIQUE INDEX IF NOT EXISTS idx_participants_one_agent
		ON chat_participants(session_id) WHERE role = 'agent' AND is_active;
	CREATE INDEX IF NOT EXISTS idx_participants_session ON chat_participants(session_id);

	CREATE TABLE IF NOT EXISTS agent_status (
		agent_id BIGINT PRIMARY KEY,
		presence VARCHAR(20) NOT NULL CHECK (presence IN ('online', 'busy', 'away', 'offline')),
		max_concurrent_chats INT NOT NULL DEFAULT 3 CHECK (max_concurrent_chats >= 1),
		current_chat_count INT NOT NULL DEFAULT 0 CHECK (current_chat_count >= 0),
		auto_assign BOOLEAN NOT NULL DEFAULT TRUE,
		last_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS quick_responses (
		id SERIAL PRIMARY KEY,
		category VARCHAR(100) NOT NULL,
		title VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_quick_responses_category ON quick_responses(category);
	`

	if _, err := db.Exec(query); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}
