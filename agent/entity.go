package agent

import "time"

const (
	PresenceOnline  = "online"
	PresenceBusy    = "busy"
	PresenceAway    = "away"
	PresenceOffline = "offline"
)

const DefaultMaxConcurrentChats = 3

type AgentStatus struct {
	AgentID            int64     `db:"agent_id" json:"agent_id"`
	Presence           string    `db:"presence" json:"presence"`
	MaxConcurrentChats int       `db:"max_concurrent_chats" json:"max_concurrent_chats"`
	CurrentChatCount   int       `db:"current_chat_count" json:"current_chat_count"`
	AutoAssign         bool      `db:"auto_assign" json:"auto_assign"`
	LastSeenAt         time.Time `db:"last_seen_at" json:"last_seen_at"`
}

func (a *AgentStatus) HasCapacity() bool {
	return a.CurrentChatCount < a.MaxConcurrentChats
}

// Eligible means the assignment sweep may hand this agent a session.
func (a *AgentStatus) Eligible() bool {
	return a.Presence == PresenceOnline && a.AutoAssign && a.HasCapacity()
}

func ValidPresence(presence string) bool {
	switch presence {
	case PresenceOnline, PresenceBusy, PresenceAway, PresenceOffline:
		return true
	}
	return false
}
