package session

import (
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusWaiting = "waiting"
	StatusActive  = "active"
	StatusEnded   = "ended"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type ChatSession struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	CustomerID      int64      `db:"customer_id" json:"customer_id"`
	AssignedAgentID *int64     `db:"assigned_agent_id" json:"assigned_agent_id,omitempty"`
	Subject         string     `db:"subject" json:"subject"`
	Department      string     `db:"department" json:"department"`
	Priority        string     `db:"priority" json:"priority"`
	Status          string     `db:"status" json:"status"`
	StartedAt       time.Time  `db:"started_at" json:"started_at"`
	EndedAt         *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	LastActivityAt  time.Time  `db:"last_activity_at" json:"last_activity_at"`
	Rating          *int       `db:"rating" json:"rating,omitempty"`
	Feedback        *string    `db:"feedback" json:"feedback,omitempty"`
}

func (s *ChatSession) IsEnded() bool {
	return s.Status == StatusEnded
}

// QueueSummary is the staff dashboard snapshot, cached briefly in redis.
type QueueSummary struct {
	Waiting    int         `json:"waiting"`
	Active     int         `json:"active"`
	EndedToday int         `json:"ended_today"`
	AgentLoads []AgentLoad `json:"agent_loads"`
}

type AgentLoad struct {
	AgentID        int64 `db:"agent_id" json:"agent_id"`
	ActiveSessions int   `db:"active_sessions" json:"active_sessions"`
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PriorityRank orders the waiting queue: urgent first, low last.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

var defaultDepartments = []string{"academics", "finance", "welfare", "sports", "general"}

// Departments returns the configured department list, CHAT_DEPARTMENTS
// overriding the portal defaults.
func Departments() []string {
	raw := os.Getenv("CHAT_DEPARTMENTS")
	if raw == "" {
		return defaultDepartments
	}

	var departments []string
	for _, d := range strings.Split(raw, ",") {
		d = strings.TrimSpace(strings.ToLower(d))
		if d != "" {
			departments = append(departments, d)
		}
	}
	if len(departments) == 0 {
		return defaultDepartments
	}
	return departments
}

func ValidDepartment(department string) bool {
	for _, d := range Departments() {
		if d == department {
			return true
		}
	}
	return false
}
