package participant

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCustomer   = "customer"
	RoleAgent      = "agent"
	RoleSupervisor = "supervisor"
)

type Participant struct {
	ID        int64      `db:"id" json:"id"`
	SessionID uuid.UUID  `db:"session_id" json:"session_id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	Role      string     `db:"role" json:"role"`
	JoinedAt  time.Time  `db:"joined_at" json:"joined_at"`
	LeftAt    *time.Time `db:"left_at" json:"left_at,omitempty"`
	IsActive  bool       `db:"is_active" json:"is_active"`
}

func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleAgent || role == RoleSupervisor
}
