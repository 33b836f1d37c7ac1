package agent

import (
	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/errs"
)

type Repository interface {
	Upsert(agentID int64, presence string, maxConcurrent *int, autoAssign *bool) (*AgentStatus, error)
	GetByID(agentID int64) (*AgentStatus, error)
	List() ([]AgentStatus, error)
}

// SweepTrigger mirrors session.SweepTrigger; an agent coming online is a
// capacity event worth a sweep.
type SweepTrigger interface {
	TriggerSweep()
}

type AgentService struct {
	repo    Repository
	sweeper SweepTrigger
}

func NewAgentService(repo Repository, sweeper SweepTrigger) *AgentService {
	return &AgentService{repo: repo, sweeper: sweeper}
}

// SetPresence is a pure registry update. Going offline or away leaves any
// active sessions alone; the reconciliation sweep picks them up, since the
// agent may just be stepping away briefly.
func (s *AgentService) SetPresence(actor auth.CurrentUser, agentID int64, presence string, maxConcurrent *int, autoAssign *bool) (*AgentStatus, error) {
	if actor.ID != agentID && actor.Role != auth.RoleSupervisor {
		return nil, errs.E(errs.KindValidation, "agents can only update their own status")
	}
	if !ValidPresence(presence) {
		return nil, errs.Ef(errs.KindValidation, "unknown presence %q", presence)
	}
	if maxConcurrent != nil && *maxConcurrent < 1 {
		return nil, errs.E(errs.KindValidation, "max_concurrent_chats must be at least 1")
	}

	status, err := s.repo.Upsert(agentID, presence, maxConcurrent, autoAssign)
	if err != nil {
		return nil, err
	}

	if presence == PresenceOnline && s.sweeper != nil {
		s.sweeper.TriggerSweep()
	}

	return status, nil
}

func (s *AgentService) Get(agentID int64) (*AgentStatus, error) {
	return s.repo.GetByID(agentID)
}

func (s *AgentService) List(actor auth.CurrentUser) ([]AgentStatus, error) {
	if !actor.IsStaff() {
		return nil, errs.E(errs.KindValidation, "agent registry is staff-only")
	}
	return s.repo.List()
}
