package assignment

import (
	"context"
	"log"

	"github.com/eben2468/srcwebsite-sub008/agent"
	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/eben2468/srcwebsite-sub008/notify"
	"github.com/eben2468/srcwebsite-sub008/session"
	"github.com/google/uuid"
)

type Repository interface {
	ListWaiting() ([]session.ChatSession, error)
	ListEligible() ([]agent.AgentStatus, error)
	Claim(sessionID uuid.UUID, agentID int64) (int64, error)
	Reassign(sessionID uuid.UUID, agentID int64) (*session.ChatSession, error)
}

// Engine matches waiting sessions to capacity-available agents. It holds no
// state of its own: every sweep is a fresh pass over the store, so it is
// safe to run from any number of concurrent requests.
type Engine struct {
	repo       Repository
	dispatcher notify.Dispatcher
}

func NewEngine(repo Repository, dispatcher notify.Dispatcher) *Engine {
	return &Engine{repo: repo, dispatcher: dispatcher}
}

// TriggerSweep is the fire-and-forget entry point used after session and
// presence transitions.
func (e *Engine) TriggerSweep() {
	if _, err := e.RunSweep(context.Background()); err != nil {
		log.Printf("Assignment sweep failed: %v", err)
	}
}

// RunSweep walks the waiting queue in (priority desc, started_at asc) order
// and claims the least-loaded eligible agent for each session. A lost claim
// race skips the session; the next sweep retries it. Returns the number of
// sessions assigned.
func (e *Engine) RunSweep(ctx context.Context) (int, error) {
	waiting, err := e.repo.ListWaiting()
	if err != nil {
		return 0, err
	}
	if len(waiting) == 0 {
		return 0, nil
	}

	agents, err := e.repo.ListEligible()
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, s := range waiting {
		idx := pickAgent(agents)
		if idx < 0 {
			// Every agent is at capacity; the rest of the queue keeps
			// waiting, which is a normal state and not an error.
			break
		}

		customerID, err := e.repo.Claim(s.ID, agents[idx].AgentID)
		if err != nil {
			if errs.IsConflict(err) {
				continue
			}
			return assigned, err
		}

		// Track the claim locally so one sweep can hand several sessions
		// to the same agent without rereading the registry.
		agents[idx].CurrentChatCount++
		assigned++

		e.notifyAssigned(ctx, s.ID, customerID, agents[idx].AgentID)
	}

	if assigned > 0 {
		log.Printf("Assignment sweep placed %d session(s)", assigned)
	}
	return assigned, nil
}

// pickAgent returns the index of the eligible agent with the lowest load,
// breaking ties in favor of the agent whose status was updated longest ago.
func pickAgent(agents []agent.AgentStatus) int {
	best := -1
	for i := range agents {
		if !agents[i].Eligible() {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		if agents[i].CurrentChatCount < agents[best].CurrentChatCount {
			best = i
			continue
		}
		if agents[i].CurrentChatCount == agents[best].CurrentChatCount &&
			agents[i].LastSeenAt.Before(agents[best].LastSeenAt) {
			best = i
		}
	}
	return best
}

// Assign is the supervisor-only manual override.
func (e *Engine) Assign(ctx context.Context, actor auth.CurrentUser, sessionID uuid.UUID, agentID int64) (*session.ChatSession, error) {
	if actor.Role != auth.RoleSupervisor {
		return nil, errs.E(errs.KindValidation, "manual assignment is supervisor-only")
	}

	s, err := e.repo.Reassign(sessionID, agentID)
	if err != nil {
		return nil, err
	}

	e.notifyAssigned(ctx, s.ID, s.CustomerID, agentID)
	return s, nil
}

func (e *Engine) notifyAssigned(ctx context.Context, sessionID uuid.UUID, customerID, agentID int64) {
	if e.dispatcher == nil {
		return
	}
	e.dispatcher.Notify(ctx, notify.Event{
		Type:            notify.EventAssigned,
		SessionID:       sessionID,
		RecipientUserID: customerID,
	})
	e.dispatcher.Notify(ctx, notify.Event{
		Type:            notify.EventAssigned,
		SessionID:       sessionID,
		RecipientUserID: agentID,
	})
}
