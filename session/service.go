package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/eben2468/srcwebsite-sub008/notify"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	summaryCacheKey = "chat:summary"
	summaryCacheTTL = 30 * time.Second
)

type Repository interface {
	Create(s *ChatSession, greeting string) error
	GetByID(id uuid.UUID) (*ChatSession, error)
	End(id uuid.UUID, closing string) (*ChatSession, bool, error)
	SetRating(id uuid.UUID, rating int, feedback *string) error
	ListWaiting() ([]ChatSession, error)
	Summary() (*QueueSummary, error)
}

// SweepTrigger lets session transitions kick the assignment engine without
// this package depending on it.
type SweepTrigger interface {
	TriggerSweep()
}

type SessionService struct {
	repo       Repository
	redis      *redis.Client
	sweeper    SweepTrigger
	dispatcher notify.Dispatcher
}

func NewSessionService(repo Repository, redisClient *redis.Client, sweeper SweepTrigger, dispatcher notify.Dispatcher) *SessionService {
	return &SessionService{
		repo:       repo,
		redis:      redisClient,
		sweeper:    sweeper,
		dispatcher: dispatcher,
	}
}

func (s *SessionService) Start(actor auth.CurrentUser, subject, department, priority string) (*ChatSession, error) {
	if actor.Role != auth.RoleCustomer {
		return nil, errs.E(errs.KindValidation, "only customers can open support sessions")
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, errs.E(errs.KindValidation, "subject is required")
	}

	department = strings.ToLower(strings.TrimSpace(department))
	if !ValidDepartment(department) {
		return nil, errs.Ef(errs.KindValidation, "unknown department %q", department)
	}

	if priority == "" {
		priority = PriorityMedium
	}
	if !ValidPriority(priority) {
		return nil, errs.Ef(errs.KindValidation, "unknown priority %q", priority)
	}

	session := &ChatSession{
		CustomerID: actor.ID,
		Subject:    subject,
		Department: department,
		Priority:   priority,
	}

	greeting := "Thank you for contacting the SRC support desk. An agent will join you shortly."
	if err := s.repo.Create(session, greeting); err != nil {
		return nil, err
	}

	if s.sweeper != nil {
		s.sweeper.TriggerSweep()
	}

	return session, nil
}

func (s *SessionService) Get(actor auth.CurrentUser, id uuid.UUID) (*ChatSession, error) {
	session, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, session); err != nil {
		return nil, err
	}
	return session, nil
}

// End is idempotent: the second call returns the terminal record unchanged.
func (s *SessionService) End(ctx context.Context, actor auth.CurrentUser, id uuid.UUID) (*ChatSession, error) {
	before, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, before); err != nil {
		return nil, err
	}

	closing := "This support session has been closed."
	ended, changed, err := s.repo.End(id, closing)
	if err != nil {
		return nil, err
	}

	if changed {
		s.notifyEnded(ctx, actor, before)
		if s.sweeper != nil {
			s.sweeper.TriggerSweep()
		}
	}

	return ended, nil
}

func (s *SessionService) notifyEnded(ctx context.Context, actor auth.CurrentUser, before *ChatSession) {
	if s.dispatcher == nil {
		return
	}
	if before.CustomerID != actor.ID {
		s.dispatcher.Notify(ctx, notify.Event{
			Type:            notify.EventEnded,
			SessionID:       before.ID,
			RecipientUserID: before.CustomerID,
		})
	}
	if before.AssignedAgentID != nil && *before.AssignedAgentID != actor.ID {
		s.dispatcher.Notify(ctx, notify.Event{
			Type:            notify.EventEnded,
			SessionID:       before.ID,
			RecipientUserID: *before.AssignedAgentID,
		})
	}
}

func (s *SessionService) Rate(actor auth.CurrentUser, id uuid.UUID, rating int, feedback *string) (*ChatSession, error) {
	session, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if session.CustomerID != actor.ID {
		return nil, errs.E(errs.KindValidation, "only the session customer can leave a rating")
	}
	if rating < 1 || rating > 5 {
		return nil, errs.E(errs.KindValidation, "rating must be between 1 and 5")
	}
	if !session.IsEnded() {
		return nil, errs.E(errs.KindStaleState, "session must be ended before it can be rated")
	}

	if err := s.repo.SetRating(id, rating, feedback); err != nil {
		return nil, err
	}

	return s.repo.GetByID(id)
}

func (s *SessionService) ListWaiting(actor auth.CurrentUser) ([]ChatSession, error) {
	if !actor.IsStaff() {
		return nil, errs.E(errs.KindValidation, "waiting queue is staff-only")
	}
	return s.repo.ListWaiting()
}

func (s *SessionService) Summary(ctx context.Context, actor auth.CurrentUser) (*QueueSummary, error) {
	if !actor.IsStaff() {
		return nil, errs.E(errs.KindValidation, "queue summary is staff-only")
	}

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, summaryCacheKey).Bytes()
		if err == nil {
			var summary QueueSummary
			if json.Unmarshal(cached, &summary) == nil {
				return &summary, nil
			}
		}
	}

	summary, err := s.repo.Summary()
	if err != nil {
		return nil, fmt.Errorf("failed to build queue summary: %w", err)
	}

	if s.redis != nil {
		if payload, err := json.Marshal(summary); err == nil {
			s.redis.Set(ctx, summaryCacheKey, payload, summaryCacheTTL)
		}
	}

	return summary, nil
}

func (s *SessionService) authorize(actor auth.CurrentUser, session *ChatSession) error {
	if actor.IsStaff() {
		return nil
	}
	if session.CustomerID != actor.ID {
		return errs.E(errs.KindNotFound, "session not found")
	}
	return nil
}
