package reconcile

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/eben2468/srcwebsite-sub008/notify"
	"github.com/google/uuid"
)

const (
	PolicyRequeue = "requeue"
	PolicyEnd     = "end"
)

type Repository interface {
	RecountAgentLoads() (int64, error)
	ListStale(idleBefore time.Time) ([]StaleSession, error)
	Requeue(sessionID uuid.UUID) (bool, error)
	EndStale(sessionID uuid.UUID) (int64, bool, error)
}

type SweepReport struct {
	CorrectedCounters int64 `json:"corrected_counters"`
	Requeued          int   `json:"requeued"`
	Ended             int   `json:"ended"`
}

// ReconcileService is the periodic self-healing pass: it re-derives the
// agent chat counters from the sessions table and recovers active sessions
// whose agent went away or that idled out. Every step is guarded, so
// running it concurrently with itself or with the assignment engine only
// means some steps become no-ops.
type ReconcileService struct {
	repo       Repository
	dispatcher notify.Dispatcher
}

func NewReconcileService(repo Repository, dispatcher notify.Dispatcher) *ReconcileService {
	return &ReconcileService{repo: repo, dispatcher: dispatcher}
}

func (s *ReconcileService) RunSweep(ctx context.Context) (*SweepReport, error) {
	report := &SweepReport{}

	corrected, err := s.repo.RecountAgentLoads()
	if err != nil {
		return nil, err
	}
	report.CorrectedCounters = corrected
	if corrected > 0 {
		log.Printf("Reconciliation corrected %d drifted agent counter(s)", corrected)
	}

	threshold := idleThreshold()
	stale, err := s.repo.ListStale(time.Now().UTC().Add(-threshold))
	if err != nil {
		return nil, err
	}

	policy := idlePolicy()
	for _, st := range stale {
		// An absent agent always means requeue: the customer is still
		// there, the conversation just lost its agent. Only pure idleness
		// falls under the configured policy.
		if st.AgentOffline() || policy == PolicyRequeue {
			requeued, err := s.repo.Requeue(st.ID)
			if err != nil {
				return report, err
			}
			if requeued {
				report.Requeued++
			}
			continue
		}

		customerID, ended, err := s.repo.EndStale(st.ID)
		if err != nil {
			return report, err
		}
		if ended {
			report.Ended++
			if s.dispatcher != nil {
				s.dispatcher.Notify(ctx, notify.Event{
					Type:            notify.EventEnded,
					SessionID:       st.ID,
					RecipientUserID: customerID,
				})
			}
		}
	}

	if report.Requeued > 0 || report.Ended > 0 {
		log.Printf("Reconciliation requeued %d and ended %d stale session(s)", report.Requeued, report.Ended)
	}
	return report, nil
}

func idleThreshold() time.Duration {
	minutes, err := strconv.Atoi(os.Getenv("CHAT_IDLE_THRESHOLD_MINUTES"))
	if err != nil || minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

func idlePolicy() string {
	policy := os.Getenv("CHAT_IDLE_POLICY")
	if policy != PolicyEnd {
		return PolicyRequeue
	}
	return PolicyEnd
}
