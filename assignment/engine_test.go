package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/eben2468/srcwebsite-sub008/agent"
	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/eben2468/srcwebsite-sub008/notify"
	"github.com/eben2468/srcwebsite-sub008/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore models the store the sweep runs against. Claim enforces the same
// guards the SQL does: waiting session, eligible agent with spare capacity.
type fakeStore struct {
	waiting []session.ChatSession
	agents  []agent.AgentStatus

	claims      map[uuid.UUID]int64 // session -> agent
	failClaims  map[uuid.UUID]bool  // sessions that lose the claim race
	reassignErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		claims:     map[uuid.UUID]int64{},
		failClaims: map[uuid.UUID]bool{},
	}
}

func (f *fakeStore) addWaiting(customerID int64, priority string, startedAt time.Time) uuid.UUID {
	s := session.ChatSession{
		ID:         uuid.New(),
		CustomerID: customerID,
		Priority:   priority,
		Status:     session.StatusWaiting,
		StartedAt:  startedAt,
	}
	f.waiting = append(f.waiting, s)
	return s.ID
}

func (f *fakeStore) addAgent(id int64, load, max int, lastSeen time.Time) {
	f.agents = append(f.agents, agent.AgentStatus{
		AgentID:            id,
		Presence:           agent.PresenceOnline,
		MaxConcurrentChats: max,
		CurrentChatCount:   load,
		AutoAssign:         true,
		LastSeenAt:         lastSeen,
	})
}

// ListWaiting returns the queue in (priority desc, started_at asc) order,
// the same ordering the repository's SQL produces.
func (f *fakeStore) ListWaiting() ([]session.ChatSession, error) {
	out := make([]session.ChatSession, len(f.waiting))
	copy(out, f.waiting)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, b := out[j-1], out[j]
			if session.PriorityRank(b.Priority) > session.PriorityRank(a.Priority) ||
				(session.PriorityRank(b.Priority) == session.PriorityRank(a.Priority) && b.StartedAt.Before(a.StartedAt)) {
				out[j-1], out[j] = b, a
			}
		}
	}
	return out, nil
}

func (f *fakeStore) ListEligible() ([]agent.AgentStatus, error) {
	out := make([]agent.AgentStatus, len(f.agents))
	copy(out, f.agents)
	return out, nil
}

func (f *fakeStore) Claim(sessionID uuid.UUID, agentID int64) (int64, error) {
	if f.failClaims[sessionID] {
		return 0, errs.E(errs.KindConflict, "session is no longer waiting")
	}
	for i := range f.agents {
		if f.agents[i].AgentID != agentID {
			continue
		}
		if !f.agents[i].Eligible() {
			return 0, errs.E(errs.KindConflict, "agent has no spare capacity")
		}
		f.agents[i].CurrentChatCount++
	}
	for i := range f.waiting {
		if f.waiting[i].ID == sessionID {
			f.claims[sessionID] = agentID
			return f.waiting[i].CustomerID, nil
		}
	}
	return 0, errs.E(errs.KindConflict, "session is no longer waiting")
}

func (f *fakeStore) Reassign(sessionID uuid.UUID, agentID int64) (*session.ChatSession, error) {
	if f.reassignErr != nil {
		return nil, f.reassignErr
	}
	for i := range f.waiting {
		if f.waiting[i].ID == sessionID {
			s := f.waiting[i]
			s.Status = session.StatusActive
			s.AssignedAgentID = &agentID
			return &s, nil
		}
	}
	return nil, errs.E(errs.KindNotFound, "session not found")
}

type recordingDispatcher struct {
	events []notify.Event
}

func (r *recordingDispatcher) Notify(ctx context.Context, event notify.Event) {
	r.events = append(r.events, event)
}

func TestPickAgentLeastLoaded(t *testing.T) {
	now := time.Now()
	agents := []agent.AgentStatus{
		{AgentID: 1, Presence: agent.PresenceOnline, AutoAssign: true, CurrentChatCount: 2, MaxConcurrentChats: 3, LastSeenAt: now},
		{AgentID: 2, Presence: agent.PresenceOnline, AutoAssign: true, CurrentChatCount: 0, MaxConcurrentChats: 3, LastSeenAt: now},
		{AgentID: 3, Presence: agent.PresenceOnline, AutoAssign: true, CurrentChatCount: 1, MaxConcurrentChats: 3, LastSeenAt: now},
	}
	assert.Equal(t, 1, pickAgent(agents), "agent 2 carries the least")
}

func TestPickAgentLastSeenTiebreak(t *testing.T) {
	now := time.Now()
	agents := []agent.AgentStatus{
		{AgentID: 1, Presence: agent.PresenceOnline, AutoAssign: true, CurrentChatCount: 1, MaxConcurrentChats: 3, LastSeenAt: now},
		{AgentID: 2, Presence: agent.PresenceOnline, AutoAssign: true, CurrentChatCount: 1, MaxConcurrentChats: 3, LastSeenAt: now.Add(-time.Hour)},
	}
	assert.Equal(t, 1, pickAgent(agents), "equal load falls back to the stalest status")
}

func TestPickAgentSkipsIneligible(t *testing.T) {
	now := time.Now()
	agents := []agent.AgentStatus{
		{AgentID: 1, Presence: agent.PresenceAway, AutoAssign: true, CurrentChatCount: 0, MaxConcurrentChats: 3, LastSeenAt: now},
		{AgentID: 2, Presence: agent.PresenceOnline, AutoAssign: false, CurrentChatCount: 0, MaxConcurrentChats: 3, LastSeenAt: now},
		{AgentID: 3, Presence: agent.PresenceOnline, AutoAssign: true, CurrentChatCount: 3, MaxConcurrentChats: 3, LastSeenAt: now},
	}
	assert.Equal(t, -1, pickAgent(agents), "offline, opted-out and full agents never match")
}

func TestRunSweepAssignsByPriorityThenAge(t *testing.T) {
	store := newFakeStore()
	now := time.Now()

	lowOld := store.addWaiting(10, session.PriorityLow, now.Add(-time.Hour))
	urgent := store.addWaiting(11, session.PriorityUrgent, now.Add(-time.Minute))
	mediumOld := store.addWaiting(12, session.PriorityMedium, now.Add(-30*time.Minute))
	mediumNew := store.addWaiting(13, session.PriorityMedium, now.Add(-5*time.Minute))

	// Three slots total, four waiting sessions: the old low-priority
	// session is the one left behind.
	store.addAgent(21, 0, 2, now.Add(-time.Hour))
	store.addAgent(22, 0, 1, now)

	engine := NewEngine(store, nil)
	assigned, err := engine.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, assigned)

	assert.Contains(t, store.claims, urgent)
	assert.Contains(t, store.claims, mediumOld)
	assert.Contains(t, store.claims, mediumNew)
	assert.NotContains(t, store.claims, lowOld)
}

func TestRunSweepStacksOneAgentWithinCapacity(t *testing.T) {
	store := newFakeStore()
	now := time.Now()

	first := store.addWaiting(10, session.PriorityMedium, now.Add(-time.Hour))
	second := store.addWaiting(11, session.PriorityMedium, now.Add(-time.Minute))
	store.addAgent(21, 0, 3, now)

	engine := NewEngine(store, nil)
	assigned, err := engine.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, assigned)
	assert.Equal(t, int64(21), store.claims[first])
	assert.Equal(t, int64(21), store.claims[second])
	assert.Equal(t, 2, store.agents[0].CurrentChatCount)
}

func TestRunSweepStopsWhenCapacityExhausted(t *testing.T) {
	store := newFakeStore()
	now := time.Now()

	store.addWaiting(10, session.PriorityHigh, now.Add(-time.Hour))
	store.addWaiting(11, session.PriorityLow, now)
	store.addAgent(21, 2, 3, now)

	engine := NewEngine(store, nil)
	assigned, err := engine.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, assigned)
	assert.Len(t, store.claims, 1)
}

func TestRunSweepSkipsLostClaimRace(t *testing.T) {
	store := newFakeStore()
	now := time.Now()

	raced := store.addWaiting(10, session.PriorityUrgent, now.Add(-time.Hour))
	ok := store.addWaiting(11, session.PriorityLow, now)
	store.failClaims[raced] = true
	store.addAgent(21, 0, 3, now)

	engine := NewEngine(store, nil)
	assigned, err := engine.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, assigned)
	assert.NotContains(t, store.claims, raced)
	assert.Contains(t, store.claims, ok)
}

func TestRunSweepNotifiesBothParties(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordingDispatcher{}
	now := time.Now()

	sessionID := store.addWaiting(7, session.PriorityMedium, now)
	store.addAgent(21, 0, 3, now)

	engine := NewEngine(store, dispatcher)
	_, err := engine.RunSweep(context.Background())
	require.NoError(t, err)

	require.Len(t, dispatcher.events, 2)
	recipients := []int64{dispatcher.events[0].RecipientUserID, dispatcher.events[1].RecipientUserID}
	assert.ElementsMatch(t, []int64{7, 21}, recipients)
	for _, e := range dispatcher.events {
		assert.Equal(t, notify.EventAssigned, e.Type)
		assert.Equal(t, sessionID, e.SessionID)
	}
}

func TestManualAssignIsSupervisorOnly(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, nil)

	_, err := engine.Assign(context.Background(), auth.CurrentUser{ID: 21, Role: auth.RoleAgent}, uuid.New(), 22)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestManualAssignSurfacesCapacityError(t *testing.T) {
	store := newFakeStore()
	store.reassignErr = errs.E(errs.KindCapacity, "agent is at capacity")
	engine := NewEngine(store, nil)

	_, err := engine.Assign(context.Background(), auth.CurrentUser{ID: 99, Role: auth.RoleSupervisor}, uuid.New(), 21)
	assert.Equal(t, errs.KindCapacity, errs.KindOf(err))
}

func TestManualAssignNotifiesAndReturnsSession(t *testing.T) {
	store := newFakeStore()
	dispatcher := &recordingDispatcher{}
	now := time.Now()

	sessionID := store.addWaiting(7, session.PriorityMedium, now)
	engine := NewEngine(store, dispatcher)

	s, err := engine.Assign(context.Background(), auth.CurrentUser{ID: 99, Role: auth.RoleSupervisor}, sessionID, 21)
	require.NoError(t, err)
	require.NotNil(t, s.AssignedAgentID)
	assert.Equal(t, int64(21), *s.AssignedAgentID)
	assert.Equal(t, session.StatusActive, s.Status)
	assert.Len(t, dispatcher.events, 2)
}
