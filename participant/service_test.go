package participant

import (
	"testing"
	"time"

	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRoster enforces the roster invariants in memory: at most one active
// customer and one active agent per session; attaching a second agent
// replaces the first.
type fakeRoster struct {
	nextID       int64
	customers    map[uuid.UUID]int64
	participants map[uuid.UUID][]Participant
}

func newFakeRoster() *fakeRoster {
	return &fakeRoster{
		customers:    map[uuid.UUID]int64{},
		participants: map[uuid.UUID][]Participant{},
	}
}

func (f *fakeRoster) addSession(customerID int64) uuid.UUID {
	id := uuid.New()
	f.customers[id] = customerID
	f.mustAttach(id, customerID, RoleCustomer)
	return id
}

func (f *fakeRoster) mustAttach(sessionID uuid.UUID, userID int64, role string) {
	f.nextID++
	f.participants[sessionID] = append(f.participants[sessionID], Participant{
		ID:        f.nextID,
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now(),
		IsActive:  true,
	})
}

func (f *fakeRoster) activeWithRole(sessionID uuid.UUID, role string) *Participant {
	for i := range f.participants[sessionID] {
		p := &f.participants[sessionID][i]
		if p.IsActive && p.Role == role {
			return p
		}
	}
	return nil
}

func (f *fakeRoster) Attach(sessionID uuid.UUID, userID int64, role string) (*Participant, error) {
	if _, ok := f.customers[sessionID]; !ok {
		return nil, errs.E(errs.KindNotFound, "session not found")
	}
	switch role {
	case RoleCustomer:
		if f.activeWithRole(sessionID, RoleCustomer) != nil {
			return nil, errs.E(errs.KindConflict, "session already has an active customer")
		}
	case RoleAgent:
		if prior := f.activeWithRole(sessionID, RoleAgent); prior != nil {
			now := time.Now()
			prior.IsActive = false
			prior.LeftAt = &now
		}
	}
	f.mustAttach(sessionID, userID, role)
	p := f.participants[sessionID][len(f.participants[sessionID])-1]
	return &p, nil
}

func (f *fakeRoster) Detach(sessionID uuid.UUID, userID int64) error {
	for i := range f.participants[sessionID] {
		p := &f.participants[sessionID][i]
		if p.UserID == userID && p.IsActive {
			now := time.Now()
			p.IsActive = false
			p.LeftAt = &now
			return nil
		}
	}
	return errs.E(errs.KindNotFound, "participant not found")
}

func (f *fakeRoster) List(sessionID uuid.UUID) ([]Participant, error) {
	if _, ok := f.customers[sessionID]; !ok {
		return nil, errs.E(errs.KindNotFound, "session not found")
	}
	return f.participants[sessionID], nil
}

func (f *fakeRoster) SessionCustomer(sessionID uuid.UUID) (int64, error) {
	customerID, ok := f.customers[sessionID]
	if !ok {
		return 0, errs.E(errs.KindNotFound, "session not found")
	}
	return customerID, nil
}

func TestAttachRejectsUnknownRole(t *testing.T) {
	service := NewParticipantService(newFakeRoster())

	_, err := service.Attach(uuid.New(), 7, "moderator")
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestAttachSecondCustomerConflicts(t *testing.T) {
	roster := newFakeRoster()
	service := NewParticipantService(roster)
	sessionID := roster.addSession(7)

	_, err := service.Attach(sessionID, 8, RoleCustomer)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestAttachReplacesActiveAgent(t *testing.T) {
	roster := newFakeRoster()
	service := NewParticipantService(roster)
	sessionID := roster.addSession(7)

	first, err := service.Attach(sessionID, 21, RoleAgent)
	require.NoError(t, err)
	second, err := service.Attach(sessionID, 22, RoleAgent)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	active := roster.activeWithRole(sessionID, RoleAgent)
	require.NotNil(t, active)
	assert.Equal(t, int64(22), active.UserID, "the new agent is the only active one")

	all, err := service.List(auth.CurrentUser{ID: 99, Role: auth.RoleSupervisor}, sessionID)
	require.NoError(t, err)
	var inactiveAgents int
	for _, p := range all {
		if p.Role == RoleAgent && !p.IsActive {
			inactiveAgents++
			assert.NotNil(t, p.LeftAt)
		}
	}
	assert.Equal(t, 1, inactiveAgents, "the replaced agent stays in history")
}

func TestJoinIsStaffOnly(t *testing.T) {
	roster := newFakeRoster()
	service := NewParticipantService(roster)
	sessionID := roster.addSession(7)

	_, err := service.Join(auth.CurrentUser{ID: 8, Role: auth.RoleCustomer}, sessionID)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	p, err := service.Join(auth.CurrentUser{ID: 99, Role: auth.RoleSupervisor}, sessionID)
	require.NoError(t, err)
	assert.Equal(t, RoleSupervisor, p.Role)
}

func TestLeaveDeactivates(t *testing.T) {
	roster := newFakeRoster()
	service := NewParticipantService(roster)
	sessionID := roster.addSession(7)

	_, err := service.Attach(sessionID, 21, RoleAgent)
	require.NoError(t, err)

	err = service.Leave(auth.CurrentUser{ID: 21, Role: auth.RoleAgent}, sessionID)
	require.NoError(t, err)
	assert.Nil(t, roster.activeWithRole(sessionID, RoleAgent))

	err = service.Leave(auth.CurrentUser{ID: 21, Role: auth.RoleAgent}, sessionID)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err), "leaving twice finds nothing")
}

func TestListAuthorization(t *testing.T) {
	roster := newFakeRoster()
	service := NewParticipantService(roster)
	sessionID := roster.addSession(7)

	_, err := service.List(auth.CurrentUser{ID: 8, Role: auth.RoleCustomer}, sessionID)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err), "foreign customers see nothing")

	own, err := service.List(auth.CurrentUser{ID: 7, Role: auth.RoleCustomer}, sessionID)
	require.NoError(t, err)
	assert.Len(t, own, 1)
}
