package message

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/eben2468/srcwebsite-sub008/notify"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger mimics the repository's transactional guarantees: serial ids,
// ended-session rejection, participant checks for user senders.
type fakeLedger struct {
	mu       sync.Mutex
	nextID   int64
	info     map[uuid.UUID]*SessionInfo
	members  map[uuid.UUID]map[int64]bool
	messages map[uuid.UUID][]ChatMessage
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		info:     map[uuid.UUID]*SessionInfo{},
		members:  map[uuid.UUID]map[int64]bool{},
		messages: map[uuid.UUID][]ChatMessage{},
	}
}

func (f *fakeLedger) addSession(customerID int64, agentID *int64, status string) uuid.UUID {
	id := uuid.New()
	f.info[id] = &SessionInfo{CustomerID: customerID, AssignedAgentID: agentID, Status: status}
	f.members[id] = map[int64]bool{customerID: true}
	if agentID != nil {
		f.members[id][*agentID] = true
	}
	return id
}

func (f *fakeLedger) Append(msg *ChatMessage) (*SessionInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, ok := f.info[msg.SessionID]
	if !ok {
		return nil, errs.E(errs.KindNotFound, "session not found")
	}
	if info.Status == "ended" {
		return nil, errs.E(errs.KindStaleState, "cannot post into an ended session")
	}
	if msg.SenderType != SenderSystem && !f.members[msg.SessionID][*msg.SenderID] {
		return nil, errs.E(errs.KindValidation, "sender is not an active participant of this session")
	}

	f.nextID++
	msg.ID = f.nextID
	msg.SentAt = time.Now()
	f.messages[msg.SessionID] = append(f.messages[msg.SessionID], *msg)
	return info, nil
}

func (f *fakeLedger) FetchSince(sessionID uuid.UUID, sinceID int64) ([]ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []ChatMessage{}
	for _, m := range f.messages[sessionID] {
		if m.ID > sinceID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLedger) GetSessionInfo(sessionID uuid.UUID) (*SessionInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, ok := f.info[sessionID]
	if !ok {
		return nil, errs.E(errs.KindNotFound, "session not found")
	}
	return info, nil
}

func (f *fakeLedger) MarkRead(sessionID uuid.UUID, readerType SenderType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var updated int64
	msgs := f.messages[sessionID]
	for i := range msgs {
		if !msgs[i].IsRead && msgs[i].SenderType != readerType {
			msgs[i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

type recordingDispatcher struct {
	events []notify.Event
}

func (r *recordingDispatcher) Notify(ctx context.Context, event notify.Event) {
	r.events = append(r.events, event)
}

func TestPostMessageValidation(t *testing.T) {
	ledger := newFakeLedger()
	service := NewMessageService(ledger, nil)
	sessionID := ledger.addSession(7, nil, "waiting")

	_, err := service.Post(context.Background(), sessionID, CustomerSender(7), "   ", TypeText)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err), "empty text")

	_, err = service.Post(context.Background(), sessionID, CustomerSender(7), "hi", "video")
	assert.Equal(t, errs.KindValidation, errs.KindOf(err), "unknown type")

	_, err = service.Post(context.Background(), sessionID, CustomerSender(55), "hi", TypeText)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err), "non-participant sender")
}

func TestPostMessageIntoEndedSession(t *testing.T) {
	ledger := newFakeLedger()
	service := NewMessageService(ledger, nil)
	sessionID := ledger.addSession(7, nil, "ended")

	_, err := service.Post(context.Background(), sessionID, CustomerSender(7), "anyone there?", TypeText)
	assert.Equal(t, errs.KindStaleState, errs.KindOf(err))
}

func TestSystemMessageSkipsUserValidation(t *testing.T) {
	ledger := newFakeLedger()
	service := NewMessageService(ledger, nil)
	sessionID := ledger.addSession(7, nil, "waiting")

	msg, err := service.Post(context.Background(), sessionID, SystemSender(), "An agent will join shortly.", TypeSystem)
	require.NoError(t, err)
	assert.Equal(t, SenderSystem, msg.SenderType)
	assert.Nil(t, msg.SenderID)

	fetched, err := service.Fetch(auth.CurrentUser{ID: 7, Role: auth.RoleCustomer}, sessionID, 0)
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	assert.Equal(t, TypeSystem, fetched[0].Type)
}

func TestNotifyCounterparty(t *testing.T) {
	ledger := newFakeLedger()
	dispatcher := &recordingDispatcher{}
	service := NewMessageService(ledger, dispatcher)

	agentID := int64(21)
	sessionID := ledger.addSession(7, &agentID, "active")

	_, err := service.Post(context.Background(), sessionID, CustomerSender(7), "hello", TypeText)
	require.NoError(t, err)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, notify.EventMessage, dispatcher.events[0].Type)
	assert.Equal(t, agentID, dispatcher.events[0].RecipientUserID)

	_, err = service.Post(context.Background(), sessionID, AgentSender(21), "hi, how can I help?", TypeText)
	require.NoError(t, err)
	require.Len(t, dispatcher.events, 2)
	assert.Equal(t, int64(7), dispatcher.events[1].RecipientUserID)

	_, err = service.Post(context.Background(), sessionID, SystemSender(), "note", TypeSystem)
	require.NoError(t, err)
	assert.Len(t, dispatcher.events, 2, "system messages notify nobody")
}

func TestUnassignedCustomerMessageNotifiesNobody(t *testing.T) {
	ledger := newFakeLedger()
	dispatcher := &recordingDispatcher{}
	service := NewMessageService(ledger, dispatcher)
	sessionID := ledger.addSession(7, nil, "waiting")

	_, err := service.Post(context.Background(), sessionID, CustomerSender(7), "hello?", TypeText)
	require.NoError(t, err)
	assert.Empty(t, dispatcher.events)
}

func TestCursorIsGapFreeUnderConcurrentPosts(t *testing.T) {
	ledger := newFakeLedger()
	service := NewMessageService(ledger, nil)

	agentID := int64(21)
	sessionID := ledger.addSession(7, &agentID, "active")

	const perSender = 25
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < perSender; i++ {
			_, err := service.Post(context.Background(), sessionID, CustomerSender(7), "customer says hi", TypeText)
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perSender; i++ {
			_, err := service.Post(context.Background(), sessionID, AgentSender(21), "agent replies", TypeText)
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	reader := auth.CurrentUser{ID: 7, Role: auth.RoleCustomer}

	// Drain with a moving cursor in small polls, the way clients do.
	var cursor int64
	var collected []ChatMessage
	for {
		batch, err := service.Fetch(reader, sessionID, cursor)
		require.NoError(t, err)
		if len(batch) == 0 {
			break
		}
		collected = append(collected, batch...)
		cursor = batch[len(batch)-1].ID
	}

	require.Len(t, collected, 2*perSender)
	for i := 1; i < len(collected); i++ {
		assert.Equal(t, collected[i-1].ID+1, collected[i].ID,
			"ids are strictly increasing and gap-free")
	}

	// Replaying the same cursor returns the same suffix, duplicate-free.
	replay, err := service.Fetch(reader, sessionID, collected[10].ID)
	require.NoError(t, err)
	assert.Len(t, replay, len(collected)-11)
	assert.Equal(t, collected[11].ID, replay[0].ID)
}

func TestFetchAuthorization(t *testing.T) {
	ledger := newFakeLedger()
	service := NewMessageService(ledger, nil)
	sessionID := ledger.addSession(7, nil, "waiting")

	_, err := service.Fetch(auth.CurrentUser{ID: 1234, Role: auth.RoleCustomer}, sessionID, 0)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err), "foreign customers see nothing")

	_, err = service.Fetch(auth.CurrentUser{ID: 99, Role: auth.RoleSupervisor}, sessionID, 0)
	assert.NoError(t, err)
}

func TestMarkRead(t *testing.T) {
	ledger := newFakeLedger()
	service := NewMessageService(ledger, nil)

	agentID := int64(21)
	sessionID := ledger.addSession(7, &agentID, "active")

	_, err := service.Post(context.Background(), sessionID, AgentSender(21), "first", TypeText)
	require.NoError(t, err)
	_, err = service.Post(context.Background(), sessionID, CustomerSender(7), "second", TypeText)
	require.NoError(t, err)

	updated, err := service.MarkRead(auth.CurrentUser{ID: 7, Role: auth.RoleCustomer}, sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated, "only the agent's message becomes read")

	updated, err = service.MarkRead(auth.CurrentUser{ID: 7, Role: auth.RoleCustomer}, sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated, "second pass is a no-op")
}
