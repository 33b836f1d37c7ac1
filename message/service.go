package message

import (
	"context"
	"strings"

	"github.com/eben2468/srcwebsite-sub008/auth"
	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/eben2468/srcwebsite-sub008/notify"
	"github.com/google/uuid"
)

type Repository interface {
	Append(msg *ChatMessage) (*SessionInfo, error)
	FetchSince(sessionID uuid.UUID, sinceID int64) ([]ChatMessage, error)
	GetSessionInfo(sessionID uuid.UUID) (*SessionInfo, error)
	MarkRead(sessionID uuid.UUID, readerType SenderType) (int64, error)
}

type MessageService struct {
	repo       Repository
	dispatcher notify.Dispatcher
}

func NewMessageService(repo Repository, dispatcher notify.Dispatcher) *MessageService {
	return &MessageService{repo: repo, dispatcher: dispatcher}
}

func (s *MessageService) Post(ctx context.Context, sessionID uuid.UUID, sender Sender, text, messageType string) (*ChatMessage, error) {
	if err := sender.Validate(); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.E(errs.KindValidation, "message text is required")
	}

	if messageType == "" {
		messageType = TypeText
	}
	if !ValidType(messageType) {
		return nil, errs.Ef(errs.KindValidation, "unknown message type %q", messageType)
	}

	msg := &ChatMessage{
		SessionID:  sessionID,
		SenderType: sender.Type,
		SenderID:   sender.UserID,
		Text:       text,
		Type:       messageType,
	}

	info, err := s.repo.Append(msg)
	if err != nil {
		return nil, err
	}

	s.notifyCounterparty(ctx, msg, info)

	return msg, nil
}

// notifyCounterparty pings whoever did not write the message; system
// messages notify nobody.
func (s *MessageService) notifyCounterparty(ctx context.Context, msg *ChatMessage, info *SessionInfo) {
	if s.dispatcher == nil {
		return
	}

	var recipient *int64
	switch msg.SenderType {
	case SenderCustomer:
		recipient = info.AssignedAgentID
	case SenderAgent:
		recipient = &info.CustomerID
	}
	if recipient == nil {
		return
	}

	s.dispatcher.Notify(ctx, notify.Event{
		Type:            notify.EventMessage,
		SessionID:       msg.SessionID,
		RecipientUserID: *recipient,
	})
}

func (s *MessageService) Fetch(actor auth.CurrentUser, sessionID uuid.UUID, sinceID int64) ([]ChatMessage, error) {
	if err := s.authorize(actor, sessionID); err != nil {
		return nil, err
	}
	if sinceID < 0 {
		sinceID = 0
	}
	return s.repo.FetchSince(sessionID, sinceID)
}

func (s *MessageService) MarkRead(actor auth.CurrentUser, sessionID uuid.UUID) (int64, error) {
	if err := s.authorize(actor, sessionID); err != nil {
		return 0, err
	}

	readerType := SenderAgent
	if actor.Role == auth.RoleCustomer {
		readerType = SenderCustomer
	}
	return s.repo.MarkRead(sessionID, readerType)
}

// SenderFor maps the request identity onto the ledger's sender variant.
// Supervisors write as agents when they step into a conversation.
func SenderFor(actor auth.CurrentUser) Sender {
	if actor.Role == auth.RoleCustomer {
		return CustomerSender(actor.ID)
	}
	return AgentSender(actor.ID)
}

func (s *MessageService) authorize(actor auth.CurrentUser, sessionID uuid.UUID) error {
	info, err := s.repo.GetSessionInfo(sessionID)
	if err != nil {
		return err
	}
	if actor.IsStaff() {
		return nil
	}
	if info.CustomerID != actor.ID {
		return errs.E(errs.KindNotFound, "session not found")
	}
	return nil
}
