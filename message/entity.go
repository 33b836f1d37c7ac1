package message

import (
	"time"

	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/google/uuid"
)

type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderAgent    SenderType = "agent"
	SenderSystem   SenderType = "system"
)

const (
	TypeText   = "text"
	TypeSystem = "system"
	TypeFile   = "file"
	TypeImage  = "image"
)

// Sender is the tagged variant behind every message. System messages carry
// no user id at all; they are never checked against the user directory.
type Sender struct {
	Type   SenderType `json:"type"`
	UserID *int64     `json:"user_id,omitempty"`
}

func CustomerSender(userID int64) Sender {
	return Sender{Type: SenderCustomer, UserID: &userID}
}

func AgentSender(userID int64) Sender {
	return Sender{Type: SenderAgent, UserID: &userID}
}

func SystemSender() Sender {
	return Sender{Type: SenderSystem}
}

func (s Sender) Validate() error {
	switch s.Type {
	case SenderSystem:
		if s.UserID != nil {
			return errs.E(errs.KindValidation, "system sender must not carry a user id")
		}
	case SenderCustomer, SenderAgent:
		if s.UserID == nil {
			return errs.Ef(errs.KindValidation, "%s sender requires a user id", s.Type)
		}
	default:
		return errs.Ef(errs.KindValidation, "unknown sender type %q", s.Type)
	}
	return nil
}

type ChatMessage struct {
	ID         int64      `db:"id" json:"id"`
	SessionID  uuid.UUID  `db:"session_id" json:"session_id"`
	SenderType SenderType `db:"sender_type" json:"sender_type"`
	SenderID   *int64     `db:"sender_id" json:"sender_id,omitempty"`
	Text       string     `db:"text" json:"text"`
	Type       string     `db:"message_type" json:"type"`
	SentAt     time.Time  `db:"sent_at" json:"sent_at"`
	IsRead     bool       `db:"is_read" json:"is_read"`
}

func (m *ChatMessage) Sender() Sender {
	return Sender{Type: m.SenderType, UserID: m.SenderID}
}

func ValidType(messageType string) bool {
	switch messageType {
	case TypeText, TypeSystem, TypeFile, TypeImage:
		return true
	}
	return false
}
