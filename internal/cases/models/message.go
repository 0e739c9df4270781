package models

import (
	"strings"
	"time"

	dErrors "resgate/pkg/domain-errors"
)

// SenderRole identifies which side of the conversation sent a message.
type SenderRole string

const (
	SenderCitizen      SenderRole = "citizen"
	SenderOrganization SenderRole = "organization"
)

// Message is one entry in a case's conversation. Immutable once appended.
// Seq is assigned by the message store and is strictly increasing per case.
type Message struct {
	Seq        int64      `json:"seq"`
	Text       string     `json:"text"`
	SentAt     time.Time  `json:"sent_at"`
	SenderName string     `json:"sender_name"`
	SenderRole SenderRole `json:"sender_role"`
}

// NewMessage validates and constructs a conversation message. Text must be
// non-empty after trimming.
func NewMessage(role SenderRole, senderName, text string, now time.Time) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, dErrors.New(dErrors.CodeInvalidInput, "message text cannot be empty")
	}
	if role != SenderCitizen && role != SenderOrganization {
		return Message{}, dErrors.Newf(dErrors.CodeInvalidInput, "unknown sender role %q", role)
	}
	senderName = strings.TrimSpace(senderName)
	if senderName == "" {
		return Message{}, dErrors.New(dErrors.CodeInvalidInput, "sender name is required")
	}
	return Message{
		Text:       text,
		SentAt:     now,
		SenderName: senderName,
		SenderRole: role,
	}, nil
}
