// Package domain contains core concepts of the chat feature.
// This file defines Message and its de-duplication rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"
)

// DefaultSenderName is used when the backend omits the display name.
const DefaultSenderName = "Unknown"

// Message represents one immutable entry of a two-party conversation.
// ID is assigned server-side and stays empty until the message is persisted.
type Message struct {
	ID         string
	SenderID   int64
	ReceiverID int64
	Body       string
	SenderName string
	SentAt     time.Time
}

// SameAs reports whether both representations denote the same logical
// message. When both carry a stable ID, ID equality is sufficient.
// Otherwise the match requires equal timestamp, sender and body, because
// a live delivery may echo a message before the server ID reached us.
func (m Message) SameAs(other Message) bool {
	if m.ID != "" && other.ID != "" {
		return m.ID == other.ID
	}
	return m.SentAt.Equal(other.SentAt) &&
		m.SenderID == other.SenderID &&
		m.Body == other.Body
}

// Between reports whether the message belongs to the conversation between
// the two given identities, regardless of direction.
func (m Message) Between(a, b int64) bool {
	return (m.SenderID == a && m.ReceiverID == b) ||
		(m.SenderID == b && m.ReceiverID == a)
}
