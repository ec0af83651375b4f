package domain

import "time"

// WireMessage is the JSON shape exchanged with the REST backend and pushed
// on the realtime channels.
type WireMessage struct {
	ID         string `json:"id,omitempty"`
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	Body       string `json:"message"`
	SenderName string `json:"sender_name,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// ToMessage normalizes a wire entry. The sender name defaults to
// DefaultSenderName; the timestamp falls back to created_at, then to the
// given instant when both are missing or unparsable.
func (w WireMessage) ToMessage(now time.Time) Message {
	name := w.SenderName
	if name == "" {
		name = DefaultSenderName
	}

	at := now
	for _, raw := range []string{w.Timestamp, w.CreatedAt} {
		if raw == "" {
			continue
		}
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			at = parsed
			break
		}
	}

	return Message{
		ID:         w.ID,
		SenderID:   w.SenderID,
		ReceiverID: w.ReceiverID,
		Body:       w.Body,
		SenderName: name,
		SentAt:     at,
	}
}

// FromMessage builds the wire shape of a persisted message.
func FromMessage(m Message) WireMessage {
	return WireMessage{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Body:       m.Body,
		SenderName: m.SenderName,
		Timestamp:  m.SentAt.UTC().Format(time.RFC3339Nano),
	}
}
