//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"encoding/json"

	"forum-chat/domain"
	"forum-chat/domain/event"
)

// HistoryService returns the persisted conversation with a counterpart,
// oldest first. The order of the result is authoritative and is not
// re-sorted client-side.
type HistoryService interface {
	Messages(ctx context.Context, currentUserID, counterpartID int64) ([]domain.Message, error)
}

// SendService persists an outgoing message server-side. Fan-out to the
// realtime channels is the backend's responsibility; the caller must not
// insert the message locally and waits for the channel echo instead.
type SendService interface {
	Send(ctx context.Context, senderID, receiverID int64, body string) (domain.Message, error)
}

// TokenSource exchanges a user id for an opaque realtime token payload.
// The payload is forwarded to the realtime provider unmodified.
type TokenSource interface {
	Token(ctx context.Context, userID int64) (json.RawMessage, error)
}

// ConnState is the transport-level connection state of a realtime handle.
type ConnState int8

const (
	ConnConnecting ConnState = iota
	ConnConnected
	ConnReconnecting
	ConnClosed
)

func (s ConnState) String() string {
	switch s {
	case ConnConnecting:
		return "connecting"
	case ConnConnected:
		return "connected"
	case ConnReconnecting:
		return "reconnecting"
	case ConnClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Connection is a live handle to the realtime provider, owned exclusively
// by one session. Exactly one connection may exist per active conversation.
type Connection interface {
	// Connect performs the auth callback and the transport handshake.
	// An auth failure is returned here, never swallowed.
	Connect(ctx context.Context) error
	Channel(name string) Channel
	// OnStateChange registers a listener for transport state transitions.
	// Listeners must be registered before Connect.
	OnStateChange(fn func(ConnState))
	Close() error
}

// Channel is an addressable pub/sub topic of the realtime provider.
type Channel interface {
	Subscribe(ctx context.Context, handler func(domain.Message)) (Subscription, error)
}

// Subscription is the handle of one active channel subscription. It must be
// torn down before its connection is closed or replaced.
type Subscription interface {
	Unsubscribe() error
}

// RealtimeProvider builds connections for a given identity.
type RealtimeProvider interface {
	Connection(user domain.Participant) Connection
}

// Publisher pushes a message onto a named realtime channel (backend side).
type Publisher interface {
	Publish(ctx context.Context, channel string, msg domain.Message) error
}

// EventSink receives session notifications for the presentation layer.
type EventSink interface {
	Consume(e event.DomainEvent)
}
