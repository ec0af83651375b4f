// Package session owns the lifecycle of one two-party conversation view:
// realtime connection and subscription, history loading, live message
// de-duplication, and the send flow.
package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"forum-chat/contract"
	"forum-chat/domain"
	"forum-chat/domain/event"
	"forum-chat/errors"
	"forum-chat/observability"
	"forum-chat/projection"
)

// Session presents a merged, de-duplicated, chronologically ordered view of
// a conversation with a fixed counterpart, backed by a persisted history
// and a live delivery channel.
//
// Every asynchronous completion carries the epoch it was started under and
// is discarded when a newer identity has taken over, so a late-resolving
// response can never leak into the wrong conversation.
type Session struct {
	log         *slog.Logger
	history     contract.HistoryService
	sender      contract.SendService
	realtime    contract.RealtimeProvider
	counterpart domain.Participant
	callTimeout time.Duration
	sink        contract.EventSink
	metrics     *observability.SessionMetrics

	mu       sync.Mutex
	epoch    uint64
	state    State
	user     *domain.Participant
	conn     contract.Connection
	sub      contract.Subscription
	timeline *projection.Timeline
	fault    error
}

// New builds a session for the conversation with the given counterpart.
// The sink and metrics may be nil.
func New(log *slog.Logger, history contract.HistoryService, sender contract.SendService,
	realtime contract.RealtimeProvider, counterpart domain.Participant,
	callTimeout time.Duration, sink contract.EventSink,
	metrics *observability.SessionMetrics) *Session {
	return &Session{
		log:         log,
		history:     history,
		sender:      sender,
		realtime:    realtime,
		counterpart: counterpart,
		callTimeout: callTimeout,
		sink:        sink,
		metrics:     metrics,
		state:       Uninitialized,
		timeline:    projection.NewTimeline(),
	}
}

// SetUser switches the identity driving the session (login, logout, account
// switch). The previous subscription and connection are fully torn down,
// in that order, before anything is established for the new identity; a nil
// user closes the session.
func (s *Session) SetUser(ctx context.Context, user *domain.Participant) {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	oldSub, oldConn := s.sub, s.conn
	s.sub, s.conn = nil, nil
	s.timeline.Clear()
	s.fault = nil
	if user == nil {
		s.user = nil
		s.state = Closed
	} else {
		u := *user
		s.user = &u
		s.state = Connecting
	}
	s.mu.Unlock()

	// The old handles are released outside the lock; any event they still
	// deliver is stale under the new epoch. Unsubscribe strictly precedes
	// close so the transport never sees a dangling subscription.
	if oldSub != nil {
		if err := oldSub.Unsubscribe(); err != nil {
			s.log.Warn("Unsubscribe failed during teardown", "err", err)
		}
	}
	if oldConn != nil {
		_ = oldConn.Close()
	}
	if user == nil {
		return
	}

	conn := s.realtime.Connection(*user)
	conn.OnStateChange(func(cs contract.ConnState) {
		s.onTransportState(epoch, cs)
	})

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.conn = conn
	s.mu.Unlock()

	go s.connect(ctx, epoch, conn)
}

// Close tears the session down: unsubscribe, close the connection, clear
// the in-memory message list.
func (s *Session) Close() {
	s.SetUser(context.Background(), nil)
}

func (s *Session) connect(ctx context.Context, epoch uint64, conn contract.Connection) {
	connectCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	if err := conn.Connect(connectCtx); err != nil {
		if !stderrors.Is(err, errors.ErrAuthFailed) &&
			!stderrors.Is(err, errors.ErrTransportDisconnected) {
			err = fmt.Errorf("%w: %v", errors.ErrAuthFailed, err)
		}
		s.raiseFault(epoch, err)
	}
}

// onTransportState mirrors transport transitions into the session. Every
// entry into Connected re-triggers, in parallel, the one-shot history load
// and the subscription setup; the timeline merge is order-independent so
// either may finish first.
func (s *Session) onTransportState(epoch uint64, cs contract.ConnState) {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}
	var user *domain.Participant
	switch cs {
	case contract.ConnConnected:
		if s.state == Reconnecting {
			s.metrics.IncrReconnects()
		}
		s.state = Connected
		user = s.user
	case contract.ConnReconnecting:
		s.state = Reconnecting
	case contract.ConnConnecting, contract.ConnClosed:
		// Connecting is already our state; Closed is our own teardown.
	}
	s.mu.Unlock()

	s.notify(event.TransportStateChanged{Epoch: epoch, State: cs.String()})

	if cs == contract.ConnConnected && user != nil {
		go s.loadHistory(epoch, user.ID)
		go s.resubscribe(epoch, user.ID)
	}
}

// loadHistory issues one request for the conversation history. On success
// the timeline is rebuilt from the response (its order is authoritative);
// on failure the existing messages stay untouched and a blocking fault is
// raised. Never retried automatically.
func (s *Session) loadHistory(epoch uint64, userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), s.callTimeout)
	defer cancel()

	messages, err := s.history.Messages(ctx, userID, s.counterpart.ID)
	if err != nil {
		s.metrics.IncrHistoryFailures()
		if !stderrors.Is(err, errors.ErrHistoryLoadFailed) {
			err = fmt.Errorf("%w: %v", errors.ErrHistoryLoadFailed, err)
		}
		s.raiseFault(epoch, err)
		return
	}

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}
	s.metrics.IncrHistoryLoads()
	if stderrors.Is(s.fault, errors.ErrHistoryLoadFailed) {
		s.fault = nil
	}
	s.timeline.ReplaceWithHistory(messages)
	snapshot := s.timeline.Snapshot()
	s.mu.Unlock()

	s.notify(event.TimelineUpdated{Epoch: epoch, Messages: snapshot})
}

// resubscribe releases the previous subscription, then creates exactly one
// new subscription on the user's inbound channel. The strict order prevents
// two overlapping subscriptions from delivering duplicate events.
func (s *Session) resubscribe(epoch uint64, userID int64) {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}
	old := s.sub
	s.sub = nil
	conn := s.conn
	s.mu.Unlock()

	if old != nil {
		if err := old.Unsubscribe(); err != nil {
			s.log.Warn("Unsubscribe before resubscribe failed", "err", err)
		}
	}
	if conn == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.callTimeout)
	defer cancel()

	sub, err := conn.Channel(domain.InboundChannel(userID)).Subscribe(ctx,
		func(m domain.Message) { s.onMessage(epoch, m) })
	if err != nil {
		if stderrors.Is(err, errors.ErrAuthFailed) {
			s.raiseFault(epoch, err)
		} else {
			s.log.Error("Channel subscription failed", "err", err)
		}
		return
	}

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		_ = sub.Unsubscribe()
		return
	}
	s.sub = sub
	s.mu.Unlock()
}

// onMessage applies one live delivery. Stale-epoch events are discarded,
// messages for a different conversation are filtered out, and duplicates
// resolve through the de-duplication key with no state change.
func (s *Session) onMessage(epoch uint64, m domain.Message) {
	s.mu.Lock()
	if epoch != s.epoch || s.user == nil {
		s.mu.Unlock()
		return
	}
	if !m.Between(s.user.ID, s.counterpart.ID) {
		s.mu.Unlock()
		s.metrics.IncrForeignDropped()
		return
	}
	inserted := s.timeline.Append(m)
	var snapshot []domain.Message
	if inserted {
		snapshot = s.timeline.Snapshot()
	}
	s.mu.Unlock()

	if !inserted {
		s.metrics.IncrDuplicatesDropped()
		return
	}
	s.metrics.IncrLiveDelivered()
	s.notify(event.TimelineUpdated{Epoch: epoch, Messages: snapshot})
}

// Send submits a message to the backend. The local list is not updated
// optimistically: the authoritative copy arrives back through the live
// channel, which is also what every other viewer receives. A whitespace-only
// body or a missing user performs no network call.
func (s *Session) Send(ctx context.Context, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return errors.ErrEmptyMessage
	}

	s.mu.Lock()
	user := s.user
	closed := s.state == Closed
	s.mu.Unlock()
	if closed {
		return errors.ErrSessionClosed
	}
	if user == nil {
		return errors.ErrNoCurrentUser
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	if _, err := s.sender.Send(callCtx, user.ID, s.counterpart.ID, body); err != nil {
		s.metrics.IncrSendFailures()
		if stderrors.Is(err, errors.ErrSendFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", errors.ErrSendFailed, err)
	}
	return nil
}

// Messages returns a snapshot of the merged timeline.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.Snapshot()
}

// Fault returns the blocking session fault, if any. Auth and history
// failures block the conversation view; send failures do not and are
// reported through Send's return value instead.
func (s *Session) Fault() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentUser returns a copy of the identity driving the session, or nil.
func (s *Session) CurrentUser() *domain.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Counterpart() domain.Participant {
	return s.counterpart
}

func (s *Session) raiseFault(epoch uint64, err error) {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}
	s.fault = err
	s.mu.Unlock()

	s.log.Error("Session fault", "err", err)
	s.notify(event.FaultRaised{Epoch: epoch, Err: err})
}

func (s *Session) notify(e event.DomainEvent) {
	if s.sink != nil {
		s.sink.Consume(e)
	}
}
