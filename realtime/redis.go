// Package realtime implements the pub/sub provider contract over Redis with
// token-based authentication. A connection authenticates through the token
// source on the initial dial and on every refresh the transport deems
// necessary; the session never sees the payload content.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"forum-chat/auth"
	"forum-chat/contract"
	"forum-chat/domain"
	"forum-chat/errors"
)

// refreshLead is how long before grant expiry the transport re-authenticates.
const refreshLead = 30 * time.Second

// refreshRetryInterval paces re-dial attempts after a failed refresh.
const refreshRetryInterval = 10 * time.Second

type Provider struct {
	log         *slog.Logger
	tokens      contract.TokenSource
	dialTimeout time.Duration
}

func NewProvider(log *slog.Logger, tokens contract.TokenSource, dialTimeout time.Duration) *Provider {
	return &Provider{log: log, tokens: tokens, dialTimeout: dialTimeout}
}

// Connection builds a handle for one identity. The caller owns it
// exclusively and must Close it before building a replacement.
func (p *Provider) Connection(user domain.Participant) contract.Connection {
	return &Connection{
		log:         p.log,
		tokens:      p.tokens,
		user:        user,
		dialTimeout: p.dialTimeout,
	}
}

type Connection struct {
	log         *slog.Logger
	tokens      contract.TokenSource
	user        domain.Participant
	dialTimeout time.Duration

	mu            sync.Mutex
	client        *redis.Client
	grant         *auth.ChannelClaims
	listeners     []func(contract.ConnState)
	closed        bool
	refreshCancel context.CancelFunc
}

func (c *Connection) OnStateChange(fn func(contract.ConnState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Connection) setState(s contract.ConnState) {
	c.mu.Lock()
	listeners := append(([]func(contract.ConnState))(nil), c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

// Connect performs the auth callback, dials the broker and verifies it with
// a PING. An auth-callback failure is returned to the caller, never
// swallowed.
func (c *Connection) Connect(ctx context.Context) error {
	c.setState(contract.ConnConnecting)
	if err := c.dial(ctx); err != nil {
		return err
	}
	c.setState(contract.ConnConnected)
	c.scheduleRefresh()
	return nil
}

// dial fetches a fresh token payload and replaces the broker client.
func (c *Connection) dial(ctx context.Context) error {
	raw, err := c.tokens.Token(ctx, c.user.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrAuthFailed, err)
	}

	payload, err := decodePayload(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrAuthFailed, err)
	}
	grant, err := auth.PeekChannelClaims(payload.Token)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrAuthFailed, err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     payload.Addr,
		Username: payload.Username,
		Password: payload.Password,
		DB:       payload.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("%w: %v", errors.ErrTransportDisconnected, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = client.Close()
		return errors.ErrTransportDisconnected
	}
	old := c.client
	c.client = client
	c.grant = grant
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// scheduleRefresh re-dials with a fresh token shortly before the grant
// expires. Replacing the client tears existing subscriptions down; the
// Reconnecting/Connected transitions tell the owning session to resubscribe
// exactly once.
func (c *Connection) scheduleRefresh() {
	c.mu.Lock()
	grant := c.grant
	if c.refreshCancel != nil {
		c.refreshCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.refreshCancel = cancel
	c.mu.Unlock()

	if grant == nil || grant.ExpiresAt == nil {
		cancel()
		return
	}

	wait := time.Until(grant.ExpiresAt.Time) - refreshLead
	if wait < time.Second {
		wait = time.Second
	}

	go func() {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		c.setState(contract.ConnReconnecting)
		for {
			dialCtx, dialCancel := context.WithTimeout(ctx, c.dialTimeout)
			err := c.dial(dialCtx)
			dialCancel()
			if err == nil {
				c.setState(contract.ConnConnected)
				c.scheduleRefresh()
				return
			}
			c.log.Error("Realtime token refresh failed", "user", c.user.ID, "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(refreshRetryInterval):
			}
		}
	}()
}

func (c *Connection) Channel(name string) contract.Channel {
	return &Channel{conn: c, name: name}
}

// Close releases the broker client. Subscriptions must already be released
// by the owner.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cancel := c.refreshCancel
	c.refreshCancel = nil
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.setState(contract.ConnClosed)
	if client != nil {
		return client.Close()
	}
	return nil
}

type Channel struct {
	conn *Connection
	name string
}

// Subscribe attaches the handler to the channel. The grant must cover the
// channel name; a user may only listen on their own inbound channel.
func (ch *Channel) Subscribe(ctx context.Context, handler func(domain.Message)) (contract.Subscription, error) {
	ch.conn.mu.Lock()
	client := ch.conn.client
	grant := ch.conn.grant
	ch.conn.mu.Unlock()

	if client == nil {
		return nil, errors.ErrTransportDisconnected
	}
	if grant != nil && grant.Channel != "" && grant.Channel != ch.name {
		return nil, fmt.Errorf("%w: channel %q not granted", errors.ErrAuthFailed, ch.name)
	}

	pubsub := client.Subscribe(ctx, ch.name)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("%w: %v", errors.ErrTransportDisconnected, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range pubsub.Channel() {
			var wire domain.WireMessage
			if err := json.Unmarshal([]byte(msg.Payload), &wire); err != nil {
				ch.conn.log.Warn("Dropping undecodable realtime payload",
					"channel", ch.name, "err", err)
				continue
			}
			handler(wire.ToMessage(time.Now().UTC()))
		}
	}()

	return &Subscription{pubsub: pubsub, done: done}, nil
}

type Subscription struct {
	pubsub *redis.PubSub
	done   chan struct{}
	once   sync.Once
}

// Unsubscribe closes the pubsub and waits for the reader goroutine to
// drain, so no handler fires after it returns.
func (s *Subscription) Unsubscribe() error {
	var err error
	s.once.Do(func() {
		err = s.pubsub.Close()
		<-s.done
	})
	return err
}
