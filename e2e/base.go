package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"

	"forum-chat/backend"
	"forum-chat/domain"
	"forum-chat/observability"
	"forum-chat/realtime"
	"forum-chat/session"
)

// BaseChatSuite connects real sessions to a running chat server. Every
// scenario goes through the public surface only: the REST API and the
// realtime channels, exactly like the terminal client.
type BaseChatSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseChatSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.APIAddr == "" {
		s.T().Skip("API_ADDR not set; skipping end-to-end scenarios")
	}
}

func (s *BaseChatSuite) Timeout() time.Duration {
	return time.Duration(s.Config.TimeoutSeconds) * time.Second
}

// Step prints a colorized header so scenario phases stand out in the logs.
func (s *BaseChatSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// NewSession opens a live session for user talking to counterpart and waits
// until the transport is connected.
func (s *BaseChatSuite) NewSession(user, counterpart domain.Participant) (*session.Session, *observability.SessionMetrics) {
	log := slog.Default()
	api := backend.NewClient(log, s.Config.APIAddr, s.Timeout())
	provider := realtime.NewProvider(log, api, s.Timeout())

	metrics := observability.NewSessionMetrics()
	sess := session.New(log, api, api, provider, counterpart,
		s.Timeout(), nil, metrics)
	sess.SetUser(s.T().Context(), &user)
	s.T().Cleanup(sess.Close)

	s.Require().Eventually(func() bool {
		return sess.State() == session.Connected && sess.Fault() == nil
	}, s.Timeout(), 50*time.Millisecond, "session never connected")

	return sess, metrics
}

// SendUntilVisible submits the body until the sender's own echo shows up.
// A publish can land in the short window before the subscription is live and
// the broker does not replay, so the scenarios resend instead of asserting
// exactly-once delivery of a particular copy.
func (s *BaseChatSuite) SendUntilVisible(ctx context.Context, sess *session.Session, body string) {
	deadline := time.Now().Add(s.Timeout())
	for {
		s.Require().NoError(sess.Send(ctx, body))
		attempt := time.Now().Add(time.Second)
		for time.Now().Before(attempt) {
			for _, m := range sess.Messages() {
				if m.Body == body {
					return
				}
			}
			time.Sleep(50 * time.Millisecond)
		}
		if time.Now().After(deadline) {
			s.Require().FailNow(fmt.Sprintf("echo for %q never arrived", body))
		}
	}
}

// WaitForBody blocks until a message with the given body is visible in the
// session's timeline.
func (s *BaseChatSuite) WaitForBody(sess *session.Session, body string) domain.Message {
	var found domain.Message
	s.Require().Eventually(func() bool {
		for _, m := range sess.Messages() {
			if m.Body == body {
				found = m
				return true
			}
		}
		return false
	}, s.Timeout(), 50*time.Millisecond, "message %q never arrived", body)
	return found
}
