package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"log/slog"

	"github.com/gookit/color"

	"forum-chat/errors"
	"forum-chat/session"
)

// Composer reads lines from the terminal and submits them as messages.
// A failed send leaves the typed line with the user (printed back) so it
// can be retried manually; nothing is retried automatically.
type Composer struct {
	log  *slog.Logger
	in   io.Reader
	sess *session.Session
}

func NewComposer(log *slog.Logger, in io.Reader, sess *session.Session) *Composer {
	return &Composer{log: log, in: in, sess: sess}
}

func (c *Composer) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := scanner.Text()
		err := c.sess.Send(ctx, line)
		switch {
		case err == nil:
		case stderrors.Is(err, errors.ErrEmptyMessage):
			// Nothing to send, nothing to report.
		case stderrors.Is(err, errors.ErrSessionClosed):
			return nil
		default:
			color.Red.Printf("!! send failed: %v\n", err)
			color.Yellow.Printf("   (not sent) %s\n", line)
		}
	}
	return scanner.Err()
}
