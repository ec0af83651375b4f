// Package backend is the HTTP client of the forum REST API consumed by chat
// sessions: history load, send, and the realtime auth callback.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"forum-chat/domain"
	"forum-chat/errors"
)

type Client struct {
	log     *slog.Logger
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given API base URL. The timeout bounds
// every request; callers may tighten it further through the context.
func NewClient(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Messages implements contract.HistoryService. The backend's response order
// is authoritative chronological order and is returned untouched.
func (c *Client) Messages(ctx context.Context, currentUserID, counterpartID int64) ([]domain.Message, error) {
	url := fmt.Sprintf("%s/chat/messages/%d?current_user_id=%d",
		c.baseURL, counterpartID, currentUserID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrHistoryLoadFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrHistoryLoadFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", errors.ErrHistoryLoadFailed, resp.StatusCode)
	}

	var wire []domain.WireMessage
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrHistoryLoadFailed, err)
	}

	now := time.Now().UTC()
	return lo.Map(wire, func(w domain.WireMessage, _ int) domain.Message {
		return w.ToMessage(now)
	}), nil
}

type sendRequest struct {
	Message    string `json:"message"`
	ReceiverID int64  `json:"receiver_id"`
	SenderID   int64  `json:"sender_id"`
}

// Send implements contract.SendService. The persisted message is returned
// for logging purposes only; the authoritative copy arrives back through
// the live channel.
func (c *Client) Send(ctx context.Context, senderID, receiverID int64, body string) (domain.Message, error) {
	payload, err := json.Marshal(sendRequest{
		Message:    body,
		ReceiverID: receiverID,
		SenderID:   senderID,
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/send", bytes.NewReader(payload))
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrSendFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.Message{}, fmt.Errorf("%w: status %d", errors.ErrSendFailed, resp.StatusCode)
	}

	var wire domain.WireMessage
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrSendFailed, err)
	}
	return wire.ToMessage(time.Now().UTC()), nil
}

type authRequest struct {
	UserID int64 `json:"user_id"`
}

// Token implements contract.TokenSource. The response body is the realtime
// provider's token payload and is returned untouched.
func (c *Client) Token(ctx context.Context, userID int64) (json.RawMessage, error) {
	payload, err := json.Marshal(authRequest{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrAuthFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/realtime/auth", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrAuthFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrAuthFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", errors.ErrAuthFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrAuthFailed, err)
	}
	return json.RawMessage(body), nil
}
