package backend

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"forum-chat/domain"
	"forum-chat/errors"
)

func TestClient_Messages(t *testing.T) {
	t.Run("should return the history in response order", func(t *testing.T) {
		req := require.New(t)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req.Equal(http.MethodGet, r.Method)
			req.Equal("/chat/messages/1", r.URL.Path)
			req.Equal("2", r.URL.Query().Get("current_user_id"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id":"10","sender_id":1,"receiver_id":2,"message":"Hi","sender_name":"Admin","timestamp":"2024-01-01T10:00:00Z"},
				{"id":"11","sender_id":2,"receiver_id":1,"message":"Hello","created_at":"2024-01-01T10:01:00Z"}
			]`))
		}))
		defer srv.Close()

		client := NewClient(slog.Default(), srv.URL, time.Second)
		messages, err := client.Messages(context.Background(), 2, 1)

		req.NoError(err)
		req.Len(messages, 2)
		req.Equal("Hi", messages[0].Body)
		req.Equal("Admin", messages[0].SenderName)
		// created_at fallback and the default display name
		req.Equal(time.Date(2024, 1, 1, 10, 1, 0, 0, time.UTC), messages[1].SentAt)
		req.Equal(domain.DefaultSenderName, messages[1].SenderName)
	})

	t.Run("should wrap non-200 responses", func(t *testing.T) {
		req := require.New(t)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(slog.Default(), srv.URL, time.Second)
		_, err := client.Messages(context.Background(), 2, 1)

		req.ErrorIs(err, errors.ErrHistoryLoadFailed)
	})

	t.Run("should wrap a connection failure", func(t *testing.T) {
		req := require.New(t)
		client := NewClient(slog.Default(), "http://127.0.0.1:1", 100*time.Millisecond)

		_, err := client.Messages(context.Background(), 2, 1)

		req.ErrorIs(err, errors.ErrHistoryLoadFailed)
	})
}

func TestClient_Send(t *testing.T) {
	t.Run("should post the message and decode the stored entry", func(t *testing.T) {
		req := require.New(t)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req.Equal(http.MethodPost, r.Method)
			req.Equal("/chat/send", r.URL.Path)

			var body map[string]any
			req.NoError(json.NewDecoder(r.Body).Decode(&body))
			req.Equal("Hello", body["message"])
			req.EqualValues(1, body["receiver_id"])
			req.EqualValues(2, body["sender_id"])

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"10","sender_id":2,"receiver_id":1,"message":"Hello","timestamp":"2024-01-01T10:00:00Z"}`))
		}))
		defer srv.Close()

		client := NewClient(slog.Default(), srv.URL, time.Second)
		msg, err := client.Send(context.Background(), 2, 1, "Hello")

		req.NoError(err)
		req.Equal("10", msg.ID)
		req.Equal("Hello", msg.Body)
	})

	t.Run("should accept a plain 200 as well", func(t *testing.T) {
		req := require.New(t)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"10","sender_id":2,"receiver_id":1,"message":"Hello"}`))
		}))
		defer srv.Close()

		client := NewClient(slog.Default(), srv.URL, time.Second)
		_, err := client.Send(context.Background(), 2, 1, "Hello")

		req.NoError(err)
	})

	t.Run("should wrap a rejected send", func(t *testing.T) {
		req := require.New(t)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		client := NewClient(slog.Default(), srv.URL, time.Second)
		_, err := client.Send(context.Background(), 2, 1, "Hello")

		req.ErrorIs(err, errors.ErrSendFailed)
	})
}

func TestClient_Token(t *testing.T) {
	t.Run("should return the payload untouched", func(t *testing.T) {
		req := require.New(t)
		payload := `{"token":"grant","addr":"localhost:6379"}`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req.Equal("/realtime/auth", r.URL.Path)
			var body map[string]any
			req.NoError(json.NewDecoder(r.Body).Decode(&body))
			req.EqualValues(2, body["user_id"])
			_, _ = w.Write([]byte(payload))
		}))
		defer srv.Close()

		client := NewClient(slog.Default(), srv.URL, time.Second)
		raw, err := client.Token(context.Background(), 2)

		req.NoError(err)
		req.JSONEq(payload, string(raw))
	})

	t.Run("should wrap an auth rejection", func(t *testing.T) {
		req := require.New(t)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := NewClient(slog.Default(), srv.URL, time.Second)
		_, err := client.Token(context.Background(), 2)

		req.ErrorIs(err, errors.ErrAuthFailed)
	})
}
