package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"forum-chat/domain"
	"forum-chat/errors"
	"forum-chat/mocks"
	"forum-chat/realtime"
)

func newTestRouter(t *testing.T) (*gin.Engine, *mocks.MockIChatService, *mocks.MockIAuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	chatSvc := mocks.NewMockIChatService(ctrl)
	authSvc := mocks.NewMockIAuthService(ctrl)
	router := NewRouter(slog.Default(),
		NewChatHandler(slog.Default(), chatSvc),
		NewAuthHandler(slog.Default(), authSvc))
	return router, chatSvc, authSvc
}

func TestChatHandler_Send(t *testing.T) {
	t.Run("should store and return the persisted message", func(t *testing.T) {
		req := require.New(t)
		router, chatSvc, _ := newTestRouter(t)

		sentAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		chatSvc.EXPECT().
			PostMessage(gomock.Any(), domain.SendCommand{
				SenderID: 2, ReceiverID: 1, Body: "Hello", SenderName: "Student",
			}).
			Return(domain.Message{ID: "10", SenderID: 2, ReceiverID: 1,
				Body: "Hello", SenderName: "Student", SentAt: sentAt}, nil)

		body := `{"message":"Hello","receiver_id":1,"sender_id":2,"sender_name":"Student"}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chat/send", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, r)

		req.Equal(http.StatusCreated, w.Code)
		var wire domain.WireMessage
		req.NoError(json.Unmarshal(w.Body.Bytes(), &wire))
		req.Equal("10", wire.ID)
		req.Equal("Hello", wire.Body)
		req.Equal(int64(2), wire.SenderID)
		req.Equal(sentAt.Format(time.RFC3339Nano), wire.Timestamp)
	})

	t.Run("should reject a body missing required fields", func(t *testing.T) {
		req := require.New(t)
		router, chatSvc, _ := newTestRouter(t)
		chatSvc.EXPECT().PostMessage(gomock.Any(), gomock.Any()).Times(0)

		for _, body := range []string{
			`{"receiver_id":1,"sender_id":2}`,
			`{"message":"Hello","sender_id":2}`,
			`{"message":"Hello","receiver_id":1}`,
			`not json`,
		} {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/chat/send", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, r)
			req.Equal(http.StatusBadRequest, w.Code, "body: %s", body)
		}
	})

	t.Run("should map an invalid command to 400", func(t *testing.T) {
		req := require.New(t)
		router, chatSvc, _ := newTestRouter(t)

		chatSvc.EXPECT().
			PostMessage(gomock.Any(), gomock.Any()).
			Return(domain.Message{}, fmt.Errorf("%w: whitespace only", errors.ErrInvalidCommand))

		body := `{"message":"   ","receiver_id":1,"sender_id":2}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chat/send", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, r)

		req.Equal(http.StatusBadRequest, w.Code)
	})

	t.Run("should map a storage failure to 500", func(t *testing.T) {
		req := require.New(t)
		router, chatSvc, _ := newTestRouter(t)

		chatSvc.EXPECT().
			PostMessage(gomock.Any(), gomock.Any()).
			Return(domain.Message{}, stderrors.New("disk full"))

		body := `{"message":"Hello","receiver_id":1,"sender_id":2}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/chat/send", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, r)

		req.Equal(http.StatusInternalServerError, w.Code)
	})
}

func TestChatHandler_Conversation(t *testing.T) {
	t.Run("should return the history as wire messages", func(t *testing.T) {
		req := require.New(t)
		router, chatSvc, _ := newTestRouter(t)

		sentAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		chatSvc.EXPECT().
			Conversation(gomock.Any(), int64(2), int64(1)).
			Return([]domain.Message{
				{ID: "10", SenderID: 1, ReceiverID: 2, Body: "Hi", SenderName: "Admin", SentAt: sentAt},
				{ID: "11", SenderID: 2, ReceiverID: 1, Body: "Hello", SenderName: "Student", SentAt: sentAt.Add(time.Minute)},
			}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/chat/messages/1?current_user_id=2", nil)
		router.ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)
		var wires []domain.WireMessage
		req.NoError(json.Unmarshal(w.Body.Bytes(), &wires))
		req.Len(wires, 2)
		req.Equal("Hi", wires[0].Body)
		req.Equal("Hello", wires[1].Body)
	})

	t.Run("should reject non-numeric identifiers", func(t *testing.T) {
		req := require.New(t)
		router, chatSvc, _ := newTestRouter(t)
		chatSvc.EXPECT().Conversation(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		for _, path := range []string{
			"/chat/messages/abc?current_user_id=2",
			"/chat/messages/1?current_user_id=abc",
			"/chat/messages/1",
		} {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, path, nil)
			router.ServeHTTP(w, r)
			req.Equal(http.StatusBadRequest, w.Code, "path: %s", path)
		}
	})

	t.Run("should map a lookup failure to 500", func(t *testing.T) {
		req := require.New(t)
		router, chatSvc, _ := newTestRouter(t)

		chatSvc.EXPECT().
			Conversation(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, stderrors.New("iterator broke"))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/chat/messages/1?current_user_id=2", nil)
		router.ServeHTTP(w, r)

		req.Equal(http.StatusInternalServerError, w.Code)
	})
}

func TestAuthHandler_RealtimeToken(t *testing.T) {
	t.Run("should return the opaque payload", func(t *testing.T) {
		req := require.New(t)
		router, _, authSvc := newTestRouter(t)

		authSvc.EXPECT().
			RealtimeToken(int64(2)).
			Return(realtime.TokenPayload{Token: "grant", Addr: "localhost:6379"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/realtime/auth", strings.NewReader(`{"user_id":2}`))
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)
		var payload realtime.TokenPayload
		req.NoError(json.Unmarshal(w.Body.Bytes(), &payload))
		req.Equal("grant", payload.Token)
		req.Equal("localhost:6379", payload.Addr)
	})

	t.Run("should reject a request without a user id", func(t *testing.T) {
		req := require.New(t)
		router, _, authSvc := newTestRouter(t)
		authSvc.EXPECT().RealtimeToken(gomock.Any()).Times(0)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/realtime/auth", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, r)

		req.Equal(http.StatusBadRequest, w.Code)
	})

	t.Run("should map a grant failure to 500", func(t *testing.T) {
		req := require.New(t)
		router, _, authSvc := newTestRouter(t)

		authSvc.EXPECT().
			RealtimeToken(int64(2)).
			Return(realtime.TokenPayload{}, stderrors.New("bad secret"))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/realtime/auth", strings.NewReader(`{"user_id":2}`))
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, r)

		req.Equal(http.StatusInternalServerError, w.Code)
	})
}
