package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"forum-chat/domain"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func storedMessage(senderID, receiverID int64, body string, at time.Time) domain.Message {
	return domain.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		SenderName: "Admin",
		SentAt:     at,
	}
}

func Test_Record_Multiple_Messages(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	at := time.Now().UTC().Truncate(time.Millisecond)
	messages := []domain.Message{
		storedMessage(1, 2, "first", at),
		storedMessage(2, 1, "second", at.Add(time.Minute)),
		storedMessage(1, 2, "third", at.Add(2*time.Minute)),
	}
	for _, m := range messages {
		req.NoError(repository.StoreMessage(m))
	}

	fetched, err := repository.Conversation(1, 2)
	req.NoError(err)
	req.Len(fetched, len(messages))
	for i, m := range messages {
		req.Equal(m.ID, fetched[i].ID)
		req.Equal(m.Body, fetched[i].Body)
		req.True(m.SentAt.Equal(fetched[i].SentAt))
	}
}

func Test_Conversation_Is_Direction_Independent(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	at := time.Now().UTC()
	req.NoError(repository.StoreMessage(storedMessage(1, 2, "ping", at)))
	req.NoError(repository.StoreMessage(storedMessage(2, 1, "pong", at.Add(time.Second))))

	forward, err := repository.Conversation(1, 2)
	req.NoError(err)
	backward, err := repository.Conversation(2, 1)
	req.NoError(err)
	req.Equal(forward, backward)
	req.Len(forward, 2)
}

func Test_Conversation_Is_Scoped_To_Its_Participants(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	at := time.Now().UTC()
	req.NoError(repository.StoreMessage(storedMessage(1, 2, "ours", at)))
	req.NoError(repository.StoreMessage(storedMessage(1, 3, "someone else", at)))

	fetched, err := repository.Conversation(1, 2)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("ours", fetched[0].Body)
}

func Test_Conversation_Keeps_Chronological_Order_Regardless_Of_Write_Order(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	at := time.Now().UTC()
	// Written newest first on purpose
	req.NoError(repository.StoreMessage(storedMessage(1, 2, "newest", at.Add(2*time.Minute))))
	req.NoError(repository.StoreMessage(storedMessage(1, 2, "oldest", at)))
	req.NoError(repository.StoreMessage(storedMessage(2, 1, "middle", at.Add(time.Minute))))

	fetched, err := repository.Conversation(1, 2)
	req.NoError(err)
	req.Len(fetched, 3)
	req.Equal("oldest", fetched[0].Body)
	req.Equal("middle", fetched[1].Body)
	req.Equal("newest", fetched[2].Body)
}

func Test_Conversation_Limit_Keeps_The_Most_Recent(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewMessageRepository(openTestDB(t), slog.Default(), &limit)

	at := time.Now().UTC()
	for i, body := range []string{"first", "second", "third"} {
		req.NoError(repository.StoreMessage(
			storedMessage(1, 2, body, at.Add(time.Duration(i)*time.Minute))))
	}

	fetched, err := repository.Conversation(1, 2)
	req.NoError(err)
	req.Len(fetched, limit)
	req.Equal("second", fetched[0].Body)
	req.Equal("third", fetched[1].Body)
}

func Test_Conversation_Empty(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	fetched, err := repository.Conversation(1, 2)
	req.NoError(err)
	req.Empty(fetched)
}
