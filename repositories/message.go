//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"forum-chat/domain"
)

type IMessageRepository interface {
	StoreMessage(msg domain.Message) error
	Conversation(userA, userB int64) ([]domain.Message, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{conversation_key}:{timestamp_padded}:{id}" to:
//  1. Scope a prefix scan to a single conversation (the key is
//     order-independent, so both directions share one history).
//  2. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  3. Prevent data loss by using the message id as a collision
//     disconnector if two messages arrive at the same nanosecond.
func (m MessageRepository) StoreMessage(msg domain.Message) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		domain.ConversationKey(msg.SenderID, msg.ReceiverID),
		msg.SentAt.UnixNano(),
		msg.ID,
	)
	bytes, err := json.Marshal(domain.FromMessage(msg))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// Conversation retrieves the messages between the two users, oldest first.
// Thanks to the padded timestamp in the key, entries are naturally sorted
// by time. With a configured limit only the most recent entries are kept:
// the scan runs in reverse and the result is flipped back before returning.
func (m MessageRepository) Conversation(userA, userB int64) ([]domain.Message, error) {
	prefixStr := fmt.Sprintf("msg:%s:", domain.ConversationKey(userA, userB))
	prefix := []byte(prefixStr)

	var byteMessages [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible key, then walk backwards.
		seekKey := append(append([]byte(nil), prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(byteMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			err := item.Value(func(value []byte) error {
				byteMessages = append(byteMessages, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	messages := make([]domain.Message, 0, len(byteMessages))
	for i := len(byteMessages) - 1; i >= 0; i-- {
		var wire domain.WireMessage
		if err := json.Unmarshal(byteMessages[i], &wire); err != nil {
			return nil, err
		}
		messages = append(messages, wire.ToMessage(now))
	}
	return messages, nil
}
