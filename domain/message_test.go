package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMessage_SameAs_By_ID(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// Given two representations of the same persisted message
	a := Message{ID: "10", SenderID: 1, ReceiverID: 2, Body: "Hi", SentAt: at}
	b := Message{ID: "10", SenderID: 1, ReceiverID: 2, Body: "Hi (edited upstream)", SentAt: at.Add(time.Second)}

	// Then ID equality is sufficient for a match
	req.True(a.SameAs(b))

	// And differing IDs never match, whatever the content
	c := Message{ID: "11", SenderID: 1, ReceiverID: 2, Body: "Hi", SentAt: at}
	req.False(a.SameAs(c))
}

func TestMessage_SameAs_By_Tuple_When_ID_Missing(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	persisted := Message{ID: "10", SenderID: 1, ReceiverID: 2, Body: "Hi", SentAt: at}
	echo := Message{SenderID: 1, ReceiverID: 2, Body: "Hi", SentAt: at}

	// When one side lacks a stable ID, the tuple decides
	req.True(persisted.SameAs(echo))
	req.True(echo.SameAs(persisted))

	// Any tuple component breaking the match
	req.False(echo.SameAs(Message{SenderID: 2, ReceiverID: 1, Body: "Hi", SentAt: at}))
	req.False(echo.SameAs(Message{SenderID: 1, ReceiverID: 2, Body: "Hi!", SentAt: at}))
	req.False(echo.SameAs(Message{SenderID: 1, ReceiverID: 2, Body: "Hi", SentAt: at.Add(time.Millisecond)}))
}

func TestMessage_Between(t *testing.T) {
	req := require.New(t)
	m := Message{SenderID: 2, ReceiverID: 1, Body: "Hello back"}

	req.True(m.Between(1, 2))
	req.True(m.Between(2, 1))
	req.False(m.Between(2, 3))
	req.False(m.Between(3, 4))
}

func TestInboundChannel_Is_Deterministic_Per_User(t *testing.T) {
	req := require.New(t)

	req.Equal("chat:user_2", InboundChannel(2))
	req.Equal(InboundChannel(42), InboundChannel(42))
	req.NotEqual(InboundChannel(1), InboundChannel(2))
}

func TestConversationKey_Is_Order_Independent(t *testing.T) {
	req := require.New(t)

	req.Equal("1-2", ConversationKey(1, 2))
	req.Equal(ConversationKey(2, 1), ConversationKey(1, 2))
	req.NotEqual(ConversationKey(1, 2), ConversationKey(1, 3))
}

func TestWireMessage_ToMessage_Fallbacks(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("uses timestamp when present", func(t *testing.T) {
		req := require.New(t)
		wire := WireMessage{SenderID: 1, ReceiverID: 2, Body: "Hi",
			SenderName: "Admin", Timestamp: "2024-01-01T10:00:00Z"}

		msg := wire.ToMessage(now)

		req.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), msg.SentAt)
		req.Equal("Admin", msg.SenderName)
	})

	t.Run("falls back to created_at", func(t *testing.T) {
		req := require.New(t)
		wire := WireMessage{SenderID: 1, ReceiverID: 2, Body: "Hi",
			CreatedAt: "2024-01-01T11:00:00Z"}

		msg := wire.ToMessage(now)

		req.Equal(time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), msg.SentAt)
	})

	t.Run("falls back to the given instant when both are missing", func(t *testing.T) {
		req := require.New(t)
		wire := WireMessage{SenderID: 1, ReceiverID: 2, Body: "Hi"}

		msg := wire.ToMessage(now)

		req.Equal(now, msg.SentAt)
	})

	t.Run("defaults the sender name", func(t *testing.T) {
		req := require.New(t)
		wire := WireMessage{SenderID: 1, ReceiverID: 2, Body: "Hi"}

		req.Equal(DefaultSenderName, wire.ToMessage(now).SenderName)
	})

	t.Run("skips an unparsable timestamp", func(t *testing.T) {
		req := require.New(t)
		wire := WireMessage{SenderID: 1, ReceiverID: 2, Body: "Hi",
			Timestamp: "yesterday", CreatedAt: "2024-01-01T11:00:00Z"}

		msg := wire.ToMessage(now)

		req.Equal(time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), msg.SentAt)
	})
}

func TestWireMessage_RoundTrip_Keeps_Identity(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	msg := Message{ID: "10", SenderID: 1, ReceiverID: 2, Body: "Hi",
		SenderName: "Admin", SentAt: at}

	back := FromMessage(msg).ToMessage(time.Now().UTC())

	req.True(msg.SameAs(back))
	req.Equal(msg.SentAt, back.SentAt)
}
