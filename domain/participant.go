package domain

import "fmt"

// Participant identifies one side of a conversation.
type Participant struct {
	ID   int64
	Name string
}

// InboundChannel returns the realtime channel a user listens on.
// Each user subscribes only to their own inbound channel; the name must be
// the same no matter which party derives it.
func InboundChannel(userID int64) string {
	return fmt.Sprintf("chat:user_%d", userID)
}

// ConversationKey returns an order-independent storage key for a pair of
// participants, so both directions of a conversation share one history.
func ConversationKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}
