// Package projection builds the local view of a conversation from observed
// messages. Handles ordering, de-duplication, and snapshots.
// Does not emit events or interact with UI directly.
package projection

import (
	"forum-chat/domain"

	"github.com/samber/lo"
)

// Timeline holds the merged message list of one conversation. The list is a
// logical set under the de-duplication key, ordered by insertion. Not safe
// for concurrent use; the owning session serializes access.
type Timeline struct {
	messages []domain.Message
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

// Append adds a message unless an entry with the same de-duplication key is
// already present. Reports whether the message was inserted.
func (t *Timeline) Append(m domain.Message) bool {
	if lo.SomeBy(t.messages, m.SameAs) {
		return false
	}
	t.messages = append(t.messages, m)
	return true
}

// ReplaceWithHistory rebuilds the timeline from a history response. The
// history order is authoritative; live deliveries that arrived before the
// history resolved are kept at the tail, so the merge result does not
// depend on which of the two completes first.
func (t *Timeline) ReplaceWithHistory(history []domain.Message) {
	merged := append([]domain.Message(nil), history...)
	for _, m := range t.messages {
		if !lo.SomeBy(merged, m.SameAs) {
			merged = append(merged, m)
		}
	}
	t.messages = merged
}

// Clear drops every entry. Used on conversation teardown.
func (t *Timeline) Clear() {
	t.messages = nil
}

// Snapshot returns a copy of the current timeline.
func (t *Timeline) Snapshot() []domain.Message {
	return append([]domain.Message(nil), t.messages...)
}

func (t *Timeline) Len() int {
	return len(t.messages)
}
