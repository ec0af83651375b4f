package main

import (
	"fmt"
	"sync"

	"github.com/gookit/color"

	"forum-chat/domain"
	"forum-chat/domain/event"
)

// Renderer prints session notifications to the terminal. It implements
// contract.EventSink and only ever appends: already-rendered entries are
// never reprinted when the timeline grows.
type Renderer struct {
	mu       sync.Mutex
	selfID   int64
	rendered int
}

func NewRenderer(selfID int64) *Renderer {
	return &Renderer{selfID: selfID}
}

func (r *Renderer) Consume(e event.DomainEvent) {
	switch evt := e.(type) {
	case event.TimelineUpdated:
		r.renderNew(evt.Messages)
	case event.FaultRaised:
		color.Red.Printf("!! %v\n", evt.Err)
	case event.TransportStateChanged:
		color.Gray.Printf("-- transport %s\n", evt.State)
	}
}

func (r *Renderer) renderNew(messages []domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A history load can rebuild the list with earlier entries inserted
	// before the already-rendered tail; start over in that case.
	if len(messages) < r.rendered {
		r.rendered = 0
	}
	for _, msg := range messages[r.rendered:] {
		line := fmt.Sprintf("[%s] %s: %s",
			msg.SentAt.Local().Format("15:04:05"), msg.SenderName, msg.Body)
		if msg.SenderID == r.selfID {
			color.Cyan.Println(line)
		} else {
			color.Green.Println(line)
		}
	}
	r.rendered = len(messages)
}
