// Package event defines the notifications a session pushes towards its
// presentation layer.
package event

import (
	"forum-chat/domain"
)

// DomainEvent carries the session epoch it was produced under, so a sink
// can discard notifications from a superseded identity.
type DomainEvent interface {
	SessionEpoch() uint64
}

// TimelineUpdated is emitted whenever the merged message list changed
// (history load, live delivery).
type TimelineUpdated struct {
	Epoch    uint64
	Messages []domain.Message
}

func (e TimelineUpdated) SessionEpoch() uint64 { return e.Epoch }

// FaultRaised is emitted when a blocking session fault occurs
// (auth callback failure, history load failure).
type FaultRaised struct {
	Epoch uint64
	Err   error
}

func (e FaultRaised) SessionEpoch() uint64 { return e.Epoch }

// TransportStateChanged mirrors the realtime transport state. Informational;
// the session handles re-subscription on its own.
type TransportStateChanged struct {
	Epoch uint64
	State string
}

func (e TransportStateChanged) SessionEpoch() uint64 { return e.Epoch }
