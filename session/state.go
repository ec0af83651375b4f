package session

// State is the lifecycle state of a chat session.
type State int32

const (
	// Uninitialized: no current user known, no connection attempted.
	Uninitialized State = iota
	// Connecting: identity known, connection being established.
	Connecting
	// Connected: transport reported connected; one subscription is live.
	Connected
	// Reconnecting: transport lost the link and is re-establishing it.
	Reconnecting
	// Closed: session torn down (component unmounted or user logged out).
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
