package realtime

import (
	"encoding/json"
	"fmt"

	"forum-chat/errors"
)

// TokenPayload is the opaque payload returned by the backend auth endpoint.
// The session forwards it unmodified; only the realtime provider interprets
// it. It carries the signed channel grant plus the broker coordinates.
type TokenPayload struct {
	Token    string `json:"token"`
	Addr     string `json:"addr"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
}

// BrokerInfo describes how clients reach the pub/sub broker.
type BrokerInfo struct {
	Addr     string
	Username string
	Password string
	DB       int
}

func decodePayload(raw json.RawMessage) (TokenPayload, error) {
	var payload TokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return TokenPayload{}, fmt.Errorf("%w: %v", errors.ErrInvalidTokenPayload, err)
	}
	if payload.Addr == "" || payload.Token == "" {
		return TokenPayload{}, fmt.Errorf("%w: missing token or broker address", errors.ErrInvalidTokenPayload)
	}
	return payload, nil
}
