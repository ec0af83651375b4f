//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"time"

	"forum-chat/auth"
	"forum-chat/domain"
	"forum-chat/realtime"
)

type IAuthService interface {
	RealtimeToken(userID int64) (realtime.TokenPayload, error)
}

// AuthService issues realtime token payloads: a signed grant scoping the
// user to their own inbound channel, plus the broker coordinates. The
// payload is opaque to the session that transports it.
type AuthService struct {
	secret []byte
	ttl    time.Duration
	broker realtime.BrokerInfo
}

func NewAuthService(secret []byte, ttl time.Duration, broker realtime.BrokerInfo) *AuthService {
	return &AuthService{secret: secret, ttl: ttl, broker: broker}
}

func (s *AuthService) RealtimeToken(userID int64) (realtime.TokenPayload, error) {
	channel := domain.InboundChannel(userID)
	token, err := auth.GrantChannelToken(s.secret, userID, channel, s.ttl)
	if err != nil {
		return realtime.TokenPayload{}, err
	}
	return realtime.TokenPayload{
		Token:    token,
		Addr:     s.broker.Addr,
		Username: s.broker.Username,
		Password: s.broker.Password,
		DB:       s.broker.DB,
	}, nil
}
