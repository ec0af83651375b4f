package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ChannelClaims is the grant embedded in a realtime token payload.
// It scopes one user to their own inbound channel.
type ChannelClaims struct {
	UserID  int64  `json:"user_id"`
	Channel string `json:"channel"`
	jwt.RegisteredClaims
}

// GrantChannelToken creates a signed grant allowing userID to subscribe to
// the given channel until the TTL elapses.
func GrantChannelToken(secret []byte, userID int64, channel string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &ChannelClaims{
		UserID:  userID,
		Channel: channel,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "forum-chat",
		},
	}

	// HS256 (HMAC with SHA256), signed with the backend's secret.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateChannelToken parses and validates the signature and expiration of
// a grant. This is the broker-side check.
func ValidateChannelToken(secret []byte, tokenString string) (*ChannelClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ChannelClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ChannelClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// PeekChannelClaims decodes a grant without verifying the signature. The
// client is not the verifying party; it only needs the granted channel and
// the expiry to schedule a token refresh.
func PeekChannelClaims(tokenString string) (*ChannelClaims, error) {
	claims := &ChannelClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
