package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"todo-api/domain/ports"
)

// TokenStore implements ports.TokenRevocationPort
// เก็บแค่ hash ของ token ไม่เก็บ token จริง
type TokenStore struct {
	client *Client
}

func NewTokenStore(client *Client) ports.TokenRevocationPort {
	return &TokenStore{client: client}
}

func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return key("auth", "revoked", hex.EncodeToString(sum[:]))
}

func (s *TokenStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	return s.client.setFlag(ctx, revokedKey(token), ttl)
}

func (s *TokenStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.client.hasKey(ctx, revokedKey(token))
}
