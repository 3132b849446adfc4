package auth

import (
	"context"
	"time"

	"devcamper/internal/cache"
)

const revokedTokenKeyPrefix = "revoked_token:"

// RevocationStore records tokens that must be rejected before they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration)
	IsRevoked(ctx context.Context, tokenID string) bool
}

// TokenStore keeps revoked token ids in Redis until the token would have expired.
type TokenStore struct {
	cache *cache.Client
}

var _ RevocationStore = (*TokenStore)(nil)

// NewTokenStore creates a new token store. A nil cache revokes nothing.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// Revoke marks tokenID as revoked for ttl.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) {
	if tokenID == "" || ttl <= 0 {
		return
	}
	s.cache.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsRevoked checks whether tokenID was revoked. Redis failures count as not revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) bool {
	return s.cache.Exists(ctx, revokedTokenKeyPrefix+tokenID)
}
