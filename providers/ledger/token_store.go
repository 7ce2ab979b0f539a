package ledger

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const tokenKey = "ledger_access_token"

// TokenStore holds the provider bearer token with its expiry. It is an injected
// object rather than a package-level static so two clients never share state.
type TokenStore struct {
	c *cache.Cache
}

func NewTokenStore() *TokenStore {
	return &TokenStore{
		c: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (s *TokenStore) Get() (string, bool) {
	val, found := s.c.Get(tokenKey)
	if !found {
		return "", false
	}
	token, ok := val.(string)
	return token, ok
}

func (s *TokenStore) Put(token string, ttl time.Duration) {
	s.c.Set(tokenKey, token, ttl)
}
