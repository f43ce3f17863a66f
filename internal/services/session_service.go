package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"member-portal/internal/config"
	"member-portal/internal/database"
	"member-portal/pkg/logging"

	"github.com/redis/go-redis/v9"
)

// SessionResolver introspects session tokens at the identity provider
type SessionResolver interface {
	ResolveSession(token string) (*IdentityUser, error)
}

// SessionService resolves bearer session tokens to users. Resolved
// sessions are cached in Redis so every request does not round-trip to
// the identity provider.
type SessionService struct {
	client   *redis.Client
	identity SessionResolver
	ttl      time.Duration
}

// NewSessionService creates a session service on the global Redis client
// and the configured identity provider
func NewSessionService() *SessionService {
	return &SessionService{
		client:   database.GetRedis(),
		identity: NewIdentityService(),
		ttl:      time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute,
	}
}

// NewSessionServiceWith creates a session service with explicit
// dependencies
func NewSessionServiceWith(client *redis.Client, identity SessionResolver, ttl time.Duration) *SessionService {
	return &SessionService{client: client, identity: identity, ttl: ttl}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// GetUserForToken returns the user behind a session token, consulting the
// cache first
func (s *SessionService) GetUserForToken(ctx context.Context, token string) (*IdentityUser, error) {
	if token == "" {
		return nil, fmt.Errorf("empty session token")
	}

	if s.client != nil {
		cached, err := s.client.Get(ctx, sessionKey(token)).Result()
		if err == nil {
			var user IdentityUser
			if jsonErr := json.Unmarshal([]byte(cached), &user); jsonErr == nil {
				return &user, nil
			}
			// Corrupt cache entry, fall through to the provider
		} else if err != redis.Nil {
			logging.Errorf("Session cache read failed: %v", err)
		}
	}

	user, err := s.identity.ResolveSession(token)
	if err != nil {
		return nil, err
	}

	if s.client != nil {
		if data, jsonErr := json.Marshal(user); jsonErr == nil {
			if err := s.client.Set(ctx, sessionKey(token), data, s.ttl).Err(); err != nil {
				logging.Errorf("Session cache write failed: %v", err)
			}
		}
	}

	return user, nil
}

// InvalidateToken drops a cached session, forcing the next request to
// re-resolve at the provider
func (s *SessionService) InvalidateToken(ctx context.Context, token string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, sessionKey(token)).Err()
}
