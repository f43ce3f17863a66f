package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	calls int
	fail  bool
}

func (s *stubResolver) ResolveSession(token string) (*IdentityUser, error) {
	s.calls++
	if s.fail {
		return nil, fmt.Errorf("invalid session token")
	}
	return &IdentityUser{ID: "U1", Email: "a@b.com"}, nil
}

func TestGetUserForTokenResolvesWithoutCache(t *testing.T) {
	resolver := &stubResolver{}
	svc := NewSessionServiceWith(nil, resolver, time.Minute)

	user, err := svc.GetUserForToken(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "U1", user.ID)
	assert.Equal(t, 1, resolver.calls)

	// Without a cache every call goes to the provider
	_, err = svc.GetUserForToken(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, 2, resolver.calls)
}

func TestGetUserForTokenRejectsEmptyToken(t *testing.T) {
	resolver := &stubResolver{}
	svc := NewSessionServiceWith(nil, resolver, time.Minute)

	_, err := svc.GetUserForToken(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 0, resolver.calls)
}

func TestGetUserForTokenPropagatesResolverFailure(t *testing.T) {
	resolver := &stubResolver{fail: true}
	svc := NewSessionServiceWith(nil, resolver, time.Minute)

	_, err := svc.GetUserForToken(context.Background(), "tok-1")
	require.Error(t, err)
}

func TestInvalidateTokenWithoutCache(t *testing.T) {
	resolver := &stubResolver{}
	svc := NewSessionServiceWith(nil, resolver, time.Minute)

	require.NoError(t, svc.InvalidateToken(context.Background(), "tok-1"))
}
