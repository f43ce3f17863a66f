package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserCallsProvider(t *testing.T) {
	var gotAuth string
	var gotBody createUserRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/admin/users", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(IdentityUser{ID: "provider-id-1", Email: gotBody.Email})
	}))
	defer srv.Close()

	svc := &IdentityService{
		APIURL:     srv.URL,
		APIKey:     "api-key",
		httpClient: srv.Client(),
	}

	user, err := svc.CreateUser("a@b.com", "Buyer")
	require.NoError(t, err)
	assert.Equal(t, "provider-id-1", user.ID)
	assert.Equal(t, "Bearer api-key", gotAuth)
	assert.True(t, gotBody.EmailConfirm, "webhook-created accounts must be pre-confirmed")
	assert.Equal(t, "webhook", gotBody.UserMetadata["source"])
}

func TestCreateUserProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := &IdentityService{APIURL: srv.URL, httpClient: srv.Client()}

	_, err := svc.CreateUser("a@b.com", "Buyer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestCreateUserLocalFallback(t *testing.T) {
	svc := &IdentityService{APIURL: ""}

	user, err := svc.CreateUser("a@b.com", "Buyer")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@b.com", user.Email)
}

func TestResolveSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(IdentityUser{ID: "U1", Email: "a@b.com"})
	}))
	defer srv.Close()

	svc := &IdentityService{APIURL: srv.URL, httpClient: srv.Client()}

	user, err := svc.ResolveSession("good-token")
	require.NoError(t, err)
	assert.Equal(t, "U1", user.ID)

	_, err = svc.ResolveSession("bad-token")
	require.Error(t, err)
}
