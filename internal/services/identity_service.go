package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"member-portal/internal/config"
	"member-portal/pkg/logging"

	"github.com/google/uuid"
)

// IdentityUser is the provider's view of an account
type IdentityUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IdentityService talks to the external identity provider. Accounts and
// sessions live there; this service only creates pre-confirmed accounts
// for webhook-provisioned buyers and introspects session tokens.
type IdentityService struct {
	APIURL     string
	APIKey     string
	httpClient *http.Client
}

// NewIdentityService creates a new identity service instance
func NewIdentityService() *IdentityService {
	return &IdentityService{
		APIURL: config.AppConfig.IdentityAPIURL,
		APIKey: config.AppConfig.IdentityAPIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// createUserRequest is the provider's admin create-user payload
type createUserRequest struct {
	Email        string            `json:"email"`
	EmailConfirm bool              `json:"email_confirm"`
	UserMetadata map[string]string `json:"user_metadata,omitempty"`
}

// CreateUser creates a pre-confirmed account for an email address and
// returns the provider-issued user ID. Without a configured provider the
// service runs standalone and issues a local ID, so development setups
// can exercise the webhook flow end to end.
func (s *IdentityService) CreateUser(email, name string) (*IdentityUser, error) {
	if s.APIURL == "" {
		logging.Infof("Identity provider not configured, issuing local user ID for %s", email)
		return &IdentityUser{ID: uuid.NewString(), Email: email}, nil
	}

	reqBody := createUserRequest{
		Email:        email,
		EmailConfirm: true,
		UserMetadata: map[string]string{
			"source": "webhook",
			"name":   name,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create user request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", s.APIURL+"/admin/users", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("identity provider error: status %d", resp.StatusCode)
	}

	var user IdentityUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode identity provider response: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("identity provider returned no user ID")
	}

	return &user, nil
}

// ResolveSession introspects a session token and returns its user
func (s *IdentityService) ResolveSession(token string) (*IdentityUser, error) {
	if s.APIURL == "" {
		return nil, fmt.Errorf("identity provider is not configured")
	}

	httpReq, err := http.NewRequest("GET", s.APIURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("X-API-Key", s.APIKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("invalid session token")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider error: status %d", resp.StatusCode)
	}

	var user IdentityUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode identity provider response: %w", err)
	}

	return &user, nil
}
