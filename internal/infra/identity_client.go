package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront-service/internal/domain"
)

// IdentityClient talks to the hosted authentication backend. Sign-up may
// come back with SessionActive=false when the provider defers activation
// to an email confirmation flow.
type IdentityClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewIdentityClient(baseURL, apiKey string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type signUpRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *IdentityClient) SignUp(ctx context.Context, email, password string, attrs map[string]string) (*domain.Account, error) {
	return c.postAccount(ctx, "/auth/signup", signUpRequest{Email: email, Password: password, Attrs: attrs})
}

func (c *IdentityClient) SignIn(ctx context.Context, email, password string) (*domain.Account, error) {
	return c.postAccount(ctx, "/auth/signin", signInRequest{Email: email, Password: password})
}

func (c *IdentityClient) GetSession(ctx context.Context, token string) (*domain.Account, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c.setAPIKey(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var acc domain.Account
	if err := json.NewDecoder(resp.Body).Decode(&acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *IdentityClient) SignOut(ctx context.Context, token string) error {
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/signout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c.setAPIKey(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *IdentityClient) postAccount(ctx context.Context, path string, payload any) (*domain.Account, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.setAPIKey(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var acc domain.Account
	if err := json.NewDecoder(resp.Body).Decode(&acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *IdentityClient) setAPIKey(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
}
