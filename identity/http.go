package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// HTTPConfig configures an [HTTPClient]. BaseURL is required; Timeout
// defaults to 10s and is ignored when a custom HTTPClient is supplied.
type HTTPConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPClient implements [Client] against a JSON-over-HTTP identity service:
//
//	POST {base}/auth/login      {email, password}       -> Payload
//	POST {base}/auth/register   {email, name, password} -> Payload
//	GET  {base}/auth/me         Bearer token            -> Identity
//	POST {base}/auth/logout     Bearer token            -> 2xx
//
// Every request carries a fresh X-Request-ID so server logs can be
// correlated with a single client call.
type HTTPClient struct {
	base *url.URL
	http *http.Client
}

// NewHTTPClient validates cfg and builds the client. Construction performs
// no I/O.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("identity: base URL required")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("identity: invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("identity: unsupported scheme %q", base.Scheme)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{base: base, http: httpClient}, nil
}

// Authenticate implements [Client].
func (c *HTTPClient) Authenticate(ctx context.Context, email, password string) (Payload, error) {
	body := map[string]string{"email": email, "password": password}

	var payload Payload
	if err := c.post(ctx, "/auth/login", "", body, &payload); err != nil {
		return Payload{}, classifyCredentialErr(err)
	}
	if payload.Token == "" {
		return Payload{}, fmt.Errorf("%w: response missing token", ErrNetwork)
	}
	return payload, nil
}

// Register implements [Client].
func (c *HTTPClient) Register(ctx context.Context, email, name, password string) (Payload, error) {
	body := map[string]string{"email": email, "name": name, "password": password}

	var payload Payload
	if err := c.post(ctx, "/auth/register", "", body, &payload); err != nil {
		return Payload{}, classifyCredentialErr(err)
	}
	if payload.Token == "" {
		return Payload{}, fmt.Errorf("%w: response missing token", ErrNetwork)
	}
	return payload, nil
}

// Revalidate implements [Client].
func (c *HTTPClient) Revalidate(ctx context.Context, token string) (Identity, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", token, nil)
	if err != nil {
		return Identity{}, err
	}

	var ident Identity
	if err := c.do(req, &ident); err != nil {
		return Identity{}, err
	}
	if ident.ID == "" {
		return Identity{}, fmt.Errorf("%w: response missing identity", ErrNetwork)
	}
	return ident, nil
}

// Invalidate implements [Client].
func (c *HTTPClient) Invalidate(ctx context.Context, token string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/logout", token, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *HTTPClient) post(ctx context.Context, path, token string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, token, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: unexpected status %d", ErrNetwork, resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrNetwork, err)
	}
	return nil
}

// classifyCredentialErr remaps a token rejection on the credential
// endpoints: a 401 from /auth/login means bad credentials, not a bad token.
func classifyCredentialErr(err error) error {
	if errors.Is(err, ErrUnauthorized) {
		return ErrInvalidCredentials
	}
	return err
}
