// Package porkbun is the low-level gateway to the Porkbun v3 JSON API.
// Every endpoint is an HTTP POST with the credentials embedded in the JSON
// body; higher-level packages (dns, ssl, pricing) build on Post and decode
// their own response shapes.
package porkbun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

const (
	// DefaultBaseURL serves both IPv4 and IPv6.
	DefaultBaseURL = "https://api.porkbun.com/api/json/v3"
	// IPv4BaseURL is the IPv4-only endpoint, useful when ping must report
	// a v4 address.
	IPv4BaseURL = "https://api-ipv4.porkbun.com/api/json/v3"

	defaultTimeout = 15 * time.Second
)

// APIError is a non-success response from the API: a non-200 HTTP status,
// a 200 whose status field is not "SUCCESS", or a body that is not JSON.
// Status and Message carry the API's own wording verbatim.
type APIError struct {
	HTTPStatus int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("porkbun: api returned http %d (status %s)", e.HTTPStatus, e.Status)
	}
	return fmt.Sprintf("porkbun: %s (http %d)", e.Message, e.HTTPStatus)
}

// Options configures a Client.
type Options struct {
	APIKey    string
	SecretKey string
	// ForceV4 pins every request to the IPv4-only endpoint.
	ForceV4 bool
	// Delay is slept before every request as a crude rate-limit
	// accommodation. It never changes ordering or outcomes, only timing.
	Delay   time.Duration
	Timeout time.Duration
	// BaseURL and V4BaseURL override the production endpoints in tests.
	BaseURL   string
	V4BaseURL string
}

// Client issues authenticated requests against one Porkbun account.
type Client struct {
	apiKey    string
	secretKey string
	baseURL   string
	v4BaseURL string
	delay     time.Duration
	client    *http.Client
	log       logr.Logger
}

// New creates a Client. API key and secret key are required.
func New(log logr.Logger, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("porkbun: missing required setting 'api_key'")
	}
	if opts.SecretKey == "" {
		return nil, fmt.Errorf("porkbun: missing required setting 'secret_api_key'")
	}
	return newClient(log, opts), nil
}

// NewPublic creates a Client without credentials for the endpoints that do
// not need them, such as pricing. Authenticated calls on a public client are
// rejected by the API.
func NewPublic(log logr.Logger, opts Options) *Client {
	return newClient(log, opts)
}

func newClient(log logr.Logger, opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	v4BaseURL := opts.V4BaseURL
	if v4BaseURL == "" {
		v4BaseURL = IPv4BaseURL
	}
	if opts.ForceV4 {
		baseURL = v4BaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		apiKey:    opts.APIKey,
		secretKey: opts.SecretKey,
		baseURL:   baseURL,
		v4BaseURL: v4BaseURL,
		delay:     opts.Delay,
		client:    &http.Client{Timeout: timeout},
		log:       log,
	}
}

// Post sends an authenticated request and decodes the success payload into
// out when out is non-nil. The payload map is never mutated; credentials are
// added to a copy.
func (c *Client) Post(ctx context.Context, path string, payload map[string]string, out any) error {
	return c.post(ctx, c.baseURL, path, payload, true, out)
}

// PostNoAuth sends a request without credentials, for the few public
// endpoints such as pricing.
func (c *Client) PostNoAuth(ctx context.Context, path string, payload map[string]string, out any) error {
	return c.post(ctx, c.baseURL, path, payload, false, out)
}

// Ping polls the API host and returns the caller's public IP as the API
// sees it. ipv4 forces the IPv4-only endpoint for this one request.
func (c *Client) Ping(ctx context.Context, ipv4 bool) (string, error) {
	base := c.baseURL
	if ipv4 {
		base = c.v4BaseURL
	}
	var out struct {
		YourIP string `json:"yourIp"`
	}
	if err := c.post(ctx, base, "/ping", nil, true, &out); err != nil {
		return "", err
	}
	return out.YourIP, nil
}

func (c *Client) post(ctx context.Context, base, path string, payload map[string]string, auth bool, out any) error {
	body := make(map[string]string, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	if auth {
		body["apikey"] = c.apiKey
		body["secretapikey"] = c.secretKey
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("porkbun: marshal request body: %w", err)
	}

	if err := c.wait(ctx); err != nil {
		return err
	}

	url := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("porkbun: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("porkbun: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("porkbun: read response for %s: %w", path, err)
	}

	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &APIError{HTTPStatus: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if resp.StatusCode != http.StatusOK || envelope.Status != "SUCCESS" {
		return &APIError{HTTPStatus: resp.StatusCode, Status: envelope.Status, Message: envelope.Message}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("porkbun: decode %s response: %w", path, err)
		}
	}
	c.log.V(1).Info("api call succeeded", "path", path)
	return nil
}

// wait applies the configured pre-call delay, honoring cancellation.
func (c *Client) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
