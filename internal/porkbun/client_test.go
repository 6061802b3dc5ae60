package porkbun

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-logr/logr"
)

func newTestClient(t *testing.T, opts Options) *Client {
	t.Helper()
	if opts.APIKey == "" {
		opts.APIKey = "pk1_test"
	}
	if opts.SecretKey == "" {
		opts.SecretKey = "sk1_test"
	}
	c, err := New(logr.Discard(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(logr.Discard(), Options{SecretKey: "sk1_x"}); err == nil {
		t.Error("expected error for missing api key")
	}
	if _, err := New(logr.Discard(), Options{APIKey: "pk1_x"}); err == nil {
		t.Error("expected error for missing secret key")
	}
}

func TestPostInjectsCredentials(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"status":"SUCCESS"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, Options{BaseURL: srv.URL})
	payload := map[string]string{"name": "www"}
	if err := c.Post(context.Background(), "/dns/create/example.com", payload, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["apikey"] != "pk1_test" || got["secretapikey"] != "sk1_test" {
		t.Errorf("credentials not injected: %v", got)
	}
	if got["name"] != "www" {
		t.Errorf("payload field lost: %v", got)
	}
	// The caller's map must stay clean.
	if _, ok := payload["apikey"]; ok {
		t.Error("caller payload was mutated with credentials")
	}
}

func TestNewPublicAllowsEmptyCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"SUCCESS"}`))
	}))
	defer srv.Close()

	c := NewPublic(logr.Discard(), Options{BaseURL: srv.URL})
	if err := c.PostNoAuth(context.Background(), "/pricing/get", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPostNoAuthOmitsCredentials(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"status":"SUCCESS"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, Options{BaseURL: srv.URL})
	if err := c.PostNoAuth(context.Background(), "/pricing/get", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got["apikey"]; ok {
		t.Errorf("credentials sent on no-auth request: %v", got)
	}
}

func TestPostDecodesSuccessPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"SUCCESS","yourIp":"198.51.100.7"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, Options{BaseURL: srv.URL})
	var out struct {
		YourIP string `json:"yourIp"`
	}
	if err := c.Post(context.Background(), "/ping", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.YourIP != "198.51.100.7" {
		t.Errorf("yourIp: got %q", out.YourIP)
	}
}

func TestPostAPIFailure(t *testing.T) {
	tests := []struct {
		name       string
		httpStatus int
		body       string
		wantStatus string
		wantMsg    string
	}{
		{
			name:       "http 400 with message",
			httpStatus: http.StatusBadRequest,
			body:       `{"status":"ERROR","message":"Invalid domain."}`,
			wantStatus: "ERROR",
			wantMsg:    "Invalid domain.",
		},
		{
			name:       "http 200 but status not SUCCESS",
			httpStatus: http.StatusOK,
			body:       `{"status":"ERROR","message":"Edit error: We were unable to edit the DNS record."}`,
			wantStatus: "ERROR",
			wantMsg:    "Edit error: We were unable to edit the DNS record.",
		},
		{
			name:       "non-JSON body",
			httpStatus: http.StatusServiceUnavailable,
			body:       "upstream maintenance",
			wantMsg:    "upstream maintenance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.httpStatus)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, Options{BaseURL: srv.URL})
			err := c.Post(context.Background(), "/dns/edit/example.com/1", nil, nil)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.HTTPStatus != tt.httpStatus {
				t.Errorf("HTTPStatus: got %d, want %d", apiErr.HTTPStatus, tt.httpStatus)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("Status: got %q, want %q", apiErr.Status, tt.wantStatus)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message: got %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestPing(t *testing.T) {
	dual := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"SUCCESS","yourIp":"2001:db8::1"}`))
	}))
	defer dual.Close()
	v4 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"SUCCESS","yourIp":"198.51.100.7"}`))
	}))
	defer v4.Close()

	c := newTestClient(t, Options{BaseURL: dual.URL, V4BaseURL: v4.URL})

	ip, err := c.Ping(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ip != "2001:db8::1" {
		t.Errorf("ping: got %q, want dual-stack address", ip)
	}

	ip, err = c.Ping(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ip != "198.51.100.7" {
		t.Errorf("ping --v4: got %q, want v4 address", ip)
	}
}

func TestForceV4PinsAllRequests(t *testing.T) {
	dualCalls := 0
	dual := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dualCalls++
		w.Write([]byte(`{"status":"SUCCESS"}`))
	}))
	defer dual.Close()
	v4 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"SUCCESS","yourIp":"198.51.100.7"}`))
	}))
	defer v4.Close()

	c := newTestClient(t, Options{BaseURL: dual.URL, V4BaseURL: v4.URL, ForceV4: true})
	if err := c.Post(context.Background(), "/dns/retrieve/example.com", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dualCalls != 0 {
		t.Errorf("request hit the dual-stack endpoint despite ForceV4")
	}
}

func TestDelayHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should never reach the server")
	}))
	defer srv.Close()

	c := newTestClient(t, Options{BaseURL: srv.URL, Delay: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := c.Post(ctx, "/ping", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancelled call still waited out the delay")
	}
}

func TestPostURLJoining(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"status":"SUCCESS"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, Options{BaseURL: srv.URL + "/"})
	if err := c.Post(context.Background(), "dns/retrieve/example.com", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/dns/retrieve/example.com" {
		t.Errorf("path: got %q", gotPath)
	}
}
