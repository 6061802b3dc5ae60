// Package pricing looks up the registrar's default price card for every
// supported TLD.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
)

// Gateway is the unauthenticated API surface this package consumes. It is
// implemented by *porkbun.Client.
type Gateway interface {
	PostNoAuth(ctx context.Context, path string, payload map[string]string, out any) error
}

// TLD is the price card for one top-level domain. Prices arrive as decimal
// strings. Coupons varies between a list and an object depending on TLD, so
// it is passed through raw rather than guessing a schema.
type TLD struct {
	Registration string          `json:"registration"`
	Renewal      string          `json:"renewal"`
	Transfer     string          `json:"transfer"`
	Coupons      json.RawMessage `json:"coupons,omitempty"`
}

// Get fetches pricing for all supported TLDs. The endpoint is public; no
// credentials are sent.
func Get(ctx context.Context, api Gateway) (map[string]TLD, error) {
	var out struct {
		Pricing map[string]TLD `json:"pricing"`
	}
	if err := api.PostNoAuth(ctx, "/pricing/get", nil, &out); err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}
	return out.Pricing, nil
}
