// Package ssl retrieves the certificate bundle the registrar provisions for
// a domain.
package ssl

import (
	"context"
	"fmt"
)

// Gateway is the authenticated API surface this package consumes. It is
// implemented by *porkbun.Client.
type Gateway interface {
	Post(ctx context.Context, path string, payload map[string]string, out any) error
}

// Bundle is the certificate material for one domain. Field names follow the
// API's response keys.
type Bundle struct {
	IntermediateCertificate string `json:"intermediatecertificate"`
	CertificateChain        string `json:"certificatechain"`
	PrivateKey              string `json:"privatekey"`
	PublicKey               string `json:"publickey"`
}

// Retrieve fetches the SSL bundle for the domain.
func Retrieve(ctx context.Context, api Gateway, domain string) (*Bundle, error) {
	if domain == "" {
		return nil, fmt.Errorf("ssl: domain is required")
	}
	var bundle Bundle
	if err := api.Post(ctx, "/ssl/retrieve/"+domain, nil, &bundle); err != nil {
		return nil, fmt.Errorf("ssl: retrieve bundle for %s: %w", domain, err)
	}
	return &bundle, nil
}
