// Package dns manages a domain's DNS records through the registrar API:
// the record model, selector resolution, single-record operations, and the
// bulk reconciler.
package dns

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	mdns "github.com/miekg/dns"
)

// Record is one DNS resource record in a zone. It is a plain value; all
// operations take a Record and return a new one, never mutating in place.
// A Record with an empty ID is unbound: it exists locally and has no remote
// counterpart yet. IDs are assigned by the registrar, never by the client.
type Record struct {
	Domain  string `json:"-"`
	Name    string `json:"name"` // bare label, "" for the zone apex
	Type    string `json:"type"`
	Content string `json:"content"`
	// TTL 0 means unset; the registrar then applies its own default and
	// minimum, 600.
	TTL   int    `json:"ttl"`
	Prio  int    `json:"prio"`
	Notes string `json:"notes"`
	ID    string `json:"id,omitempty"`
}

// hostTypes must carry a bare label in Name: the registrar qualifies the
// name with the zone itself, so "www.example.com" under example.com would
// produce www.example.com.example.com.
var hostTypes = map[string]bool{
	"A": true, "AAAA": true, "CNAME": true, "ALIAS": true,
}

// ValidType reports whether t names a DNS record type. The registrar's set
// is open-ended, so anything the DNS protocol knows is accepted; ALIAS is a
// registrar-level pseudo-type with no wire equivalent.
func ValidType(t string) bool {
	if t == "ALIAS" {
		return true
	}
	_, ok := mdns.StringToType[t]
	return ok
}

// NormalizeName reduces a record name to the bare label form used
// throughout this package: trailing dots and a zone suffix are stripped,
// and a name equal to the zone becomes "" (the apex).
func NormalizeName(name, domain string) string {
	name = strings.TrimSuffix(name, ".")
	if name == domain {
		return ""
	}
	return strings.TrimSuffix(name, "."+domain)
}

// Validate checks everything that can be rejected without a remote call.
// Per-type content validation is the registrar's job.
func (r Record) Validate() error {
	if r.Domain == "" {
		return validationErr("record domain is required")
	}
	if _, ok := mdns.IsDomainName(r.Domain); !ok {
		return validationErr("invalid domain %q", r.Domain)
	}
	if r.Type == "" {
		return validationErr("record type is required")
	}
	if !ValidType(r.Type) {
		return validationErr("unknown record type %q", r.Type)
	}
	if hostTypes[r.Type] && (r.Name == r.Domain || strings.HasSuffix(r.Name, "."+r.Domain)) {
		return validationErr("record name %q must not include the zone %q; use the bare label", r.Name, r.Domain)
	}
	if r.TTL < 0 {
		return validationErr("ttl must be non-negative, got %d", r.TTL)
	}
	if r.Prio < 0 {
		return validationErr("priority must be non-negative, got %d", r.Prio)
	}
	return nil
}

// payload flattens the record into the registrar's wire fields, everything
// stringly typed. The ID is never part of a body: create must not carry one
// and edit carries it in the URL path. Zero-valued ttl/prio and empty notes
// are omitted so the registrar applies its own defaults.
func (r Record) payload() map[string]string {
	p := map[string]string{
		"name":    r.Name,
		"type":    r.Type,
		"content": r.Content,
	}
	if r.TTL > 0 {
		p["ttl"] = strconv.Itoa(r.TTL)
	}
	if r.Prio > 0 {
		p["prio"] = strconv.Itoa(r.Prio)
	}
	if r.Notes != "" {
		p["notes"] = r.Notes
	}
	return p
}

// flexString tolerates JSON numbers where strings are expected; the API
// returns record IDs as numbers on create and strings on retrieve.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "null" {
		s = ""
	}
	*f = flexString(s)
	return nil
}

// flexInt tolerates numeric strings where integers are expected; the API
// returns ttl and prio as strings, and bulk input files may use either.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("numeric field %q: %w", s, err)
	}
	*f = flexInt(n)
	return nil
}

// recordWire is the registrar's JSON representation of one record, also
// accepted as the bulk input file entry shape. Optional fields absent from
// a response default to their zero values.
type recordWire struct {
	ID      flexString `json:"id"`
	Name    string     `json:"name"`
	Type    string     `json:"type"`
	Content string     `json:"content"`
	TTL     flexInt    `json:"ttl"`
	Prio    flexInt    `json:"prio"`
	Notes   string     `json:"notes"`
}

// record converts the wire shape into the canonical model. Retrieve
// responses qualify names with the zone; they are normalized back to bare
// labels.
func (w recordWire) record(domain string) Record {
	return Record{
		Domain:  domain,
		Name:    NormalizeName(w.Name, domain),
		Type:    w.Type,
		Content: w.Content,
		TTL:     int(w.TTL),
		Prio:    int(w.Prio),
		Notes:   w.Notes,
		ID:      string(w.ID),
	}
}

// ParseRecords decodes an ordered record list, the bulk input file format.
// Order is preserved so reconcile outcomes can be mapped back positionally.
func ParseRecords(data []byte, domain string) ([]Record, error) {
	var wires []recordWire
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, &Error{Kind: KindValidation, Message: "parse record list", Err: err}
	}
	records := make([]Record, 0, len(wires))
	for _, w := range wires {
		rec := w.record(domain)
		if rec.TTL < 0 || rec.Prio < 0 {
			return nil, validationErr("record %s/%s: ttl and priority must be non-negative", rec.Name, rec.Type)
		}
		records = append(records, rec)
	}
	return records, nil
}
