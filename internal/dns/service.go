package dns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"
)

// Gateway is the remote API surface the DNS operations consume. It is
// implemented by *porkbun.Client.
type Gateway interface {
	Post(ctx context.Context, path string, payload map[string]string, out any) error
}

// Service executes DNS record operations for one registrar account. All
// operations are synchronous: each remote call completes before the next is
// issued, because later steps depend on earlier reads and the API has no
// batch endpoint. The remote system is the sole serialization point; two
// processes reconciling one domain concurrently race by design.
type Service struct {
	api Gateway
	log logr.Logger
}

// NewService creates a Service on top of a gateway.
func NewService(api Gateway, log logr.Logger) *Service {
	return &Service{api: api, log: log}
}

type retrieveResponse struct {
	Records []recordWire `json:"records"`
}

type createResponse struct {
	ID flexString `json:"id"`
}

// Changes holds the fields an update replaces. Nil fields keep the value
// currently on the remote record.
type Changes struct {
	Name    *string
	Type    *string
	Content *string
	TTL     *int
	Prio    *int
	Notes   *string
}

func (c Changes) empty() bool {
	return c.Name == nil && c.Type == nil && c.Content == nil &&
		c.TTL == nil && c.Prio == nil && c.Notes == nil
}

// apply overlays the changes on a record, returning the merged value.
func (c Changes) apply(rec Record) Record {
	if c.Name != nil {
		rec.Name = *c.Name
	}
	if c.Type != nil {
		rec.Type = *c.Type
	}
	if c.Content != nil {
		rec.Content = *c.Content
	}
	if c.TTL != nil {
		rec.TTL = *c.TTL
	}
	if c.Prio != nil {
		rec.Prio = *c.Prio
	}
	if c.Notes != nil {
		rec.Notes = *c.Notes
	}
	return rec
}

// Op names the remote action an outcome reports on.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	// OpNone means no call was issued: the record was already identical,
	// or a precondition failed (for example a stale ID).
	OpNone Op = "none"
	// OpSkip marks records deliberately excluded from a bulk run, such as
	// NS records without --include-ns.
	OpSkip Op = "skip"
)

// Outcome is the result of one attempted action on one record. Err is nil
// on success and a categorized *Error otherwise.
type Outcome struct {
	Op     Op
	Record Record
	Err    error
}

// MarshalJSON inlines the error text so outcome reports survive
// serialization to the bulk output file.
func (o Outcome) MarshalJSON() ([]byte, error) {
	report := struct {
		Op     Op     `json:"op"`
		Record Record `json:"record"`
		Error  string `json:"error,omitempty"`
	}{Op: o.Op, Record: o.Record}
	if o.Err != nil {
		report.Error = o.Err.Error()
	}
	return json.Marshal(report)
}

// List returns the domain's records in the order the registrar reports
// them, optionally narrowed by a selector. An empty result is an empty
// slice, never an error.
func (s *Service) List(ctx context.Context, domain string, sel *Selector) ([]Record, error) {
	if domain == "" {
		return nil, validationErr("domain is required")
	}
	if sel == nil || (sel.ID == "" && sel.Type == "") {
		var out retrieveResponse
		if err := s.api.Post(ctx, "/dns/retrieve/"+domain, nil, &out); err != nil {
			return nil, apiErr("retrieve records for "+domain, err)
		}
		records := make([]Record, 0, len(out.Records))
		for _, w := range out.Records {
			records = append(records, w.record(domain))
		}
		return records, nil
	}
	return s.resolve(ctx, domain, *sel)
}

// Create registers the record and returns a copy with the remote-assigned
// ID bound. The input must be unbound.
func (s *Service) Create(ctx context.Context, rec Record) (Record, error) {
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	if rec.Content == "" {
		return Record{}, validationErr("record content is required")
	}
	if rec.ID != "" {
		return Record{}, validationErr("record already has id %s; create never reuses an id", rec.ID)
	}

	var out createResponse
	if err := s.api.Post(ctx, "/dns/create/"+rec.Domain, rec.payload(), &out); err != nil {
		return Record{}, apiErr(fmt.Sprintf("create %s record %q", rec.Type, rec.Name), err)
	}
	rec.ID = string(out.ID)
	s.log.Info("created record", "domain", rec.Domain, "name", rec.Name, "type", rec.Type, "id", rec.ID)
	return rec, nil
}

// Update applies changes to every record the selector resolves to. The
// registrar's edit replaces the whole record, so current state is fetched
// first and fields the changes leave nil are carried over. One outcome is
// returned per resolved target; a target whose merged value is identical to
// its current state reports NoChange without a doomed remote call.
func (s *Service) Update(ctx context.Context, domain string, sel Selector, changes Changes) ([]Outcome, error) {
	if changes.empty() {
		return nil, validationErr("update requires at least one field change")
	}
	targets, err := s.resolve(ctx, domain, sel)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, notFoundErr("no records match selector %s", sel)
	}

	outcomes := make([]Outcome, 0, len(targets))
	for _, current := range targets {
		merged := changes.apply(current)
		if merged == current {
			outcomes = append(outcomes, Outcome{
				Op:     OpNone,
				Record: current,
				Err:    noChangeErr("record %s already matches the requested state", current.ID),
			})
			continue
		}
		if err := s.editByID(ctx, merged); err != nil {
			outcomes = append(outcomes, Outcome{Op: OpUpdate, Record: current, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome{Op: OpUpdate, Record: merged})
	}
	return outcomes, nil
}

// Delete removes every record the selector resolves to, one outcome per
// target. Zero targets is NotFound, never a silent no-op.
func (s *Service) Delete(ctx context.Context, domain string, sel Selector) ([]Outcome, error) {
	targets, err := s.resolve(ctx, domain, sel)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, notFoundErr("no records match selector %s", sel)
	}

	outcomes := make([]Outcome, 0, len(targets))
	for _, target := range targets {
		if err := s.deleteByID(ctx, domain, target.ID); err != nil {
			outcomes = append(outcomes, Outcome{Op: OpDelete, Record: target, Err: err})
			continue
		}
		s.log.Info("deleted record", "domain", domain, "name", target.Name, "type", target.Type, "id", target.ID)
		outcomes = append(outcomes, Outcome{Op: OpDelete, Record: target})
	}
	return outcomes, nil
}

// Refresh re-reads the record from the registrar, replacing every local
// field with remote truth: by ID when bound, otherwise by name and type
// (first match). Used to re-sync after out-of-band changes.
func (s *Service) Refresh(ctx context.Context, rec Record) (Record, error) {
	sel := Selector{ID: rec.ID}
	if rec.ID == "" {
		sel = Selector{Name: rec.Name, Type: rec.Type}
	}
	matches, err := s.resolve(ctx, rec.Domain, sel)
	if err != nil {
		return Record{}, err
	}
	if len(matches) == 0 {
		return Record{}, notFoundErr("record %s no longer exists", sel)
	}
	return matches[0], nil
}

// editByID sends a full-record replace for a bound record.
func (s *Service) editByID(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.ID == "" {
		return validationErr("edit requires a bound record id")
	}
	path := fmt.Sprintf("/dns/edit/%s/%s", rec.Domain, rec.ID)
	if err := s.api.Post(ctx, path, rec.payload(), nil); err != nil {
		return apiErr(fmt.Sprintf("edit record %s", rec.ID), err)
	}
	s.log.Info("updated record", "domain", rec.Domain, "name", rec.Name, "type", rec.Type, "id", rec.ID)
	return nil
}

func (s *Service) deleteByID(ctx context.Context, domain, id string) error {
	path := fmt.Sprintf("/dns/delete/%s/%s", domain, id)
	if err := s.api.Post(ctx, path, nil, nil); err != nil {
		return apiErr(fmt.Sprintf("delete record %s", id), err)
	}
	return nil
}
