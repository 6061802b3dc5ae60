package dns

import (
	"context"
	"fmt"
)

// Selector identifies which remote record(s) an operation targets: by ID,
// or by name and type. Content is an extra client-side filter applied only
// when set. By-ID resolution yields at most one record; name+type may yield
// any number, and mutating operations are applied across every match rather
// than second-guessing the caller.
type Selector struct {
	ID      string
	Type    string
	Name    string
	Content string
}

// validate rejects selector shapes the registrar cannot address.
func (s Selector) validate() error {
	if s.ID == "" && s.Type == "" {
		return validationErr("selector requires a record id, or a name and type")
	}
	if s.ID == "" && !ValidType(s.Type) {
		return validationErr("unknown record type %q", s.Type)
	}
	return nil
}

// String renders the selector for error messages.
func (s Selector) String() string {
	if s.ID != "" {
		return "id=" + s.ID
	}
	if s.Content != "" {
		return fmt.Sprintf("name=%s type=%s content=%s", s.Name, s.Type, s.Content)
	}
	return fmt.Sprintf("name=%s type=%s", s.Name, s.Type)
}

// retrievePath maps the selector onto the registrar's retrieve endpoints.
// An empty name addresses the zone apex, for which the registrar omits the
// final path segment.
func (s Selector) retrievePath(domain string) string {
	switch {
	case s.ID != "":
		return fmt.Sprintf("/dns/retrieve/%s/%s", domain, s.ID)
	case s.Name != "":
		return fmt.Sprintf("/dns/retrieveByNameType/%s/%s/%s", domain, s.Type, s.Name)
	default:
		return fmt.Sprintf("/dns/retrieveByNameType/%s/%s", domain, s.Type)
	}
}

// resolve fetches the remote records the selector addresses. An empty
// result is not an error here; callers that require a target turn it into
// NotFound.
func (s *Service) resolve(ctx context.Context, domain string, sel Selector) ([]Record, error) {
	if err := sel.validate(); err != nil {
		return nil, err
	}

	var out retrieveResponse
	if err := s.api.Post(ctx, sel.retrievePath(domain), nil, &out); err != nil {
		return nil, apiErr("retrieve records for "+domain, err)
	}

	records := make([]Record, 0, len(out.Records))
	for _, w := range out.Records {
		rec := w.record(domain)
		if sel.Content != "" && rec.Content != sel.Content {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
