package dns

import (
	"context"
)

// Mode selects how Sync reconciles a desired record list against the zone.
type Mode string

const (
	// ModeAdd creates every input record unconditionally. No diffing: the
	// registrar allows duplicate name/type/content, so N inputs are N
	// create calls.
	ModeAdd Mode = "add"
	// ModeFlush deletes every existing record, then creates the input list
	// in order. Not transactional: a failure between the two phases leaves
	// the zone with fewer records than either state, which is why the
	// result carries explicit attempted/succeeded counters.
	ModeFlush Mode = "flush"
	// ModeMerge updates inputs that carry a record ID and creates the
	// rest. It matches on ID only, never on name/type/content: an input
	// without an ID is created even when an identical record exists.
	// Existing records absent from the input are left untouched.
	ModeMerge Mode = "merge"
)

// SyncOptions tunes a bulk run.
type SyncOptions struct {
	// IncludeNS includes NS records. By default they are filtered from
	// both the remote set and the input, so a flush cannot silently drop
	// the zone's delegation.
	IncludeNS bool
}

// SyncResult reports everything a Sync attempted. Records is ordered and
// sized exactly like the input, so outcomes map back to inputs
// positionally. Flush populates Deletions with one outcome per pre-existing
// record. The counters make a partially-applied flush visible even to
// callers that ignore individual outcomes.
type SyncResult struct {
	Mode             Mode      `json:"mode"`
	Deletions        []Outcome `json:"deletions,omitempty"`
	Records          []Outcome `json:"records"`
	DeletesAttempted int       `json:"deletes_attempted"`
	DeletesSucceeded int       `json:"deletes_succeeded"`
	CreatesAttempted int       `json:"creates_attempted"`
	CreatesSucceeded int       `json:"creates_succeeded"`
	UpdatesAttempted int       `json:"updates_attempted"`
	UpdatesSucceeded int       `json:"updates_succeeded"`
}

// Failed reports whether any attempted operation failed. NoChange outcomes
// and deliberate skips do not count: a merge re-run against a stable zone
// is a clean result.
func (r *SyncResult) Failed() bool {
	for _, out := range r.Deletions {
		if out.Err != nil {
			return true
		}
	}
	for _, out := range r.Records {
		if out.Err != nil && KindOf(out.Err) != KindNoChange {
			return true
		}
	}
	return false
}

// Sync applies the desired record list to the domain under the given mode.
// One record's failure never aborts the rest: every input is attempted and
// the outcome list always matches the input in length and order. Only a
// failure to read the current zone state (needed by flush and merge before
// anything can happen) aborts the run.
func (s *Service) Sync(ctx context.Context, domain string, desired []Record, mode Mode, opts SyncOptions) (*SyncResult, error) {
	switch mode {
	case "":
		mode = ModeMerge
	case ModeAdd, ModeFlush, ModeMerge:
	default:
		return nil, validationErr("unknown bulk mode %q", mode)
	}
	if domain == "" {
		return nil, validationErr("domain is required")
	}

	result := &SyncResult{Mode: mode, Records: make([]Outcome, len(desired))}

	// Flush needs the current zone for its delete targets; merge needs it
	// to resolve input IDs without a round trip per record.
	var existing []Record
	if mode == ModeFlush || mode == ModeMerge {
		var err error
		existing, err = s.List(ctx, domain, nil)
		if err != nil {
			return nil, err
		}
	}

	if mode == ModeFlush {
		for _, current := range existing {
			if !opts.IncludeNS && current.Type == "NS" {
				continue
			}
			result.DeletesAttempted++
			outcome := Outcome{Op: OpDelete, Record: current}
			if err := s.deleteByID(ctx, domain, current.ID); err != nil {
				outcome.Err = err
				s.log.Info("flush: delete failed", "domain", domain, "id", current.ID, "error", err.Error())
			} else {
				result.DeletesSucceeded++
			}
			result.Deletions = append(result.Deletions, outcome)
		}
	}

	byID := make(map[string]Record, len(existing))
	for _, current := range existing {
		byID[current.ID] = current
	}

	for i, rec := range desired {
		rec.Domain = domain
		if !opts.IncludeNS && rec.Type == "NS" {
			result.Records[i] = Outcome{Op: OpSkip, Record: rec}
			continue
		}

		if mode == ModeMerge && rec.ID != "" {
			outcome := s.mergeExisting(ctx, rec, byID)
			if outcome.Op == OpUpdate {
				result.UpdatesAttempted++
				if outcome.Err == nil {
					result.UpdatesSucceeded++
				}
			}
			result.Records[i] = outcome
			continue
		}

		// Unbound input, or a mode that creates unconditionally. Add and
		// flush drop any stale ID the input file carried over.
		rec.ID = ""
		result.CreatesAttempted++
		created, err := s.Create(ctx, rec)
		if err != nil {
			result.Records[i] = Outcome{Op: OpCreate, Record: rec, Err: err}
			continue
		}
		result.CreatesSucceeded++
		result.Records[i] = Outcome{Op: OpCreate, Record: created}
	}

	return result, nil
}

// mergeExisting handles one ID-bearing merge input against the pre-fetched
// zone state. Stale IDs are reported per-record as NotFound rather than
// relying on the registrar's error prose; identical records are NoChange
// without a remote call.
func (s *Service) mergeExisting(ctx context.Context, rec Record, byID map[string]Record) Outcome {
	current, ok := byID[rec.ID]
	if !ok {
		return Outcome{
			Op:     OpNone,
			Record: rec,
			Err:    notFoundErr("record id %s does not exist in the zone", rec.ID),
		}
	}
	if rec == current {
		return Outcome{
			Op:     OpNone,
			Record: rec,
			Err:    noChangeErr("record %s already matches the requested state", rec.ID),
		}
	}
	if err := s.editByID(ctx, rec); err != nil {
		return Outcome{Op: OpUpdate, Record: rec, Err: err}
	}
	return Outcome{Op: OpUpdate, Record: rec}
}
