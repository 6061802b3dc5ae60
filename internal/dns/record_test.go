package dns

import (
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		want   string
	}{
		{"www", "example.com", "www"},
		{"www.example.com", "example.com", "www"},
		{"www.example.com.", "example.com", "www"},
		{"example.com", "example.com", ""},
		{"example.com.", "example.com", ""},
		{"", "example.com", ""},
		{"deep.nested.example.com", "example.com", "deep.nested"},
		{"other.org", "example.com", "other.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.name, tt.domain); got != tt.want {
				t.Errorf("NormalizeName(%q, %q) = %q, want %q", tt.name, tt.domain, got, tt.want)
			}
		})
	}
}

func TestValidType(t *testing.T) {
	for _, good := range []string{"A", "AAAA", "MX", "CNAME", "ALIAS", "TXT", "NS", "SRV", "TLSA", "CAA", "HTTPS", "SVCB"} {
		if !ValidType(good) {
			t.Errorf("ValidType(%q) = false", good)
		}
	}
	for _, bad := range []string{"", "a", "BOGUS", "alias"} {
		if ValidType(bad) {
			t.Errorf("ValidType(%q) = true", bad)
		}
	}
}

func TestRecordValidate(t *testing.T) {
	valid := Record{Domain: "example.com", Name: "www", Type: "A", Content: "203.0.113.1", TTL: 600}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		rec  Record
	}{
		{"missing domain", Record{Type: "A"}},
		{"missing type", Record{Domain: "example.com"}},
		{"unknown type", Record{Domain: "example.com", Type: "BOGUS"}},
		{"A name contains zone", Record{Domain: "example.com", Name: "www.example.com", Type: "A"}},
		{"CNAME name is zone", Record{Domain: "example.com", Name: "example.com", Type: "CNAME"}},
		{"negative ttl", Record{Domain: "example.com", Type: "A", TTL: -1}},
		{"negative prio", Record{Domain: "example.com", Type: "MX", Prio: -10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if KindOf(err) != KindValidation {
				t.Errorf("kind: got %q, want %q", KindOf(err), KindValidation)
			}
		})
	}

	// TXT is not a host type, so a fully qualified name is left to the
	// registrar to interpret.
	txt := Record{Domain: "example.com", Name: "_acme-challenge.example.com", Type: "TXT", Content: "token"}
	if err := txt.Validate(); err != nil {
		t.Errorf("TXT with qualified name should validate: %v", err)
	}
}

func TestRecordPayload(t *testing.T) {
	full := Record{
		Domain: "example.com", Name: "mail", Type: "MX",
		Content: "mx1.example.com", TTL: 3600, Prio: 10, Notes: "primary", ID: "42",
	}
	p := full.payload()

	want := map[string]string{
		"name": "mail", "type": "MX", "content": "mx1.example.com",
		"ttl": "3600", "prio": "10", "notes": "primary",
	}
	for k, v := range want {
		if p[k] != v {
			t.Errorf("payload[%q] = %q, want %q", k, p[k], v)
		}
	}
	if _, ok := p["id"]; ok {
		t.Error("payload must never carry the record id")
	}

	sparse := Record{Domain: "example.com", Name: "", Type: "A", Content: "203.0.113.1"}
	p = sparse.payload()
	for _, absent := range []string{"ttl", "prio", "notes"} {
		if _, ok := p[absent]; ok {
			t.Errorf("zero-valued %s should be omitted, got %q", absent, p[absent])
		}
	}
	if name, ok := p["name"]; !ok || name != "" {
		t.Error("empty name (apex) must still be sent")
	}
}

func TestParseRecords(t *testing.T) {
	// ttl/prio arrive as strings on retrieve and may be numbers in bulk
	// input files; ids may be numbers on create responses.
	input := `[
		{"id": "101", "name": "www.example.com", "type": "A", "content": "203.0.113.1", "ttl": "600", "prio": "0"},
		{"id": 102, "name": "mail", "type": "MX", "content": "mx1.example.com", "ttl": 3600, "prio": 10},
		{"name": "", "type": "TXT", "content": "v=spf1 -all"}
	]`

	records, err := ParseRecords([]byte(input), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0].ID != "101" || records[0].Name != "www" || records[0].TTL != 600 {
		t.Errorf("record 0: %+v", records[0])
	}
	if records[1].ID != "102" || records[1].TTL != 3600 || records[1].Prio != 10 {
		t.Errorf("record 1: %+v", records[1])
	}
	if records[2].ID != "" || records[2].Domain != "example.com" {
		t.Errorf("record 2: %+v", records[2])
	}
}

func TestParseRecordsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not an array", `{"name": "www"}`},
		{"garbage", `not json`},
		{"non-numeric ttl", `[{"name": "www", "type": "A", "ttl": "soon"}]`},
		{"negative ttl", `[{"name": "www", "type": "A", "ttl": -1}]`},
		{"negative prio", `[{"name": "mail", "type": "MX", "prio": "-5"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecords([]byte(tt.input), "example.com")
			if err == nil {
				t.Fatal("expected error")
			}
			if KindOf(err) != KindValidation {
				t.Errorf("kind: got %q, want %q", KindOf(err), KindValidation)
			}
		})
	}
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{`600`, 600, true},
		{`"600"`, 600, true},
		{`""`, 0, true},
		{`null`, 0, true},
		{`-4`, -4, true},
		{`"ten"`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f flexInt
			err := f.UnmarshalJSON([]byte(tt.input))
			if tt.ok != (err == nil) {
				t.Fatalf("err = %v, want ok=%v", err, tt.ok)
			}
			if tt.ok && int(f) != tt.want {
				t.Errorf("got %d, want %d", int(f), tt.want)
			}
		})
	}
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"12345"`, "12345"},
		{`12345`, "12345"},
		{`null`, ""},
		{`""`, ""},
	}

	for _, tt := range tests {
		var f flexString
		if err := f.UnmarshalJSON([]byte(tt.input)); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.input, err)
		}
		if string(f) != tt.want {
			t.Errorf("%s: got %q, want %q", tt.input, string(f), tt.want)
		}
	}
}
