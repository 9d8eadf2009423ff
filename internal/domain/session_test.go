package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "Generated hex id", id: "3f2a9c1b7d4e", wantErr: false},
		{name: "Batch style id", id: "2026-10-17_annual_report", wantErr: false},
		{name: "Empty", id: "", wantErr: true},
		{name: "Whitespace only", id: "   ", wantErr: true},
		{name: "Surrounding whitespace", id: " abc ", wantErr: true},
		{name: "Dot", id: ".", wantErr: true},
		{name: "Parent", id: "..", wantErr: true},
		{name: "Forward slash", id: "a/b", wantErr: true},
		{name: "Traversal", id: "../other", wantErr: true},
		{name: "Backslash", id: `a\b`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSessionID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSessionID) {
				t.Fatalf("expected ErrInvalidSessionID, got %v", err)
			}
		})
	}
}

func TestSessionRecord_PutFileReplacesByName(t *testing.T) {
	rec := &SessionRecord{ID: "s1"}
	rec.PutFile(SessionFile{Name: "a.pdf", Size: 1})
	rec.PutFile(SessionFile{Name: "b.pdf", Size: 2})
	rec.PutFile(SessionFile{Name: "a.pdf", Size: 3})

	if len(rec.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(rec.Files))
	}
	f, ok := rec.File("a.pdf")
	if !ok || f.Size != 3 {
		t.Fatalf("expected a.pdf with size 3, got %+v (found=%v)", f, ok)
	}
	if _, ok := rec.File("missing.pdf"); ok {
		t.Fatalf("did not expect missing.pdf")
	}
}

// Result payloads are part of the HTTP contract; their keys must not drift.
func TestResultJSONKeys(t *testing.T) {
	tests := []struct {
		name string
		v    interface{}
		keys []string
	}{
		{"AnalysisResult", AnalysisResult{}, []string{"word_count", "char_count"}},
		{"ComparisonResult", ComparisonResult{}, []string{"doc_a_chars", "doc_b_chars", "same_length"}},
		{"RetrievalResult", RetrievalResult{}, []string{"query", "context"}},
		{"SessionRecord", SessionRecord{CreatedAt: time.Now()}, []string{"id", "path", "created_at", "files"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.v)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var m map[string]interface{}
			if err := json.Unmarshal(raw, &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if len(m) != len(tt.keys) {
				t.Fatalf("expected %d keys, got %d: %s", len(tt.keys), len(m), raw)
			}
			for _, k := range tt.keys {
				if _, ok := m[k]; !ok {
					t.Fatalf("missing key %q in %s", k, raw)
				}
			}
		})
	}
}
