package record

import "testing"

func TestRecord_ID(t *testing.T) {
	r := New("DB1", "AN123", "Dogs", nil)
	if r.ID() != "DB1,AN123" {
		t.Errorf("ID() = %q", r.ID())
	}
	if New("", "", "", nil).ID() != "" {
		t.Error("ID() of empty record should be empty")
	}
}

func TestSplitID(t *testing.T) {
	tests := []struct {
		id      string
		db, an  string
		wantErr bool
	}{
		{"DB1,AN123", "DB1", "AN123", false},
		{"DB1,AN,123", "DB1", "AN,123", false},
		{",AN", "", "AN", false},
		{"malformed", "", "", true},
		{"", "", "", true},
	}
	for _, tc := range tests {
		db, an, err := SplitID(tc.id)
		if (err != nil) != tc.wantErr {
			t.Errorf("SplitID(%q) err = %v, wantErr %v", tc.id, err, tc.wantErr)
			continue
		}
		if db != tc.db || an != tc.an {
			t.Errorf("SplitID(%q) = (%q, %q), want (%q, %q)", tc.id, db, an, tc.db, tc.an)
		}
	}
}

func TestCollection_SetSourceIdentifier(t *testing.T) {
	c := NewCollection()
	c.Add(New("DB", "1", "", nil))
	c.Add(New("DB", "2", "", nil))
	c.SetSourceIdentifier("EDS")

	if c.SourceIdentifier() != "EDS" {
		t.Errorf("SourceIdentifier() = %q", c.SourceIdentifier())
	}
	for i, r := range c.Records() {
		if r.SourceIdentifier() != "EDS" {
			t.Errorf("record %d SourceIdentifier() = %q", i, r.SourceIdentifier())
		}
	}
	if c.Records()[0].AccessionNumber() != "1" || c.Records()[1].AccessionNumber() != "2" {
		t.Error("record order not preserved")
	}
}

func TestCollection_TotalHits(t *testing.T) {
	c := NewCollection()
	c.Add(New("DB", "1", "", nil))
	if c.TotalHits() != 1 {
		t.Errorf("TotalHits() = %d, want 1", c.TotalHits())
	}
	c.SetTotalHits(500)
	if c.TotalHits() != 500 {
		t.Errorf("TotalHits() = %d, want 500", c.TotalHits())
	}
}

func TestRecord_Getters(t *testing.T) {
	raw := map[string]any{"Header": map[string]any{"DbId": "a9h"}}
	r := New("a9h", "12345", "Dogs", raw)

	if r.DatabaseID() != "a9h" || r.AccessionNumber() != "12345" || r.Title() != "Dogs" {
		t.Errorf("getters = %q %q %q", r.DatabaseID(), r.AccessionNumber(), r.Title())
	}
	if r.Raw()["Header"] == nil {
		t.Error("raw document not kept")
	}
	if r.SourceIdentifier() != "" {
		t.Errorf("SourceIdentifier() = %q before collection stamping", r.SourceIdentifier())
	}
}
