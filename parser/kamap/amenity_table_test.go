package kamap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseAmenityTable(t *testing.T) {
	doc := `{"amenities": [
		{"pattern": "(?i)dishwasher", "tag": "Dishwasher"},
		{"pattern": "(?i)free.*internet", "tag": "Free Internet"}
	]}`

	table, err := ParseAmenityTable(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseAmenityTable: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(table))
	}
	if got := table.Tags("Free internet and a new dishwasher"); got != "Dishwasher, Free Internet" {
		t.Errorf("Tags = %q; want table order", got)
	}
	if got := table.Tags("Gas included"); got != NoAmenities {
		t.Errorf("Tags = %q; want %q", got, NoAmenities)
	}
}

func TestParseAmenityTableRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `amenities: []`},
		{"missing amenities", `{}`},
		{"empty list", `{"amenities": []}`},
		{"missing tag", `{"amenities": [{"pattern": "gas"}]}`},
		{"empty pattern", `{"amenities": [{"pattern": "", "tag": "Gas"}]}`},
		{"unknown field", `{"amenities": [{"pattern": "gas", "tag": "Gas", "weight": 2}]}`},
		{"numeric tag", `{"amenities": [{"pattern": "gas", "tag": 7}]}`},
		{"bad regexp", `{"amenities": [{"pattern": "(unclosed", "tag": "Broken"}]}`},
	}

	for _, tt := range tests {
		if _, err := ParseAmenityTable(strings.NewReader(tt.doc)); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestLoadAmenityTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "amenities.json")
	doc := `{"amenities": [{"pattern": "(?i)\\bgas\\b", "tag": "Gas Included"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadAmenityTable(path)
	if err != nil {
		t.Fatalf("LoadAmenityTable: %v", err)
	}
	if got := table.Tags("Gas paid by owner"); got != "Gas Included" {
		t.Errorf("Tags = %q", got)
	}

	if _, err := LoadAmenityTable(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestParserUsesCustomAmenityTable(t *testing.T) {
	table, err := ParseAmenityTable(strings.NewReader(`{"amenities": [{"pattern": "(?i)furnished", "tag": "Furnished"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	p := New(Options{ReferenceYear: 2026, Amenities: table}, quietLogger())

	recs := p.Parse("6543 Segovia Rd\n$3,250 2 Bed Unit #A101 (8/15) Furnished, Free Internet\n")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Amenities != "Furnished" {
		t.Errorf("Amenities = %q; want only the custom tag", recs[0].Amenities)
	}
}
