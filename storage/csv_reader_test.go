package storage

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadRecordsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.csv")
	want := sampleRecords()
	if _, err := NewCSVWriter(quietLogger()).WriteRecords(path, want); err != nil {
		t.Fatal(err)
	}

	got, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("read %d records; want %d", len(got), len(want))
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Errorf("record %d =\n%+v\nwant\n%+v", i, got[i], want[i])
		}
	}
	if got[1].PriceMonthly != nil || got[1].Bedrooms != nil {
		t.Error("empty cells should read back as nil")
	}
}

func TestReadEnrichedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enriched.csv")
	want := sampleEnriched()
	if _, err := NewCSVWriter(quietLogger()).WriteEnriched(path, want); err != nil {
		t.Fatal(err)
	}

	got, err := ReadEnriched(path)
	if err != nil {
		t.Fatalf("ReadEnriched: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("read %d listings; want %d", len(got), len(want))
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Errorf("listing %d =\n%+v\nwant\n%+v", i, got[i], want[i])
		}
	}
}

func TestReadEnrichedFromRejectsBadInput(t *testing.T) {
	header := strings.Join(EnrichedColumns, ",")
	rowWith := func(col, value string) string {
		values := make([]string, len(EnrichedColumns))
		for i, c := range EnrichedColumns {
			if c == col {
				values[i] = value
			}
		}
		return header + "\n" + strings.Join(values, ",") + "\n"
	}

	tests := []struct {
		name    string
		input   string
		missing bool
	}{
		{"empty input", "", false},
		{"missing column", "listing_id,address\nx,y\n", true},
		{"bad price", rowWith("price_monthly", "abc"), false},
		{"bad bedrooms", rowWith("bedrooms", "2.5"), false},
		{"bad boolean", rowWith("has_patio", "maybe"), false},
		{"bad date", rowWith("available_date", "8/15"), false},
		{"bad latitude", rowWith("latitude", "north"), false},
	}

	for _, tt := range tests {
		_, err := ReadEnrichedFrom(strings.NewReader(tt.input))
		if err == nil {
			t.Errorf("%s: expected an error", tt.name)
			continue
		}
		if tt.missing && !errors.Is(err, ErrMissingColumn) {
			t.Errorf("%s: error = %v; want ErrMissingColumn", tt.name, err)
		}
	}
}

func TestReadEnrichedFromToleratesReorderedColumns(t *testing.T) {
	cols := append([]string{"extra"}, EnrichedColumns...)
	cols[1], cols[2] = cols[2], cols[1]
	values := make([]string, len(cols))
	for i, c := range cols {
		switch c {
		case "listing_id":
			values[i] = "kamap_6510_trigo_rd_1"
		case "noise_score":
			values[i] = "4.5"
		case "is_remodeled":
			values[i] = "true"
		}
	}
	input := strings.Join(cols, ",") + "\n" + strings.Join(values, ",") + "\n"

	got, err := ReadEnrichedFrom(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadEnrichedFrom: %v", err)
	}
	if len(got) != 1 || got[0].ListingID != "kamap_6510_trigo_rd_1" || got[0].NoiseScore != 4.5 || !got[0].IsRemodeled {
		t.Errorf("unexpected listing: %+v", got)
	}
}
