package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
)

func TestShapefileWriterWriteEnriched(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "gis", "listings")

	n, err := NewShapefileWriter(quietLogger()).WriteEnriched(base, sampleEnriched())
	if err != nil {
		t.Fatalf("WriteEnriched: %v", err)
	}
	if n != 2 {
		t.Errorf("WriteEnriched returned %d; want 2", n)
	}
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s: %v", ext, err)
		}
	}

	r, err := shp.Open(base + ".shp")
	if err != nil {
		t.Fatalf("shp.Open: %v", err)
	}
	defer r.Close()

	want := sampleEnriched()
	var i int
	for r.Next() {
		idx, shape := r.Shape()
		pt, ok := shape.(*shp.Point)
		if !ok {
			t.Fatalf("shape %d is %T; want *shp.Point", idx, shape)
		}
		if pt.X != want[i].Longitude || pt.Y != want[i].Latitude {
			t.Errorf("point %d = (%v, %v); want (%v, %v)", idx, pt.X, pt.Y, want[i].Longitude, want[i].Latitude)
		}
		id := strings.Trim(r.ReadAttribute(idx, 0), " \x00")
		if id != want[i].ListingID {
			t.Errorf("LISTING_ID %d = %q; want %q", idx, id, want[i].ListingID)
		}
		i++
	}
	if i != 2 {
		t.Errorf("read %d shapes; want 2", i)
	}
}

func TestClip(t *testing.T) {
	if got := clip("6543 Segovia Rd", 4); got != "6543" {
		t.Errorf("clip = %q", got)
	}
	if got := clip("A1", 16); got != "A1" {
		t.Errorf("clip = %q", got)
	}
}
