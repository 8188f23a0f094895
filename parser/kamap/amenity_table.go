package kamap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// NoAmenities is emitted when no amenity rule matches.
const NoAmenities = "None listed"

// amenityDelimiter joins multiple canonical tags.
const amenityDelimiter = ", "

// AmenityRule maps a keyword pattern to its canonical amenity tag.
type AmenityRule struct {
	Pattern *regexp.Regexp
	Tag     string
}

// AmenityTable is an ordered list of rules; tags are emitted in table order.
type AmenityTable []AmenityRule

// DefaultAmenityTable returns the built-in Kamap amenity vocabulary.
func DefaultAmenityTable() AmenityTable {
	return AmenityTable{
		{Pattern: regexp.MustCompile(`(?i)Free.*Internet`), Tag: "Free Internet"},
		{Pattern: regexp.MustCompile(`(?i)Water.*Trash|Trash.*Water`), Tag: "Water/Trash Included"},
		{Pattern: regexp.MustCompile(`(?i)Washer.*Dryer`), Tag: "In-Unit Washer/Dryer"},
		{Pattern: regexp.MustCompile(`(?i)\bGas\b`), Tag: "Gas Included"},
	}
}

// Tags returns the canonical tags matching text joined by ", ", or
// NoAmenities. It never returns an empty string.
func (t AmenityTable) Tags(text string) string {
	var tags []string
	for _, rule := range t {
		if rule.Pattern.MatchString(text) {
			tags = append(tags, rule.Tag)
		}
	}
	if len(tags) == 0 {
		return NoAmenities
	}
	return strings.Join(tags, amenityDelimiter)
}

const amenityTableSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["amenities"],
  "additionalProperties": false,
  "properties": {
    "amenities": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["pattern", "tag"],
        "additionalProperties": false,
        "properties": {
          "pattern": {"type": "string", "minLength": 1},
          "tag": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

type amenityTableDoc struct {
	Amenities []struct {
		Pattern string `json:"pattern"`
		Tag     string `json:"tag"`
	} `json:"amenities"`
}

// LoadAmenityTable reads an amenity table document from path.
func LoadAmenityTable(path string) (AmenityTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("amenity table: open %q: %w", path, err)
	}
	defer f.Close()
	return ParseAmenityTable(f)
}

// ParseAmenityTable decodes and validates a document of the form
// {"amenities": [{"pattern": "(?i)free.*internet", "tag": "Free Internet"}]}.
// Patterns use RE2 syntax and are matched against the whole listing text.
func ParseAmenityTable(r io.Reader) (AmenityTable, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("amenity table: read: %w", err)
	}
	if err := validateAmenityDoc(raw); err != nil {
		return nil, err
	}

	var doc amenityTableDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("amenity table: decode: %w", err)
	}

	table := make(AmenityTable, 0, len(doc.Amenities))
	for i, a := range doc.Amenities {
		re, err := regexp.Compile(a.Pattern)
		if err != nil {
			return nil, fmt.Errorf("amenity table: rule %d (%s): %w", i, a.Tag, err)
		}
		table = append(table, AmenityRule{Pattern: re, Tag: a.Tag})
	}
	return table, nil
}

func validateAmenityDoc(raw []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("amenity_table.json", strings.NewReader(amenityTableSchema)); err != nil {
		return fmt.Errorf("amenity table: add schema: %w", err)
	}
	schema, err := compiler.Compile("amenity_table.json")
	if err != nil {
		return fmt.Errorf("amenity table: compile schema: %w", err)
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("amenity table: decode: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("amenity table: document does not match schema: %w", err)
	}
	return nil
}
