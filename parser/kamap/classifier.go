package kamap

import (
	"regexp"
	"strings"
)

// DefaultStreets are the Isla Vista street names Kamap manages buildings on.
var DefaultStreets = []string{
	"Cordoba",
	"Abrego",
	"El Nido",
	"Segovia",
	"Sabado Tarde",
	"Trigo",
	"Picasso",
	"Pasado",
	"Camino Corto",
	"Embarcadero del Norte",
}

// streetSuffixes are the optional street types following a street name.
var streetSuffixes = []string{"Rd", "St", "Ave", "Dr", "Ln"}

// LineKind is the classification of one document line.
type LineKind int

const (
	LineIgnored LineKind = iota
	LineAddress
	LineListing
)

func (k LineKind) String() string {
	switch k {
	case LineAddress:
		return "address"
	case LineListing:
		return "listing"
	default:
		return "ignored"
	}
}

// AddressContext is the walker's two-state memory: no address seen yet, or
// the most recent address line. Only address lines change it.
type AddressContext struct {
	address string
	known   bool
}

// Enter records addr as the current address.
func (c *AddressContext) Enter(addr string) {
	c.address = addr
	c.known = true
}

// Current returns the current address and whether one has been seen.
func (c *AddressContext) Current() (string, bool) {
	return c.address, c.known
}

// Classifier decides whether a line starts an address block or a listing.
type Classifier struct {
	addressRegexp *regexp.Regexp
}

// NewClassifier builds a Classifier recognizing "<4-5 digit number> <street>
// [suffix]" for the given street names.
func NewClassifier(streets []string) *Classifier {
	if len(streets) == 0 {
		streets = DefaultStreets
	}
	names := make([]string, 0, len(streets))
	for _, s := range streets {
		words := strings.Fields(s)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		names = append(names, strings.Join(words, `\s+`))
	}

	pattern := `(?i)(\d{4,5}\s+(?:` + strings.Join(names, "|") + `)(?:\s+(?:` +
		strings.Join(streetSuffixes, "|") + `))?)`
	return &Classifier{addressRegexp: regexp.MustCompile(pattern)}
}

// Classify inspects a trimmed line. For address lines it also returns the
// matched address with internal whitespace collapsed.
func (c *Classifier) Classify(line string, ctx *AddressContext) (LineKind, string) {
	if m := c.addressRegexp.FindStringSubmatch(line); len(m) == 2 {
		return LineAddress, strings.Join(strings.Fields(m[1]), " ")
	}
	if _, known := ctx.Current(); known && strings.HasPrefix(line, "$") {
		return LineListing, ""
	}
	return LineIgnored, ""
}
