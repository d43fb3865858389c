// Package fragment decodes a batch of entries wrapped in a synthetic root
// element, validating every element against a DTD content model and binding
// each root child into a Go value.
//
// Decoding is governed by an explicit Policy value. The zero Policy is the most
// permissive; DefaultPolicy is what the entry stream uses.
package fragment

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Policy selects how strictly a fragment is checked. A Policy is a value; the
// With* helpers return modified copies and never touch the receiver
type Policy struct {
	// Pedantic rejects stray text in element-only content, child elements
	// with no destination field and child elements bound to scalar fields
	Pedantic bool
	// AutoPolymorphic resolves interface-typed ",any" fields from the
	// registered element types
	AutoPolymorphic bool
	// RejectRepeated fails on a second occurrence of a child the schema
	// declares at most once. When off, the last occurrence wins
	RejectRepeated bool
	// StrictBoolean accepts only "true" and "false"
	StrictBoolean bool
	// StrictAttributeNames requires exact qualified attribute names. When
	// off, names match on their local part ignoring case and undeclared
	// attributes are dropped
	StrictAttributeNames bool
	// XMLFloat parses floats with the XML Schema lexical rules (INF, -INF,
	// NaN, no hex, no "Infinity")
	XMLFloat bool
	// VerifyElementOrder checks children against the declared sequence.
	// When off only occurrence counts are checked
	VerifyElementOrder bool

	types map[string]reflect.Type
}

// DefaultPolicy is permissive overall and strict on everything else
func DefaultPolicy() Policy {
	return Policy{
		AutoPolymorphic:      true,
		RejectRepeated:       true,
		StrictBoolean:        true,
		StrictAttributeNames: true,
		XMLFloat:             true,
		VerifyElementOrder:   true,
	}
}

// WithType registers the concrete type used for element when it lands in a
// polymorphic field. sample may be a value or a pointer
func (p Policy) WithType(element string, sample any) Policy {
	t := reflect.TypeOf(sample)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	next := make(map[string]reflect.Type, len(p.types)+1)
	for k, v := range p.types {
		next[k] = v
	}
	if t != nil {
		next[element] = t
	}
	p.types = next
	return p
}

// TypeFor returns the registered type for element
func (p Policy) TypeFor(element string) (reflect.Type, bool) {
	t, ok := p.types[element]
	return t, ok
}

func (p Policy) parseBool(s string) (bool, bool) {
	s = strings.TrimSpace(s)
	if p.StrictBoolean {
		switch s {
		case "true":
			return true, true
		case "false":
			return false, true
		}
		return false, false
	}
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}

var xmlFloatLexical = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

func (p Policy) parseFloat(s string, bits int) (float64, bool) {
	s = strings.TrimSpace(s)
	if p.XMLFloat {
		switch s {
		case "INF", "+INF":
			return math.Inf(1), true
		case "-INF":
			return math.Inf(-1), true
		case "NaN":
			return math.NaN(), true
		}
		if !xmlFloatLexical.MatchString(s) {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return 0, false
	}
	return f, true
}
