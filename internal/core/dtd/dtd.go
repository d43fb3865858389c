// Package dtd parses the internal subset of a DOCTYPE block into a content
// model that the fragment decoder validates against.
//
// Supported declarations: ELEMENT (EMPTY, ANY, #PCDATA, mixed content and
// sequence/choice groups with ?, * and + occurrence), ATTLIST (CDATA, tokenized
// and enumerated types with #REQUIRED, #IMPLIED, #FIXED and literal defaults)
// and general ENTITY declarations with literal values. Comments and processing
// instructions are skipped. Parameter entities are recorded but never expanded.
package dtd

import (
	"io"
	"sort"
	"strings"
	"sync"

	"jmnedict/internal/core/dtd/builtin"
	perr "jmnedict/internal/platform/errors"
)

// Kind is the category of an element content model
type Kind uint8

const (
	// Children is element-only content described by Model.Root
	Children Kind = iota
	// Empty allows no content at all
	Empty
	// Any allows any declared element and text
	Any
	// Text is #PCDATA only
	Text
	// Mixed is text interleaved with the names in Model.Mixed, any order and count
	Mixed
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "EMPTY"
	case Any:
		return "ANY"
	case Text:
		return "#PCDATA"
	case Mixed:
		return "mixed"
	default:
		return "children"
	}
}

// Occurs is a particle occurrence indicator
type Occurs uint8

const (
	// One is exactly once
	One Occurs = iota
	// Opt is ?
	Opt
	// Star is *
	Star
	// Plus is +
	Plus
)

// Unbounded marks an unlimited max occurrence
const Unbounded = -1

func (o Occurs) bounds() (min, max int) {
	switch o {
	case Opt:
		return 0, 1
	case Star:
		return 0, Unbounded
	case Plus:
		return 1, Unbounded
	default:
		return 1, 1
	}
}

func (o Occurs) suffix() string {
	switch o {
	case Opt:
		return "?"
	case Star:
		return "*"
	case Plus:
		return "+"
	}
	return ""
}

// Particle is a name or a group in a children content model
type Particle struct {
	Name   string
	Group  []Particle
	Choice bool
	Occurs Occurs
}

// IsGroup reports whether p is a parenthesized group
func (p Particle) IsGroup() bool { return p.Name == "" }

// String renders the particle in DTD syntax
func (p Particle) String() string {
	if !p.IsGroup() {
		return p.Name + p.Occurs.suffix()
	}
	sep := ", "
	if p.Choice {
		sep = " | "
	}
	parts := make([]string, len(p.Group))
	for i, g := range p.Group {
		parts[i] = g.String()
	}
	return "(" + strings.Join(parts, sep) + ")" + p.Occurs.suffix()
}

// Model is an element content model
type Model struct {
	Kind  Kind
	Root  Particle
	Mixed []string
}

// Attr is one declared attribute
type Attr struct {
	Name     string
	Type     string
	Enum     []string
	Default  string
	Required bool
	Fixed    bool
	Implied  bool
}

// HasDefault reports whether a missing attribute gets a value
func (a Attr) HasDefault() bool { return !a.Required && !a.Implied }

// Element is a declared element with its attributes
type Element struct {
	Name   string
	Model  Model
	Attrs  []Attr
	bounds map[string][2]int
}

// Attr looks up a declared attribute by qualified name
func (e *Element) Attr(name string) (Attr, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

// Bounds returns the aggregate min and max occurrences of child name within the
// content model. ok is false when the model never allows name
func (e *Element) Bounds(name string) (min, max int, ok bool) {
	switch e.Model.Kind {
	case Any:
		return 0, Unbounded, true
	case Mixed:
		for _, m := range e.Model.Mixed {
			if m == name {
				return 0, Unbounded, true
			}
		}
		return 0, 0, false
	case Children:
		b, ok := e.bounds[name]
		return b[0], b[1], ok
	}
	return 0, 0, false
}

// Names returns the child names the model mentions, sorted
func (e *Element) Names() []string {
	var out []string
	switch e.Model.Kind {
	case Mixed:
		out = append(out, e.Model.Mixed...)
	case Children:
		for n := range e.bounds {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Schema is a parsed DOCTYPE internal subset
type Schema struct {
	Root     string
	Elements map[string]*Element
	Entities map[string]string
	Params   map[string]string
}

// Element looks up a declared element
func (s *Schema) Element(name string) (*Element, bool) {
	e, ok := s.Elements[name]
	return e, ok
}

var defaultSchema = sync.OnceValues(func() (*Schema, error) {
	return ParseString(builtin.Text())
})

// Default returns the embedded JMnedict schema
func Default() *Schema {
	s, err := defaultSchema()
	if err != nil {
		panic("dtd: embedded schema does not parse: " + err.Error())
	}
	return s
}

// Parse reads a DOCTYPE block
func Parse(r io.Reader) (*Schema, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "dtd: read")
	}
	return ParseString(string(buf))
}

// ParseString parses a DOCTYPE block. Input without a DOCTYPE header is read
// as a bare internal subset and the root is left empty
func ParseString(src string) (*Schema, error) {
	p := &parser{src: src}
	s := &Schema{
		Elements: map[string]*Element{},
		Entities: map[string]string{},
		Params:   map[string]string{},
	}
	if err := p.parse(s); err != nil {
		return nil, err
	}
	for _, e := range s.Elements {
		if e.Model.Kind == Children {
			e.bounds = map[string][2]int{}
			collectBounds(e.Model.Root, 1, 1, e.bounds)
		}
	}
	return s, nil
}

// collectBounds folds particle occurrence into per-name min/max. Names that
// appear in several branches of a choice get the loosest bounds
func collectBounds(p Particle, pmin, pmax int, out map[string][2]int) {
	omin, omax := p.Occurs.bounds()
	min, max := pmin*omin, mulMax(pmax, omax)
	if !p.IsGroup() {
		cur, seen := out[p.Name]
		if !seen {
			out[p.Name] = [2]int{min, max}
			return
		}
		out[p.Name] = [2]int{cur[0] + min, addMax(cur[1], max)}
		return
	}
	if !p.Choice {
		for _, g := range p.Group {
			collectBounds(g, min, max, out)
		}
		return
	}
	if len(p.Group) == 1 {
		collectBounds(p.Group[0], min, max, out)
		return
	}
	// each branch is optional relative to its siblings
	branch := map[string][2]int{}
	for _, g := range p.Group {
		one := map[string][2]int{}
		collectBounds(g, min, max, one)
		for n, b := range one {
			cur, seen := branch[n]
			if !seen {
				branch[n] = [2]int{0, b[1]}
				continue
			}
			branch[n] = [2]int{0, maxOf(cur[1], b[1])}
		}
	}
	for n, b := range branch {
		cur, seen := out[n]
		if !seen {
			out[n] = b
			continue
		}
		out[n] = [2]int{cur[0], addMax(cur[1], b[1])}
	}
}

func mulMax(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return a * b
}

func addMax(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return a + b
}

func maxOf(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	if a > b {
		return a
	}
	return b
}
