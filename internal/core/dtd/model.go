package dtd

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type token struct {
	text   string
	quoted bool
	punct  bool
}

// tokenize splits a declaration body into names, quoted literals and the
// punctuation ( ) , | ? * +
func tokenize(s string) ([]token, error) {
	var out []token
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case strings.ContainsRune("(),|?*+", r):
			out = append(out, token{text: string(r), punct: true})
			i += size
		case r == '"' || r == '\'':
			j := strings.IndexRune(s[i+1:], r)
			if j < 0 {
				return nil, fmt.Errorf("unterminated literal")
			}
			out = append(out, token{text: s[i+1 : i+1+j], quoted: true})
			i += j + 2
		default:
			j := i
			for j < len(s) {
				r2, sz := utf8.DecodeRuneInString(s[j:])
				if unicode.IsSpace(r2) || strings.ContainsRune("(),|?*+\"'", r2) {
					break
				}
				j += sz
			}
			out = append(out, token{text: s[i:j]})
			i = j
		}
	}
	return out, nil
}

type modelParser struct {
	toks []token
	i    int
}

func (m *modelParser) peek() string {
	if m.i >= len(m.toks) {
		return ""
	}
	return m.toks[m.i].text
}

func (m *modelParser) next() string {
	t := m.peek()
	m.i++
	return t
}

func parseModel(spec string) (Model, error) {
	switch spec {
	case "EMPTY":
		return Model{Kind: Empty}, nil
	case "ANY":
		return Model{Kind: Any}, nil
	}
	toks, err := tokenize(spec)
	if err != nil {
		return Model{}, err
	}
	if len(toks) < 2 || toks[0].text != "(" {
		return Model{}, fmt.Errorf("content model %q must be EMPTY, ANY or a group", spec)
	}
	if toks[1].text == "#PCDATA" {
		return parseMixed(toks)
	}
	mp := &modelParser{toks: toks}
	root, err := mp.particle()
	if err != nil {
		return Model{}, err
	}
	if mp.i != len(toks) {
		return Model{}, fmt.Errorf("trailing tokens after content model")
	}
	if !root.IsGroup() {
		return Model{}, fmt.Errorf("content model must be parenthesized")
	}
	return Model{Kind: Children, Root: root}, nil
}

// parseMixed handles (#PCDATA) (#PCDATA)* and (#PCDATA | a | b)*
func parseMixed(toks []token) (Model, error) {
	var names []string
	i := 2
	for i < len(toks) && toks[i].text == "|" {
		if i+1 >= len(toks) || toks[i+1].punct {
			return Model{}, fmt.Errorf("expected a name after |")
		}
		names = append(names, toks[i+1].text)
		i += 2
	}
	if i >= len(toks) || toks[i].text != ")" {
		return Model{}, fmt.Errorf("unterminated mixed content model")
	}
	i++
	star := i < len(toks) && toks[i].text == "*"
	if star {
		i++
	}
	if i != len(toks) {
		return Model{}, fmt.Errorf("trailing tokens after mixed content model")
	}
	if len(names) == 0 {
		return Model{Kind: Text}, nil
	}
	if !star {
		return Model{}, fmt.Errorf("mixed content with names must end in )*")
	}
	return Model{Kind: Mixed, Mixed: names}, nil
}

func (m *modelParser) particle() (Particle, error) {
	var p Particle
	switch t := m.next(); t {
	case "":
		return p, fmt.Errorf("unexpected end of content model")
	case "(":
		g, choice, err := m.group()
		if err != nil {
			return p, err
		}
		p.Group, p.Choice = g, choice
	case ")", ",", "|", "?", "*", "+":
		return p, fmt.Errorf("unexpected %q", t)
	default:
		if t == "#PCDATA" {
			return p, fmt.Errorf("#PCDATA must come first in a mixed model")
		}
		p.Name = t
	}
	switch m.peek() {
	case "?":
		p.Occurs = Opt
		m.i++
	case "*":
		p.Occurs = Star
		m.i++
	case "+":
		p.Occurs = Plus
		m.i++
	}
	return p, nil
}

func (m *modelParser) group() ([]Particle, bool, error) {
	var items []Particle
	sep := ""
	for {
		p, err := m.particle()
		if err != nil {
			return nil, false, err
		}
		items = append(items, p)
		switch t := m.next(); t {
		case ")":
			return items, sep == "|", nil
		case ",", "|":
			if sep != "" && sep != t {
				return nil, false, fmt.Errorf("mixed , and | in one group")
			}
			sep = t
		default:
			return nil, false, fmt.Errorf("expected , | or ) but got %q", t)
		}
	}
}

// parseAttrs reads the attribute definitions of one ATTLIST body
func parseAttrs(body string) ([]Attr, error) {
	toks, err := tokenize(body)
	if err != nil {
		return nil, err
	}
	var out []Attr
	for i := 0; i < len(toks); {
		if toks[i].punct || toks[i].quoted {
			return nil, fmt.Errorf("expected attribute name, got %q", toks[i].text)
		}
		a := Attr{Name: toks[i].text}
		i++
		if i >= len(toks) {
			return nil, fmt.Errorf("attribute %s has no type", a.Name)
		}
		switch {
		case toks[i].text == "NOTATION":
			a.Type = "NOTATION"
			i++
			fallthrough
		case toks[i].text == "(":
			if a.Type == "" {
				a.Type = "ENUM"
			}
			if i >= len(toks) || toks[i].text != "(" {
				return nil, fmt.Errorf("attribute %s: expected enumeration", a.Name)
			}
			i++
			for i < len(toks) && toks[i].text != ")" {
				if toks[i].text != "|" {
					a.Enum = append(a.Enum, toks[i].text)
				}
				i++
			}
			if i >= len(toks) {
				return nil, fmt.Errorf("attribute %s: unterminated enumeration", a.Name)
			}
			i++
		default:
			a.Type = toks[i].text
			i++
		}
		if i >= len(toks) {
			return nil, fmt.Errorf("attribute %s has no default", a.Name)
		}
		switch toks[i].text {
		case "#REQUIRED":
			a.Required = true
			i++
		case "#IMPLIED":
			a.Implied = true
			i++
		case "#FIXED":
			a.Fixed = true
			i++
			if i >= len(toks) || !toks[i].quoted {
				return nil, fmt.Errorf("attribute %s: #FIXED needs a value", a.Name)
			}
			a.Default = expandCharRefs(toks[i].text)
			i++
		default:
			if !toks[i].quoted {
				return nil, fmt.Errorf("attribute %s: bad default %q", a.Name, toks[i].text)
			}
			a.Default = expandCharRefs(toks[i].text)
			i++
		}
		out = append(out, a)
	}
	return out, nil
}

// expandCharRefs replaces &#N; and &#xH; with their characters. Entity
// references are left alone
func expandCharRefs(s string) string {
	if !strings.Contains(s, "&#") {
		return s
	}
	var b strings.Builder
	for {
		i := strings.Index(s, "&#")
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		j := strings.IndexByte(s[i:], ';')
		if j < 0 {
			b.WriteString(s)
			return b.String()
		}
		ref := s[i+2 : i+j]
		var n uint64
		var err error
		if strings.HasPrefix(ref, "x") {
			n, err = strconv.ParseUint(ref[1:], 16, 32)
		} else {
			n, err = strconv.ParseUint(ref, 10, 32)
		}
		b.WriteString(s[:i])
		if err != nil || !utf8.ValidRune(rune(n)) {
			b.WriteString(s[i : i+j+1])
		} else {
			b.WriteRune(rune(n))
		}
		s = s[i+j+1:]
	}
}
