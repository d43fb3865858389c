package dtd

import (
	"strings"
	"unicode"
	"unicode/utf8"

	perr "jmnedict/internal/platform/errors"
)

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, a ...any) error {
	line := 1 + strings.Count(p.src[:p.pos], "\n")
	return perr.WithField(perr.Newf(perr.ErrorCodeDecode, "dtd: line %d: "+format, append([]any{line}, a...)...), "schema")
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) rest() string { return p.src[p.pos:] }

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

// skipPast advances beyond the next occurrence of marker
func (p *parser) skipPast(marker string) error {
	i := strings.Index(p.rest(), marker)
	if i < 0 {
		return p.errorf("unterminated construct, expected %q", marker)
	}
	p.pos += i + len(marker)
	return nil
}

// declBody returns the text between the keyword and the closing '>' honoring
// quoted literals
func (p *parser) declBody() (string, error) {
	start := p.pos
	var quote byte
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			body := p.src[start:p.pos]
			p.pos++
			return body, nil
		}
		p.pos++
	}
	return "", p.errorf("unterminated declaration")
}

func (p *parser) parse(s *Schema) error {
	p.skipSpace()
	if strings.HasPrefix(p.rest(), "<?") {
		if err := p.skipPast("?>"); err != nil {
			return err
		}
		p.skipSpace()
	}
	if strings.HasPrefix(p.rest(), "<!DOCTYPE") {
		p.pos += len("<!DOCTYPE")
		p.skipSpace()
		s.Root = p.name()
		if s.Root == "" {
			return p.errorf("DOCTYPE without a root name")
		}
		p.skipSpace()
		if !strings.HasPrefix(p.rest(), "[") {
			return p.errorf("DOCTYPE %s has no internal subset", s.Root)
		}
		p.pos++
	}

	for {
		p.skipSpace()
		if p.eof() {
			return nil
		}
		rest := p.rest()
		var err error
		switch {
		case strings.HasPrefix(rest, "]"):
			// end of the internal subset; anything after "]>" is ignored
			return nil
		case strings.HasPrefix(rest, "<!--"):
			err = p.skipPast("-->")
		case strings.HasPrefix(rest, "<?"):
			err = p.skipPast("?>")
		case strings.HasPrefix(rest, "<!ELEMENT"):
			p.pos += len("<!ELEMENT")
			err = p.element(s)
		case strings.HasPrefix(rest, "<!ATTLIST"):
			p.pos += len("<!ATTLIST")
			err = p.attlist(s)
		case strings.HasPrefix(rest, "<!ENTITY"):
			p.pos += len("<!ENTITY")
			err = p.entity(s)
		case strings.HasPrefix(rest, "<!NOTATION"):
			p.pos += len("<!NOTATION")
			_, err = p.declBody()
		case strings.HasPrefix(rest, "%"):
			err = p.skipPast(";")
		default:
			return p.errorf("unexpected text %q", head(rest, 20))
		}
		if err != nil {
			return err
		}
	}
}

func isNameRune(r rune, first bool) bool {
	if r == '_' || r == ':' || unicode.IsLetter(r) {
		return true
	}
	if first {
		return false
	}
	return r == '-' || r == '.' || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// name consumes an XML Name at the cursor
func (p *parser) name() string {
	start := p.pos
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isNameRune(r, p.pos == start) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

func (p *parser) element(s *Schema) error {
	p.skipSpace()
	name := p.name()
	if name == "" {
		return p.errorf("ELEMENT without a name")
	}
	body, err := p.declBody()
	if err != nil {
		return err
	}
	m, err := parseModel(strings.TrimSpace(body))
	if err != nil {
		return p.errorf("ELEMENT %s: %v", name, err)
	}
	if e, ok := s.Elements[name]; ok {
		if e.Model.Kind != Children || e.Model.Root.Group != nil || e.Model.Root.Name != "" {
			return p.errorf("ELEMENT %s declared twice", name)
		}
		// an ATTLIST seen first created a placeholder
		e.Model = m
		return nil
	}
	s.Elements[name] = &Element{Name: name, Model: m}
	return nil
}

func (p *parser) attlist(s *Schema) error {
	p.skipSpace()
	name := p.name()
	if name == "" {
		return p.errorf("ATTLIST without an element name")
	}
	body, err := p.declBody()
	if err != nil {
		return err
	}
	attrs, err := parseAttrs(body)
	if err != nil {
		return p.errorf("ATTLIST %s: %v", name, err)
	}
	e, ok := s.Elements[name]
	if !ok {
		e = &Element{Name: name}
		s.Elements[name] = e
	}
	for _, a := range attrs {
		// first declaration wins
		if _, dup := e.Attr(a.Name); !dup {
			e.Attrs = append(e.Attrs, a)
		}
	}
	return nil
}

func (p *parser) entity(s *Schema) error {
	p.skipSpace()
	param := false
	if strings.HasPrefix(p.rest(), "%") {
		param = true
		p.pos++
		p.skipSpace()
	}
	name := p.name()
	if name == "" {
		return p.errorf("ENTITY without a name")
	}
	body, err := p.declBody()
	if err != nil {
		return err
	}
	toks, err := tokenize(body)
	if err != nil {
		return p.errorf("ENTITY %s: %v", name, err)
	}
	if len(toks) == 0 {
		return p.errorf("ENTITY %s has no value", name)
	}
	if !toks[0].quoted {
		// external entities (SYSTEM/PUBLIC) cannot be resolved offline
		return nil
	}
	target := s.Entities
	if param {
		target = s.Params
	}
	if _, dup := target[name]; !dup {
		target[name] = expandCharRefs(toks[0].text)
	}
	return nil
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
