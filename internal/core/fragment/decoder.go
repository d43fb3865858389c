package fragment

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"jmnedict/internal/core/dtd"
	perr "jmnedict/internal/platform/errors"
)

// DefaultRoot is the synthetic root used when neither the schema nor an option names one
const DefaultRoot = "JMnedict"

// Option tweaks a Decoder
type Option func(*options)

type options struct {
	root string
	item string
}

// WithRoot overrides the synthetic root element name
func WithRoot(name string) Option { return func(o *options) { o.root = name } }

// WithItem overrides the element bound to T; by default it comes from T's XMLName tag
func WithItem(name string) Option { return func(o *options) { o.item = name } }

// Decoder turns fragments of the form <root><item/>...<item/></root> into []T.
// A Decoder is immutable and safe for concurrent use
type Decoder[T any] struct {
	schema *dtd.Schema
	policy Policy
	root   string
	item   string
}

// NewDecoder checks that T can be bound and that root and item are declared
func NewDecoder[T any](schema *dtd.Schema, p Policy, opts ...Option) (*Decoder[T], error) {
	if schema == nil {
		schema = dtd.Default()
	}
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	plan, err := planFor(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "fragment: bad target type")
	}
	if o.item == "" {
		o.item = plan.name
	}
	if o.item == "" {
		return nil, perr.InvalidArgf("fragment: %T needs an XMLName tag or WithItem", *new(T))
	}
	if o.root == "" {
		o.root = schema.Root
	}
	if o.root == "" {
		o.root = DefaultRoot
	}
	if _, ok := schema.Element(o.item); !ok {
		return nil, perr.InvalidArgf("fragment: item element %s is not declared", o.item)
	}
	return &Decoder[T]{schema: schema, policy: p, root: o.root, item: o.item}, nil
}

// Root returns the synthetic root element name
func (d *Decoder[T]) Root() string { return d.root }

// Item returns the element name bound to T
func (d *Decoder[T]) Item() string { return d.item }

// Policy returns the decode policy
func (d *Decoder[T]) Policy() Policy { return d.policy }

// Wrap builds a fragment from already concatenated item text
func (d *Decoder[T]) Wrap(body string) string {
	return "<" + d.root + ">" + body + "</" + d.root + ">"
}

// Decode decodes one fragment. Any violation fails the whole fragment
func (d *Decoder[T]) Decode(fragment string) ([]T, error) {
	return d.DecodeReader(strings.NewReader(fragment))
}

// DecodeReader is Decode over a reader
func (d *Decoder[T]) DecodeReader(r io.Reader) ([]T, error) {
	e := &engine{schema: d.schema, policy: d.policy, root: d.root, item: d.item}
	var out []T
	err := e.run(r, func(n *node, path string) *Violation {
		var v T
		if vio := e.binder().bindStruct(reflect.ValueOf(&v).Elem(), n, path); vio != nil {
			return vio
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// engine is the per-call decode state
type engine struct {
	schema *dtd.Schema
	policy Policy
	root   string
	item   string
	bind   *binder
}

func (e *engine) binder() *binder {
	if e.bind == nil {
		e.bind = &binder{policy: e.policy}
	}
	return e.bind
}

func (e *engine) run(r io.Reader, emit func(*node, string) *Violation) error {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.Entity = e.schema.Entities

	var (
		stack     []*node
		rootDone  bool
		rootSeen  bool
		rootNames []string
		rootText  bool
		items     int
	)
	path := func() string {
		var b strings.Builder
		for i, n := range stack {
			if i > 0 {
				b.WriteByte('/')
			}
			b.WriteString(n.name)
			if i == 1 && n.name == e.item {
				b.WriteString("[" + strconv.Itoa(items) + "]")
			}
		}
		return b.String()
	}

	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return wrap(&Violation{Kind: ErrSyntax, Path: path(), Offset: offset, Detail: err.Error()})
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := qualified(t.Name)
			if len(stack) == 0 {
				if rootSeen {
					return wrap(&Violation{Kind: ErrRoot, Path: name, Offset: offset, Detail: "content after the root element"})
				}
				if name != e.root {
					return wrap(&Violation{Kind: ErrRoot, Path: name, Offset: offset, Detail: fmt.Sprintf("root is %s, want %s", name, e.root)})
				}
				rootSeen = true
			}
			if _, ok := e.schema.Element(name); !ok {
				stack = append(stack, &node{name: name})
				return wrap(&Violation{Kind: ErrUndeclared, Path: path(), Offset: offset, Detail: fmt.Sprintf("element %s is not declared", name)})
			}
			attrs := make([]xml.Attr, len(t.Attr))
			copy(attrs, t.Attr)
			stack = append(stack, &node{name: name, raw: attrs, offset: offset})

		case xml.EndElement:
			p := path()
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			el, _ := e.schema.Element(n.name)
			if vio := e.checkAttrs(el, n, p); vio != nil {
				return wrap(vio)
			}

			if len(stack) == 0 {
				// the synthetic root holds only names of its children
				if vio := e.checkContent(el, rootNames, rootText, p, n.offset); vio != nil {
					return wrap(vio)
				}
				rootDone = true
				continue
			}

			names := make([]string, len(n.kids))
			for i, k := range n.kids {
				names[i] = k.name
			}
			if vio := e.checkContent(el, names, n.hasText, p, n.offset); vio != nil {
				return wrap(vio)
			}

			if len(stack) == 1 {
				rootNames = append(rootNames, n.name)
				if n.name != e.item {
					if e.policy.Pedantic {
						return wrap(&Violation{Kind: ErrUnbound, Path: p, Offset: n.offset, Detail: fmt.Sprintf("no destination for root child %s", n.name)})
					}
					continue
				}
				if vio := emit(n, p); vio != nil {
					return wrap(vio)
				}
				items++
				continue
			}
			parent := stack[len(stack)-1]
			parent.kids = append(parent.kids, n)

		case xml.CharData:
			blank := len(strings.TrimSpace(string(t))) == 0
			switch len(stack) {
			case 0:
				if !blank {
					return wrap(&Violation{Kind: ErrRoot, Path: e.root, Offset: offset, Detail: "text outside the root element"})
				}
			case 1:
				rootText = rootText || !blank
			default:
				top := stack[len(stack)-1]
				top.text.Write(t)
				top.hasText = top.hasText || !blank
			}
		}
	}

	if !rootSeen {
		return wrap(&Violation{Kind: ErrRoot, Path: e.root, Detail: "empty fragment"})
	}
	if !rootDone {
		return wrap(&Violation{Kind: ErrSyntax, Path: path(), Offset: dec.InputOffset(), Detail: "unexpected end of fragment"})
	}
	return nil
}
