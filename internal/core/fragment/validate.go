package fragment

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"jmnedict/internal/core/dtd"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// node is one element of the entry currently being decoded. Nodes for a whole
// entry live only until that entry is bound
type node struct {
	name    string
	raw     []xml.Attr
	attrs   map[string]string
	text    strings.Builder
	hasText bool
	kids    []*node
	offset  int64
}

func qualified(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case xmlNamespace:
		return "xml:" + n.Local
	}
	return n.Space + ":" + n.Local
}

func localPart(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func isNamespaceDecl(a xml.Attr) bool {
	return a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns")
}

// checkAttrs resolves n.raw against the declared attributes into n.attrs,
// applying defaults
func (e *engine) checkAttrs(el *dtd.Element, n *node, path string) *Violation {
	n.attrs = make(map[string]string, len(el.Attrs))
	for _, a := range n.raw {
		if isNamespaceDecl(a) {
			continue
		}
		qn := qualified(a.Name)
		decl, ok := el.Attr(qn)
		if !ok && !e.policy.StrictAttributeNames {
			for _, d := range el.Attrs {
				if strings.EqualFold(localPart(d.Name), a.Name.Local) {
					decl, ok = d, true
					break
				}
			}
		}
		if !ok {
			if e.policy.StrictAttributeNames {
				return &Violation{Kind: ErrAttribute, Path: path, Offset: n.offset, Detail: fmt.Sprintf("attribute %s is not declared on %s", qn, el.Name)}
			}
			continue
		}
		if len(decl.Enum) > 0 && !contains(decl.Enum, a.Value) {
			return &Violation{Kind: ErrAttribute, Path: path, Offset: n.offset, Detail: fmt.Sprintf("attribute %s=%q not in %v", decl.Name, a.Value, decl.Enum)}
		}
		if decl.Fixed && a.Value != decl.Default {
			return &Violation{Kind: ErrAttribute, Path: path, Offset: n.offset, Detail: fmt.Sprintf("attribute %s is fixed to %q", decl.Name, decl.Default)}
		}
		n.attrs[decl.Name] = a.Value
	}
	for _, d := range el.Attrs {
		if _, set := n.attrs[d.Name]; set {
			continue
		}
		if d.Required {
			return &Violation{Kind: ErrAttribute, Path: path, Offset: n.offset, Detail: fmt.Sprintf("required attribute %s missing", d.Name)}
		}
		if d.HasDefault() {
			n.attrs[d.Name] = d.Default
		}
	}
	n.raw = nil
	return nil
}

// checkContent validates child names and text presence against the model of el
func (e *engine) checkContent(el *dtd.Element, names []string, hasText bool, path string, offset int64) *Violation {
	fail := func(kind error, format string, a ...any) *Violation {
		return &Violation{Kind: kind, Path: path, Offset: offset, Detail: fmt.Sprintf(format, a...)}
	}
	switch el.Model.Kind {
	case dtd.Empty:
		if len(names) > 0 {
			return fail(ErrUndeclared, "%s is EMPTY but has child %s", el.Name, names[0])
		}
		if hasText {
			return fail(ErrText, "%s is EMPTY but has text", el.Name)
		}
		return nil
	case dtd.Text:
		if len(names) > 0 {
			return fail(ErrUndeclared, "%s holds text only but has child %s", el.Name, names[0])
		}
		return nil
	case dtd.Any:
		return nil
	case dtd.Mixed:
		for _, n := range names {
			if _, _, ok := el.Bounds(n); !ok {
				return fail(ErrUndeclared, "%s does not allow child %s", el.Name, n)
			}
		}
		return nil
	}

	if hasText && e.policy.Pedantic {
		return fail(ErrText, "%s has element-only content but contains text", el.Name)
	}

	counts := make(map[string]int, len(names))
	for _, n := range names {
		_, max, ok := el.Bounds(n)
		if !ok {
			return fail(ErrUndeclared, "%s does not allow child %s", el.Name, n)
		}
		counts[n]++
		if e.policy.RejectRepeated && max != dtd.Unbounded && counts[n] > max {
			return fail(ErrRepeated, "%s allows at most %d %s, found another", el.Name, max, n)
		}
	}
	for _, n := range el.Names() {
		min, _, _ := el.Bounds(n)
		if counts[n] < min {
			return fail(ErrMissing, "%s requires %s", el.Name, n)
		}
	}

	seq := names
	if !e.policy.RejectRepeated {
		seq = dropRepeats(el, names)
	}
	if !e.policy.VerifyElementOrder {
		seq = canonicalOrder(el, seq)
	}
	if el.Match(seq) {
		return nil
	}
	if e.policy.VerifyElementOrder && el.Match(canonicalOrder(el, seq)) {
		return fail(ErrOrder, "children %v do not follow %s", seq, el.Model.Root)
	}
	return fail(ErrMissing, "children %v do not satisfy %s", seq, el.Model.Root)
}

// dropRepeats keeps only the first occurrence of children declared at most once
func dropRepeats(el *dtd.Element, names []string) []string {
	out := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, n := range names {
		_, max, _ := el.Bounds(n)
		if max == 1 && seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// canonicalOrder stably sorts names by their first position in the content model
func canonicalOrder(el *dtd.Element, names []string) []string {
	rank := map[string]int{}
	var walk func(p dtd.Particle)
	walk = func(p dtd.Particle) {
		if !p.IsGroup() {
			if _, ok := rank[p.Name]; !ok {
				rank[p.Name] = len(rank)
			}
			return
		}
		for _, g := range p.Group {
			walk(g)
		}
	}
	walk(el.Model.Root)
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool { return rank[out[i]] < rank[out[j]] })
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
