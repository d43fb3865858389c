package dtd

// Match reports whether the child element names, in document order, satisfy
// the content model of e
func (e *Element) Match(names []string) bool {
	switch e.Model.Kind {
	case Any:
		return true
	case Empty, Text:
		return len(names) == 0
	case Mixed:
		for _, n := range names {
			if _, _, ok := e.Bounds(n); !ok {
				return false
			}
		}
		return true
	}
	ends := matchParticle(e.Model.Root, names, 0)
	return ends[len(names)]
}

// matchParticle returns the set of positions reachable after matching p from pos
func matchParticle(p Particle, names []string, pos int) []bool {
	switch p.Occurs {
	case Opt:
		out := once(p, names, pos)
		out[pos] = true
		return out
	case Star:
		return closure(p, names, single(len(names), pos))
	case Plus:
		return closure(p, names, once(p, names, pos))
	default:
		return once(p, names, pos)
	}
}

func single(n, pos int) []bool {
	s := make([]bool, n+1)
	s[pos] = true
	return s
}

// closure repeats p from every position in start until no new positions appear
func closure(p Particle, names []string, start []bool) []bool {
	reach := append([]bool(nil), start...)
	frontier := append([]bool(nil), start...)
	for {
		next := make([]bool, len(reach))
		grew := false
		for i, ok := range frontier {
			if !ok {
				continue
			}
			for j, hit := range once(p, names, i) {
				if hit && !reach[j] {
					reach[j], next[j], grew = true, true, true
				}
			}
		}
		if !grew {
			return reach
		}
		frontier = next
	}
}

// once matches exactly one occurrence of p ignoring its occurrence indicator
func once(p Particle, names []string, pos int) []bool {
	out := make([]bool, len(names)+1)
	if !p.IsGroup() {
		if pos < len(names) && names[pos] == p.Name {
			out[pos+1] = true
		}
		return out
	}
	if p.Choice {
		for _, g := range p.Group {
			for j, hit := range matchParticle(g, names, pos) {
				out[j] = out[j] || hit
			}
		}
		return out
	}
	cur := single(len(names), pos)
	for _, g := range p.Group {
		next := make([]bool, len(names)+1)
		moved := false
		for i, ok := range cur {
			if !ok {
				continue
			}
			for j, hit := range matchParticle(g, names, i) {
				if hit {
					next[j], moved = true, true
				}
			}
		}
		if !moved {
			return out
		}
		cur = next
	}
	return cur
}
