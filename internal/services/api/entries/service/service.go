// Package service answers entry lookups by streaming the artifacts
package service

import (
	"context"
	"strings"
	"time"

	"jmnedict/internal/core/langhint"
	"jmnedict/internal/core/normalize"
	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/platform/logger"
	ptime "jmnedict/internal/platform/time"
	"jmnedict/internal/services/api/entries/domain"
	"jmnedict/pkg/jmnedict"
)

// Service defines the service contract for entries
type Service interface{ domain.ServicePort }

// Svc implements Service. Nothing is indexed; every call is one lazy pass that
// stops as soon as the answer is known
type Svc struct {
	src   domain.SourcePort
	keys  *normalize.Normalizer
	gloss *normalize.Normalizer
}

// New creates an entries service over src
func New(src domain.SourcePort) *Svc {
	if src == nil {
		panic("entries.Service requires a non nil SourcePort")
	}
	return &Svc{src: src, keys: normalize.New(), gloss: normalize.NewGloss()}
}

type filter struct {
	keyNeedle   string
	glossNeedle string
	lang        string
	types       map[string]bool
}

// List returns the window [Offset, Offset+Limit) of the entries matching in
func (s *Svc) List(ctx context.Context, in domain.ListInput) (domain.ListResult, error) {
	start := time.Now()
	f, err := s.filter(in)
	if err != nil {
		return domain.ListResult{}, err
	}

	res := domain.ListResult{Offset: in.Offset, Limit: in.Limit, Items: []domain.Summary{}}
	matched := 0
	for e, err := range s.src.Entries(ctx) {
		if err != nil {
			return domain.ListResult{}, err
		}
		res.Scanned++
		if !s.match(e, f) {
			continue
		}
		matched++
		if matched <= in.Offset {
			continue
		}
		if len(res.Items) == in.Limit {
			res.More = true
			break
		}
		res.Items = append(res.Items, summarize(e, in.Lang))
	}

	logger.C(ctx).Debug().
		Int("scanned", res.Scanned).
		Int("returned", len(res.Items)).
		Bool("more", res.More).
		Int64("elapsed_ms", ptime.MS(start)).
		Msg("entries: list")
	return res, nil
}

// Get returns the entry whose sequence number is seq
func (s *Svc) Get(ctx context.Context, seq int) (jmnedict.Entry, error) {
	if seq <= 0 {
		return jmnedict.Entry{}, perr.WithField(perr.InvalidArgf("seq must be positive"), "seq")
	}
	for e, err := range s.src.Entries(ctx) {
		if err != nil {
			return jmnedict.Entry{}, err
		}
		if e.Seq == seq {
			return e, nil
		}
	}
	return jmnedict.Entry{}, perr.NotFoundf("entry %d not found", seq)
}

// filter resolves type names through the schema entities, so both "surname"
// and "family or surname" select surnames
func (s *Svc) filter(in domain.ListInput) (filter, error) {
	f := filter{lang: in.Lang}
	if q := strings.TrimSpace(in.Q); q != "" {
		// romaji never matches a kana reading and kana never matches a gloss
		script := langhint.Classify(q)
		if script.Keys() {
			f.keyNeedle = s.keys.Normalize(q)
		}
		if script.Glosses() {
			f.glossNeedle = s.gloss.Normalize(q)
		}
	}
	if len(in.Types) == 0 {
		return f, nil
	}
	schema, err := s.src.Schema()
	if err != nil {
		return f, err
	}
	f.types = make(map[string]bool, len(in.Types))
	for _, t := range in.Types {
		if text, ok := schema.Entities[t]; ok {
			t = text
		}
		f.types[strings.ToLower(t)] = true
	}
	return f, nil
}

func (s *Svc) match(e jmnedict.Entry, f filter) bool {
	if f.types != nil {
		hit := false
		for _, n := range e.NameTypes() {
			if f.types[strings.ToLower(n)] {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.keyNeedle == "" && f.glossNeedle == "" {
		return true
	}
	if f.keyNeedle != "" {
		for _, k := range e.Kanji {
			if s.keys.Contains(k.Text, f.keyNeedle) {
				return true
			}
		}
		for _, r := range e.Readings {
			if s.keys.Contains(r.Text, f.keyNeedle) {
				return true
			}
		}
	}
	if f.glossNeedle != "" {
		for _, g := range e.Glosses(f.lang) {
			if s.gloss.Contains(g, f.glossNeedle) {
				return true
			}
		}
	}
	return false
}

func summarize(e jmnedict.Entry, lang string) domain.Summary {
	out := domain.Summary{
		Seq:       e.Seq,
		Headword:  e.Headword(),
		Readings:  make([]string, 0, len(e.Readings)),
		NameTypes: e.NameTypes(),
		Glosses:   e.Glosses(lang),
	}
	for _, k := range e.Kanji {
		out.Kanji = append(out.Kanji, k.Text)
	}
	for _, r := range e.Readings {
		out.Readings = append(out.Readings, r.Text)
	}
	return out
}
