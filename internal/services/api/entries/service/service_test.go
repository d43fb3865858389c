package service

import (
	"context"
	"iter"
	"testing"

	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/services/api/entries/domain"
	"jmnedict/pkg/jmnedict"
)

type fakeSource struct {
	entries []jmnedict.Entry
	failAt  int // yields an error instead of entries[failAt] when > 0
	reads   int
}

func (f *fakeSource) Entries(context.Context) iter.Seq2[jmnedict.Entry, error] {
	return func(yield func(jmnedict.Entry, error) bool) {
		for i, e := range f.entries {
			if f.failAt > 0 && i == f.failAt {
				yield(jmnedict.Entry{}, perr.Decodef("entry %d: broken", i))
				return
			}
			f.reads++
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (f *fakeSource) Schema() (*jmnedict.Schema, error) { return jmnedict.DefaultSchema(), nil }

func entry(seq int, keb, reb, gloss, nameType string) jmnedict.Entry {
	e := jmnedict.Entry{
		Seq:      seq,
		Readings: []jmnedict.ReadingElement{{Text: reb}},
		Translations: []jmnedict.Translation{{
			NameTypes: []string{nameType},
			Details:   []jmnedict.TranslationDetail{{Lang: "eng", Text: gloss}, {Lang: "ger", Text: gloss + " (de)"}},
		}},
	}
	if keb != "" {
		e.Kanji = []jmnedict.KanjiElement{{Text: keb}}
	}
	return e
}

func sample() *fakeSource {
	return &fakeSource{entries: []jmnedict.Entry{
		entry(1, "山田", "やまだ", "Yamada", "family or surname"),
		entry(2, "", "たなか", "Tanaka", "family or surname"),
		entry(3, "東京", "とうきょう", "Tokyo", "place name"),
		entry(4, "大阪", "おおさか", "Osaka", "place name"),
		entry(5, "山本", "やまもと", "Yamamoto", "family or surname"),
		entry(6, "富士山", "ふじさん", "Mount Fuji", "place name"),
	}}
}

func seqs(items []domain.Summary) []int {
	out := make([]int, 0, len(items))
	for _, s := range items {
		out = append(out, s.Seq)
	}
	return out
}

func eq(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListWindows(t *testing.T) {
	cases := []struct {
		offset, limit int
		want          []int
		more          bool
	}{
		{0, 2, []int{1, 2}, true},
		{2, 3, []int{3, 4, 5}, true},
		{4, 5, []int{5, 6}, false},
		{6, 5, []int{}, false},
	}
	for _, tc := range cases {
		res, err := New(sample()).List(context.Background(), domain.ListInput{Offset: tc.offset, Limit: tc.limit, Lang: "eng"})
		if err != nil {
			t.Fatal(err)
		}
		if got := seqs(res.Items); !eq(got, tc.want) || res.More != tc.more {
			t.Fatalf("offset %d limit %d: got %v more=%v, want %v more=%v", tc.offset, tc.limit, got, res.More, tc.want, tc.more)
		}
	}
}

func TestListStopsReadingOnceWindowIsFull(t *testing.T) {
	src := sample()
	if _, err := New(src).List(context.Background(), domain.ListInput{Limit: 1, Lang: "eng"}); err != nil {
		t.Fatal(err)
	}
	// one entry for the window plus one to learn there is more
	if src.reads != 2 {
		t.Fatalf("reads = %d", src.reads)
	}
}

func TestListSearch(t *testing.T) {
	cases := []struct {
		q, lang string
		want    []int
	}{
		{"ヤマ", "eng", []int{1, 5}},  // katakana folds onto the hiragana readings
		{"山", "eng", []int{1, 5, 6}}, // kanji substring
		{"ＴＯＫＹＯ", "eng", []int{3}}, // fullwidth and case folded gloss
		{"(de)", "eng", []int{}},
		{"osaka (de)", "ger", []int{4}},
	}
	for _, tc := range cases {
		res, err := New(sample()).List(context.Background(), domain.ListInput{Q: tc.q, Lang: tc.lang, Limit: 50})
		if err != nil {
			t.Fatal(err)
		}
		if got := seqs(res.Items); !eq(got, tc.want) {
			t.Fatalf("q=%q lang=%s: got %v want %v", tc.q, tc.lang, got, tc.want)
		}
	}
}

func TestListSearchRoutesByScript(t *testing.T) {
	src := &fakeSource{entries: []jmnedict.Entry{
		entry(1, "", "かわ", "Kawa (川)", "place name"),
		entry(2, "川口", "かわぐち", "Kawaguchi", "place name"),
	}}
	// kanji never searches glosses, romaji never searches readings
	for q, want := range map[string][]int{"川": {2}, "kawa": {1, 2}, "かわ": {1, 2}} {
		res, err := New(src).List(context.Background(), domain.ListInput{Q: q, Lang: "eng", Limit: 50})
		if err != nil {
			t.Fatal(err)
		}
		if got := seqs(res.Items); !eq(got, want) {
			t.Fatalf("q=%q: got %v want %v", q, got, want)
		}
	}
}

func TestListTypesResolveEntities(t *testing.T) {
	for _, types := range [][]string{{"place"}, {"Place Name"}} {
		res, err := New(sample()).List(context.Background(), domain.ListInput{Types: types, Lang: "eng", Limit: 50})
		if err != nil {
			t.Fatal(err)
		}
		if got := seqs(res.Items); !eq(got, []int{3, 4, 6}) {
			t.Fatalf("types %v: got %v", types, got)
		}
	}
	res, err := New(sample()).List(context.Background(), domain.ListInput{Types: []string{"surname"}, Q: "やま", Lang: "eng", Limit: 50})
	if err != nil {
		t.Fatal(err)
	}
	if got := seqs(res.Items); !eq(got, []int{1, 5}) {
		t.Fatalf("surname+q: got %v", got)
	}
}

func TestListSummaryFields(t *testing.T) {
	res, err := New(sample()).List(context.Background(), domain.ListInput{Limit: 2, Lang: "ger"})
	if err != nil {
		t.Fatal(err)
	}
	first, second := res.Items[0], res.Items[1]
	if first.Headword != "山田" || len(first.Kanji) != 1 || first.Glosses[0] != "Yamada (de)" {
		t.Fatalf("first = %+v", first)
	}
	if second.Headword != "たなか" || second.Kanji != nil || second.NameTypes[0] != "family or surname" {
		t.Fatalf("second = %+v", second)
	}
}

func TestListSourceError(t *testing.T) {
	src := sample()
	src.failAt = 3
	_, err := New(src).List(context.Background(), domain.ListInput{Limit: 50, Lang: "eng"})
	if !perr.IsCode(err, perr.ErrorCodeDecode) {
		t.Fatalf("err = %v", err)
	}
}

func TestGet(t *testing.T) {
	s := New(sample())
	e, err := s.Get(context.Background(), 4)
	if err != nil || e.Headword() != "大阪" {
		t.Fatalf("get 4 = %+v, %v", e, err)
	}
	if _, err := s.Get(context.Background(), 99); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing: %v", err)
	}
	if _, err := s.Get(context.Background(), 0); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("zero: %v", err)
	}
}

func TestNewRequiresSource(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(nil)
}
