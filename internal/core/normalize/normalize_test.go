package normalize

import (
	"testing"
)

func TestNormalize_Table(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "identity kanji", in: "山田", out: "山田"},
		{name: "katakana folds to hiragana", in: "ヤマダ", out: "やまだ"},
		{name: "halfwidth katakana", in: "ﾔﾏﾀﾞ", out: "やまだ"},
		{name: "voiced marks survive", in: "ガギグ", out: "がぎぐ"},
		{name: "prolonged mark stays", in: "ラーメン", out: "らーめん"},
		{name: "katakana only letters stay", in: "ヴァ", out: "ゔぁ"},
		{name: "fullwidth ascii", in: "ＪＲ東日本", out: "jr東日本"},
		{name: "utf8 repair drops invalid bytes", in: string([]byte{0xff, 'a', 0x80, 'b'}), out: "ab"},
		{name: "remove zero-widths", in: "や\u200bま\u200dだ", out: "やまだ"},
		{name: "control bytes", in: "や\x00ま\x7fだ", out: "やまだ"},
		{name: "collapse whitespace", in: "  山田\t\t 太郎\n", out: "山田 太郎"},
		{name: "empty", in: "", out: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.in)
			if got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if again := n.Normalize(got); again != got {
				t.Fatalf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestGlossKeys(t *testing.T) {
	g := NewGloss()
	cases := map[string]string{
		"Tōkyō":       "tokyo",
		"Mount  Fuji": "mount fuji",
		"ＯＳＡＫＡ":       "osaka",
		"Ôsaka-shi":   "osaka-shi",
	}
	for in, want := range cases {
		if got := g.Normalize(in); got != want {
			t.Fatalf("gloss(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContains(t *testing.T) {
	n := New()
	if !n.Contains("タナカ", n.Normalize("なか")) {
		t.Fatal("kana-insensitive substring should match")
	}
	if n.Contains("たなか", "やま") {
		t.Fatal("unexpected match")
	}
	if !n.Contains("anything", "") {
		t.Fatal("empty needle matches everything")
	}
}

func TestKanaFold(t *testing.T) {
	if got := kanaFold('ア'); got != 'あ' {
		t.Fatalf("kanaFold(ア) = %q", got)
	}
	if got := kanaFold('ヷ'); got != 'ヷ' {
		t.Fatalf("kanaFold(ヷ) = %q", got)
	}
	if got := kanaFold('a'); got != 'a' {
		t.Fatalf("kanaFold(a) = %q", got)
	}
}

func TestSanitize(t *testing.T) {
	in := "a\x00b\tc\u0085d"
	if got := Sanitize(in); got != "ab\tcd" {
		t.Fatalf("Sanitize = %q", got)
	}
	if got := Sanitize("clean"); got != "clean" {
		t.Fatalf("fast path changed input: %q", got)
	}
}
