package ch

import "testing"

func TestInsertSQL(t *testing.T) {
	if got := InsertSQL("jmnedict_entries", []string{"ent_seq", "headword"}); got != "INSERT INTO jmnedict_entries (ent_seq, headword)" {
		t.Fatalf("got %q", got)
	}
	if got := InsertSQL("t", nil); got != "INSERT INTO t" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildClientInfo(t *testing.T) {
	info := BuildClientInfo("", " load ")
	if len(info.Products) != 4 {
		t.Fatalf("products = %+v", info.Products)
	}
	if p := info.Products[0]; p.Name != "jmnedict" || p.Version != "load" {
		t.Fatalf("first product = %+v", p)
	}
	if info.Products[2].Version == "" {
		t.Fatal("commit should fall back to unknown")
	}
}

func TestOpenRejectsBadDSN(t *testing.T) {
	if _, err := Open(t.Context(), Config{URL: "://nope"}); err == nil {
		t.Fatal("expected a dsn error")
	}
}
