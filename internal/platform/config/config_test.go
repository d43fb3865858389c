package config

import (
	"testing"
	"time"

	kit "jmnedict/internal/platform/testkit"
)

func TestPrefixNesting(t *testing.T) {
	fetch := New().Prefix("CORE_").Prefix("FETCH_")
	if got := fetch.key("URL"); got != "CORE_FETCH_URL" {
		t.Fatalf("key() = %q, want %q", got, "CORE_FETCH_URL")
	}
}

func TestMustStringTrims(t *testing.T) {
	c := New().Prefix("JT_")
	t.Setenv("JT_DIR", "  /var/lib/jmnedict ")
	if got := c.MustString("DIR"); got != "/var/lib/jmnedict" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })

	t.Setenv("JT_BLANK", "   ")
	kit.MustPanic(t, func() { _ = c.MustString("BLANK") })
}

func TestMustInt(t *testing.T) {
	c := New().Prefix("JT_")
	t.Setenv("JT_BATCH", " 250 ")
	if got := c.MustInt("BATCH"); got != 250 {
		t.Fatalf("MustInt = %d, want 250", got)
	}
	t.Setenv("JT_BAD", "many")
	kit.MustPanic(t, func() { _ = c.MustInt("BAD") })
	kit.MustPanic(t, func() { _ = c.MustInt("MISSING") })
}

func TestMustURL(t *testing.T) {
	c := New().Prefix("JT_")
	t.Setenv("JT_SRC", "http://ftp.edrdg.org/pub/Nihongo/JMnedict.xml.gz")
	if u := c.MustURL("SRC"); u.Host != "ftp.edrdg.org" {
		t.Fatalf("MustURL host = %q", u.Host)
	}
	t.Setenv("JT_REL", "pub/JMnedict.xml.gz")
	kit.MustPanic(t, func() { _ = c.MustURL("REL") })
}

func TestRequire(t *testing.T) {
	c := New().Prefix("JT_")
	t.Setenv("JT_A", "x")
	kit.MustNotPanic(t, func() { c.Require("A") })
	kit.MustPanic(t, func() { c.Require("A", "NOPE") })
}

func TestMayFallbacks(t *testing.T) {
	c := New().Prefix("JT_MAY_")

	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Fatalf("MayString default = %q", got)
	}
	if got := c.MayInt("MISSING", 100); got != 100 {
		t.Fatalf("MayInt default = %d", got)
	}
	t.Setenv("JT_MAY_INT", "junk")
	if got := c.MayInt("INT", 3); got != 3 {
		t.Fatalf("MayInt invalid = %d, want default", got)
	}
	t.Setenv("JT_MAY_BOOL", "yes-ish")
	if got := c.MayBool("BOOL", true); !got {
		t.Fatalf("MayBool invalid should fall back to default")
	}
	t.Setenv("JT_MAY_DUR", "23h")
	if got := c.MayDuration("DUR", time.Hour); got != 23*time.Hour {
		t.Fatalf("MayDuration = %v", got)
	}
	t.Setenv("JT_MAY_BADDUR", "soon")
	if got := c.MayDuration("BADDUR", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration invalid = %v", got)
	}
}

func TestMayPositiveInt(t *testing.T) {
	c := New().Prefix("JT_")
	t.Setenv("JT_BATCH", "0")
	if got := c.MayPositiveInt("BATCH", 100); got != 100 {
		t.Fatalf("MayPositiveInt zero = %d, want 100", got)
	}
	t.Setenv("JT_BATCH", "-5")
	if got := c.MayPositiveInt("BATCH", 100); got != 100 {
		t.Fatalf("MayPositiveInt negative = %d, want 100", got)
	}
	t.Setenv("JT_BATCH", "7")
	if got := c.MayPositiveInt("BATCH", 100); got != 7 {
		t.Fatalf("MayPositiveInt = %d, want 7", got)
	}
}

func TestMayURL(t *testing.T) {
	c := New().Prefix("JT_")
	u := c.MayURL("MISSING", "ftp://ftp.edrdg.org/pub/Nihongo/JMnedict.xml.gz", "http", "https", "ftp", "file")
	if u.Scheme != "ftp" || u.Path != "/pub/Nihongo/JMnedict.xml.gz" {
		t.Fatalf("MayURL default = %v", u)
	}

	t.Setenv("JT_SRC", "HTTPS://example.org/JMnedict.xml.gz")
	if u := c.MayURL("SRC", "", "http", "https"); u.Host != "example.org" {
		t.Fatalf("MayURL = %v", u)
	}

	t.Setenv("JT_GOPHER", "gopher://example.org/x")
	kit.MustPanic(t, func() { _ = c.MayURL("GOPHER", "", "http", "https") })

	t.Setenv("JT_REL", "relative/path")
	kit.MustPanic(t, func() { _ = c.MayURL("REL", "") })
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("JT_")
	t.Setenv("JT_ORIGINS", " http://a.test, ,http://b.test ,, ")
	got := c.MayCSV("ORIGINS", nil)
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("MayCSV = %#v", got)
	}
	t.Setenv("JT_EMPTY", " , ,")
	if got := c.MayCSV("EMPTY", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("MayCSV all-empty = %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("JT_")
	if got := c.MayEnum("MISSING", "zstd", "zstd", "gzip"); got != "zstd" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("JT_CODEC", "GZip")
	if got := c.MayEnum("CODEC", "zstd", "zstd", "gzip"); got != "gzip" {
		t.Fatalf("MayEnum = %q, want gzip", got)
	}
	t.Setenv("JT_BAD", "brotli")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "zstd", "zstd", "gzip") })

	if got := c.MayEnum("MISSING", "", "zstd"); got != "" {
		t.Fatalf("MayEnum empty default = %q", got)
	}
}
