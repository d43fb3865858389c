// Package strings holds the small string helpers shared across packages
package strings

import (
	std "strings"
)

// MustString returns s if it has non whitespace content, otherwise panics naming it
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a route prefix such as /entries to a single leading
// slash and no trailing slash. The root itself is rejected
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// TruncateUTF8 cuts s to at most max bytes on a rune boundary and appends "..."
// when anything was cut. max <= 0 disables the limit
func TruncateUTF8(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	i := max
	// 0b10xxxxxx is a continuation byte
	for i > 0 && (s[i]&0xC0) == 0x80 {
		i--
	}
	if i == 0 {
		i = max
	}
	return s[:i] + "..."
}
