// Package builtin embeds the JMnedict document type declaration used when no
// schema artifact is available
package builtin

import (
	_ "embed"
	"strings"
)

//go:embed jmnedict.dtd
var text string

// Text returns the embedded declaration block, from the DOCTYPE line through "]>"
func Text() string { return text }

// Lines returns the declaration split into lines without terminators
func Lines() []string {
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
