// Package artifacttest commits synthetic artifacts for tests of the packages
// that read them
package artifacttest

import (
	"strings"
	"testing"
	"time"

	"jmnedict/internal/adapters/artifact"
	"jmnedict/internal/core/codec"
	"jmnedict/internal/core/segment"
	kit "jmnedict/internal/platform/testkit"
)

// FixedNow stamps the metadata of every committed fixture
var FixedNow = time.Date(2026, 10, 16, 3, 4, 5, 0, time.UTC)

// Commit runs the segmenter over doc and commits the artifacts to a temp dir
func Commit(t testing.TB, doc kit.Doc, c codec.Codec) string {
	t.Helper()
	dir := t.TempDir()
	st, err := artifact.Stage(artifact.Layout{Dir: dir, Codec: c})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := segment.Run(strings.NewReader(kit.Text(doc.Lines())), st.Sinks(), func() time.Time { return FixedNow }); err != nil {
		_ = st.Abort()
		t.Fatal(err)
	}
	if err := st.Commit(); err != nil {
		t.Fatal(err)
	}
	return dir
}

// Sample commits n generated entries as zstd
func Sample(t testing.TB, n int) string {
	t.Helper()
	return Commit(t, kit.SampleDoc(n, false), codec.Zstd)
}
