// Package freshness decides whether an existing entry-stream artifact is recent enough
// to skip a re-fetch
package freshness

import (
	"io/fs"
	"os"
	"time"
)

// DefaultThreshold is the age below which an artifact counts as fresh
const DefaultThreshold = 23 * time.Hour

// Verdict is the outcome of a freshness check
type Verdict uint8

const (
	// Stale means a fetch is required
	Stale Verdict = iota
	// Fresh means the artifact is young enough to keep
	Fresh
)

func (v Verdict) String() string {
	if v == Fresh {
		return "fresh"
	}
	return "stale"
}

// Artifact is what the guard knows about the current entry-stream artifact
type Artifact struct {
	Exists  bool
	ModTime time.Time
}

// Check returns Fresh iff the artifact exists and now-mtime is strictly below threshold.
// A non-positive threshold makes every artifact stale
func Check(a Artifact, now time.Time, threshold time.Duration) Verdict {
	if !a.Exists || threshold <= 0 {
		return Stale
	}
	if now.Sub(a.ModTime) < threshold {
		return Fresh
	}
	return Stale
}

// statFn is swapped in tests
var statFn = os.Stat

// Probe stats path; any stat failure or a non-regular file reads as missing
func Probe(path string) Artifact {
	fi, err := statFn(path)
	if err != nil || !fi.Mode().IsRegular() {
		return Artifact{}
	}
	return Artifact{Exists: true, ModTime: fi.ModTime()}
}

// ProbeFS is Probe over an fs.FS
func ProbeFS(fsys fs.FS, name string) Artifact {
	fi, err := fs.Stat(fsys, name)
	if err != nil || !fi.Mode().IsRegular() {
		return Artifact{}
	}
	return Artifact{Exists: true, ModTime: fi.ModTime()}
}

// Guard bundles a clock and a threshold
type Guard struct {
	Threshold time.Duration
	Now       func() time.Time
}

// New returns a Guard using the wall clock. A threshold <= 0 makes every
// artifact stale, so callers that want the default pass DefaultThreshold
func New(threshold time.Duration) Guard {
	return Guard{Threshold: threshold, Now: time.Now}
}

// Check probes path and classifies it
func (g Guard) Check(path string) Verdict {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return Check(Probe(path), now(), g.Threshold)
}
