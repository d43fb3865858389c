// Package domain holds the ports and result types of the fetch run
package domain

import (
	"time"

	"jmnedict/internal/core/freshness"
	"jmnedict/internal/core/segment"
)

// Result describes one fetch run
type Result struct {
	RunID   string
	Skipped bool // the entry-stream artifact was fresh
	Verdict freshness.Verdict
	Segment segment.Result

	Entries    string // path of the committed entry-stream artifact
	FetchMS    int64
	SegmentMS  int64
	ElapsedMS  int64
	FinishedAt time.Time
}
