// Package domain holds the ports and result types of a load run
package domain

import "time"

// Target names the store a run writes to
type Target string

// Targets
const (
	TargetPG Target = "pg"
	TargetCH Target = "ch"
)

// Result describes one load run
type Result struct {
	RunID    string
	Target   Target
	Expected int // entryCount from the metadata artifact
	Decoded  int // entries read from the entry stream
	Stored   int // rows the target reports for this run
	Batches  int

	ReadMS     int64
	DBMS       int64
	ElapsedMS  int64
	FinishedAt time.Time
}
