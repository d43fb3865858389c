// Package domain holds DTOs for entries http and service contracts
package domain

// ListInput filters and windows the entry listing
type ListInput struct {
	Offset int      `query:"offset" default:"0" validate:"min=0" example:"0"`
	Limit  int      `query:"limit" default:"50" validate:"min=1,max=500" example:"50"`
	Q      string   `query:"q" validate:"max=64" example:"やまだ"`
	Lang   string   `query:"lang" default:"eng" validate:"lang" example:"eng"`
	Types  []string `query:"type" validate:"max=8,dive,min=1,max=32" example:"surname"`
}

// Summary is the listing view of an entry
type Summary struct {
	Seq       int      `json:"seq" example:"5000001"`
	Headword  string   `json:"headword" example:"山田"`
	Kanji     []string `json:"kanji,omitempty"`
	Readings  []string `json:"readings"`
	NameTypes []string `json:"name_types,omitempty"`
	Glosses   []string `json:"glosses,omitempty"`
}

// ListResult is one window of matching entries. More is true when at least one
// further match exists past the window
type ListResult struct {
	Items   []Summary
	Offset  int
	Limit   int
	More    bool
	Scanned int
}
