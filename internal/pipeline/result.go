package pipeline

import (
	"time"

	"github.com/youruser/sitecards/internal/deck"
	"github.com/youruser/sitecards/internal/sites"
)

// Result summarizes one run.
type Result struct {
	RunID    string
	Records  int
	Stats    Stats
	Failures []Failure

	// Pages is the output in deck order; Skipped lists output names that
	// are not pages.
	Pages   []deck.PageID
	Skipped []string

	// Document is the PDF path, empty when no PDF was written.
	Document string
}

// Stats counts what a run did.
type Stats struct {
	Composed           int // cards written this run
	Existing           int // cards already present
	ScreenshotsFetched int
	ScreenshotsCached  int
	QREncoded          int
	QRCached           int
	TitlePages         int // title pages in the deck
	IndexPages         int // index pages in the deck
	PagesExisting      int // title and index pages kept from a previous run
	Duration           time.Duration
}

// Failure is a record that produced no card.
type Failure struct {
	Record sites.Record
	Stage  string
	Err    error
}

func (r *Result) fail(rec sites.Record, stage string, err error) {
	r.Failures = append(r.Failures, Failure{Record: rec, Stage: stage, Err: err})
}
