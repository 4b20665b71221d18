package dataset

import "time"

// Status tracks where a dataset sits in the load/clean lifecycle.
const (
	StatusLoaded  = "loaded"
	StatusCleaned = "cleaned"
)

// Dataset describes one ingested table of player-game observations.
type Dataset struct {
	ID          string
	Name        string
	Source      string
	Status      string
	RowCount    int
	ColumnCount int
	SkippedRows int
	LoadedAt    time.Time
	CleanedAt   *time.Time

	// Cleaning summary counters, populated once the cleaner has run.
	RowsRemoved   int
	MissingBefore int
	MissingAfter  int
}
