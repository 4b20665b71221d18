package playergame

import "time"

// Position labels after standardization.
const (
	PositionGuard         = "Guard"
	PositionForward       = "Forward"
	PositionCenter        = "Center"
	PositionGuardForward  = "Guard-Forward"
	PositionForwardCenter = "Forward-Center"
)

// PlayerGame is one player's recorded performance in one game.
type PlayerGame struct {
	ID        int64
	DatasetID string

	PlayerID        int64
	PlayerFirstName string
	PlayerLastName  string
	PlayerFullName  string
	Position        string
	PositionStd     string

	TeamID           int64
	TeamAbbreviation string
	TeamName         string

	GameID     int64
	GameDate   time.Time
	Season     int
	Postseason bool
	Home       bool
	RestDays   int

	MinutesPlayed float64

	Points    float64
	Rebounds  float64
	OffReb    float64
	DefReb    float64
	Assists   float64
	Steals    float64
	Blocks    float64
	Turnovers float64
	Fouls     float64

	FGM   float64
	FGA   float64
	FGPct float64

	FG3M   float64
	FG3A   float64
	FG3Pct float64

	FTM   float64
	FTA   float64
	FTPct float64

	// Missing marks fields that were blank in the source row, keyed by
	// column name, so the cleaner can distinguish absent from zero.
	Missing map[string]bool

	// OutlierFlags is populated by the cleaner when the configured
	// outlier action is "flag".
	OutlierFlags map[string]bool
}

// Key identifies the player-game observation. Rows sharing a key are
// duplicates and the cleaner keeps only the first.
func (g PlayerGame) Key() [2]int64 {
	return [2]int64{g.PlayerID, g.GameID}
}

// MissingField reports whether the named column was blank in the
// source row.
func (g PlayerGame) MissingField(column string) bool {
	return g.Missing != nil && g.Missing[column]
}

// SetMissing records a blank source column.
func (g *PlayerGame) SetMissing(column string) {
	if g.Missing == nil {
		g.Missing = make(map[string]bool)
	}
	g.Missing[column] = true
}

// ClearMissing removes the blank marker after a value is filled in.
func (g *PlayerGame) ClearMissing(column string) {
	if g.Missing != nil {
		delete(g.Missing, column)
	}
}

// FlagOutlier marks the named column as an outlier observation.
func (g *PlayerGame) FlagOutlier(column string) {
	if g.OutlierFlags == nil {
		g.OutlierFlags = make(map[string]bool)
	}
	g.OutlierFlags[column] = true
}
