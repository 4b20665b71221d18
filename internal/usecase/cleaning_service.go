package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cbratkovics/nba-analytics/internal/domain/analysis"
	"github.com/cbratkovics/nba-analytics/internal/domain/dataset"
	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
	"github.com/cbratkovics/nba-analytics/internal/platform/logging"
	"github.com/cbratkovics/nba-analytics/internal/platform/stats"
)

// Cleaning levels for the batch CLI. The API uses the configured
// options directly.
const (
	CleaningLevelMinimal    = "minimal"
	CleaningLevelStandard   = "standard"
	CleaningLevelAggressive = "aggressive"
)

type CleaningOptions struct {
	MaxMinutes      float64
	MaxPoints       float64
	MaxRebounds     float64
	MaxAssists      float64
	OutlierMethod   string
	OutlierLimit    float64
	OutlierAction   string
	DefaultRestDays int
	SkipValidation  bool
	SkipOutliers    bool
}

func DefaultCleaningOptions() CleaningOptions {
	return CleaningOptions{
		MaxMinutes:      60,
		MaxPoints:       100,
		MaxRebounds:     30,
		MaxAssists:      25,
		OutlierMethod:   "iqr",
		OutlierLimit:    1.5,
		OutlierAction:   "flag",
		DefaultRestDays: 7,
	}
}

// CleaningOptionsForLevel maps a CLI cleaning level onto options.
// Minimal skips validation fixes and outlier handling, aggressive
// removes outlier rows instead of flagging them.
func CleaningOptionsForLevel(level string, base CleaningOptions) (CleaningOptions, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case CleaningLevelMinimal:
		base.SkipValidation = true
		base.SkipOutliers = true
	case CleaningLevelStandard, "":
		base.OutlierAction = "flag"
	case CleaningLevelAggressive:
		base.OutlierAction = "remove"
	default:
		return CleaningOptions{}, fmt.Errorf("%w: unknown cleaning level %q", ErrInvalidInput, level)
	}
	return base, nil
}

type reportWriter interface {
	SaveCleaning(ctx context.Context, report analysis.CleaningReport) (analysis.Report, error)
}

type cacheInvalidator interface {
	DeletePrefix(ctx context.Context, prefix string)
}

type CleaningService struct {
	datasetRepo dataset.Repository
	gameRepo    playergame.Repository
	reports     reportWriter
	cache       cacheInvalidator
	opts        CleaningOptions
	logger      *logging.Logger
}

func NewCleaningService(
	datasetRepo dataset.Repository,
	gameRepo playergame.Repository,
	reports reportWriter,
	cache cacheInvalidator,
	opts CleaningOptions,
	logger *logging.Logger,
) *CleaningService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CleaningService{
		datasetRepo: datasetRepo,
		gameRepo:    gameRepo,
		reports:     reports,
		cache:       cache,
		opts:        opts,
		logger:      logger,
	}
}

// Clean runs the pipeline over a dataset and replaces its rows with
// the cleaned ones.
func (s *CleaningService) Clean(ctx context.Context, datasetID string) (analysis.CleaningReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CleaningService.Clean")
	defer span.End()

	datasetID = strings.TrimSpace(datasetID)
	if datasetID == "" {
		return analysis.CleaningReport{}, fmt.Errorf("%w: dataset id is required", ErrInvalidInput)
	}

	item, found, err := s.datasetRepo.GetByID(ctx, datasetID)
	if err != nil {
		return analysis.CleaningReport{}, fmt.Errorf("get dataset: %w", err)
	}
	if !found {
		return analysis.CleaningReport{}, fmt.Errorf("%w: dataset %s", ErrNotFound, datasetID)
	}

	rows, err := s.gameRepo.ListByDataset(ctx, datasetID)
	if err != nil {
		return analysis.CleaningReport{}, fmt.Errorf("list dataset rows: %w", err)
	}
	if len(rows) == 0 {
		return analysis.CleaningReport{}, fmt.Errorf("%w: dataset %s has no rows", ErrInvalidInput, datasetID)
	}

	cleaned, report := CleanRows(rows, s.opts)
	report.DatasetID = datasetID

	if err := s.gameRepo.ReplaceAll(ctx, datasetID, cleaned); err != nil {
		return analysis.CleaningReport{}, fmt.Errorf("replace dataset rows: %w", err)
	}

	now := report.GeneratedAt
	item.Status = dataset.StatusCleaned
	item.CleanedAt = &now
	item.RowCount = report.CleanedRows
	item.RowsRemoved = report.RowsRemoved
	item.MissingBefore = report.MissingBefore
	item.MissingAfter = report.MissingAfter
	if err := s.datasetRepo.Update(ctx, item); err != nil {
		return analysis.CleaningReport{}, fmt.Errorf("update dataset: %w", err)
	}

	if s.reports != nil {
		if _, err := s.reports.SaveCleaning(ctx, report); err != nil {
			return analysis.CleaningReport{}, fmt.Errorf("save cleaning report: %w", err)
		}
	}
	if s.cache != nil {
		s.cache.DeletePrefix(ctx, "dataset:"+datasetID+":")
	}

	s.logger.InfoContext(ctx, "dataset cleaned",
		"dataset_id", datasetID,
		"original_rows", report.OriginalRows,
		"cleaned_rows", report.CleanedRows,
		"rows_removed", report.RowsRemoved,
	)
	return report, nil
}

// CleanRows runs the pipeline stages over rows in memory. The batch
// CLI uses it directly without a repository.
func CleanRows(rows []playergame.PlayerGame, opts CleaningOptions) ([]playergame.PlayerGame, analysis.CleaningReport) {
	c := &cleaner{
		opts:     opts,
		issues:   make(map[string]int),
		outliers: make(map[string]int),
	}

	report := analysis.CleaningReport{
		OriginalRows:  len(rows),
		MissingBefore: countMissing(rows),
	}

	out := make([]playergame.PlayerGame, len(rows))
	copy(out, rows)

	for i := range out {
		c.fillMissing(&out[i])
	}
	out = c.dedupe(out)
	c.computeRestDays(out)
	if !opts.SkipValidation {
		for i := range out {
			c.validate(&out[i])
		}
	}
	if !opts.SkipOutliers {
		out = c.handleOutliers(out)
	}
	for i := range out {
		c.cleanText(&out[i])
	}
	sortRows(out)

	report.CleanedRows = len(out)
	report.RowsRemoved = report.OriginalRows - len(out)
	report.MissingAfter = countMissing(out)
	report.Issues = c.issues
	report.Outliers = c.outliers
	report.GeneratedAt = time.Now().UTC()
	return out, report
}

type cleaner struct {
	opts     CleaningOptions
	issues   map[string]int
	outliers map[string]int
}

func (c *cleaner) issue(name string) {
	c.issues[name]++
}

type shootingTriple struct {
	pctColumn string
	made      *float64
	attempted *float64
	pct       *float64
}

func triples(g *playergame.PlayerGame) []shootingTriple {
	return []shootingTriple{
		{pctColumn: "fg_pct", made: &g.FGM, attempted: &g.FGA, pct: &g.FGPct},
		{pctColumn: "fg3_pct", made: &g.FG3M, attempted: &g.FG3A, pct: &g.FG3Pct},
		{pctColumn: "ft_pct", made: &g.FTM, attempted: &g.FTA, pct: &g.FTPct},
	}
}

// fillMissing resolves blank source fields. Shooting percentages are
// recomputed from attempts when possible and defined as zero for zero
// attempts. Counting stats and minutes zero-fill.
func (c *cleaner) fillMissing(g *playergame.PlayerGame) {
	for _, t := range triples(g) {
		if !g.MissingField(t.pctColumn) {
			continue
		}
		if *t.attempted > 0 {
			*t.pct = *t.made / *t.attempted
			c.issue("pct_recomputed")
		} else {
			*t.pct = 0
			c.issue("pct_zeroed_no_attempts")
		}
		g.ClearMissing(t.pctColumn)
	}

	for column := range g.Missing {
		// Remaining blanks are counting stats or minutes, whose zero
		// values already mean "did not record". Zero-fill and count.
		g.ClearMissing(column)
		c.issue("missing_zero_filled")
	}
}

// validate applies basketball sanity rules with auto-fixes.
func (c *cleaner) validate(g *playergame.PlayerGame) {
	if g.MinutesPlayed < 0 {
		g.MinutesPlayed = 0
		c.issue("negative_minutes")
	}
	if g.MinutesPlayed > c.opts.MaxMinutes {
		g.MinutesPlayed = c.opts.MaxMinutes
		c.issue("minutes_capped")
	}

	for _, v := range []*float64{
		&g.Points, &g.Rebounds, &g.OffReb, &g.DefReb, &g.Assists,
		&g.Steals, &g.Blocks, &g.Turnovers, &g.Fouls,
		&g.FGM, &g.FGA, &g.FG3M, &g.FG3A, &g.FTM, &g.FTA,
	} {
		if *v < 0 {
			*v = 0
			c.issue("negative_stat")
		}
	}

	for _, t := range triples(g) {
		if *t.made > *t.attempted {
			*t.made = *t.attempted
			c.issue("made_exceeds_attempted")
		}
		if *t.attempted > 0 {
			*t.pct = *t.made / *t.attempted
		}
		if *t.pct < 0 || *t.pct > 1 {
			*t.pct = clamp(*t.pct, 0, 1)
			c.issue("pct_clamped")
		}
	}

	if sum := g.OffReb + g.DefReb; g.Rebounds != sum && (g.OffReb > 0 || g.DefReb > 0) {
		g.Rebounds = sum
		c.issue("rebound_mismatch")
	}

	if g.Points > c.opts.MaxPoints {
		c.issue("extreme_points")
	}
	if g.Rebounds > c.opts.MaxRebounds {
		c.issue("extreme_rebounds")
	}
	if g.Assists > c.opts.MaxAssists {
		c.issue("extreme_assists")
	}
}

// computeRestDays derives days of rest between consecutive games per
// player. A player's first observed game gets the configured default.
func (c *cleaner) computeRestDays(rows []playergame.PlayerGame) {
	byPlayer := make(map[int64][]int)
	for i := range rows {
		byPlayer[rows[i].PlayerID] = append(byPlayer[rows[i].PlayerID], i)
	}

	for _, indexes := range byPlayer {
		sort.SliceStable(indexes, func(a, b int) bool {
			return rows[indexes[a]].GameDate.Before(rows[indexes[b]].GameDate)
		})
		for pos, idx := range indexes {
			if pos == 0 || rows[idx].GameDate.IsZero() {
				rows[idx].RestDays = c.opts.DefaultRestDays
				continue
			}
			prev := rows[indexes[pos-1]]
			days := int(rows[idx].GameDate.Sub(prev.GameDate).Hours() / 24)
			if days < 0 {
				days = 0
			}
			rows[idx].RestDays = days
		}
	}
}

var outlierColumns = []struct {
	name string
	get  func(*playergame.PlayerGame) *float64
}{
	{"pts", func(g *playergame.PlayerGame) *float64 { return &g.Points }},
	{"reb", func(g *playergame.PlayerGame) *float64 { return &g.Rebounds }},
	{"ast", func(g *playergame.PlayerGame) *float64 { return &g.Assists }},
	{"min", func(g *playergame.PlayerGame) *float64 { return &g.MinutesPlayed }},
	{"fga", func(g *playergame.PlayerGame) *float64 { return &g.FGA }},
	{"fg3a", func(g *playergame.PlayerGame) *float64 { return &g.FG3A }},
}

// handleOutliers learns per-column bounds over the whole dataset and
// applies the configured action.
func (c *cleaner) handleOutliers(rows []playergame.PlayerGame) []playergame.PlayerGame {
	if len(rows) < 4 {
		return rows
	}

	type bounds struct{ lo, hi float64 }
	limits := make(map[string]bounds, len(outlierColumns))
	values := make([]float64, len(rows))
	for _, col := range outlierColumns {
		for i := range rows {
			values[i] = *col.get(&rows[i])
		}
		var lo, hi float64
		if c.opts.OutlierMethod == "zscore" {
			lo, hi = stats.ZScoreBounds(values, c.opts.OutlierLimit)
		} else {
			lo, hi = stats.IQRBounds(values, c.opts.OutlierLimit)
		}
		limits[col.name] = bounds{lo: lo, hi: hi}
	}

	kept := rows[:0]
	for i := range rows {
		remove := false
		for _, col := range outlierColumns {
			v := col.get(&rows[i])
			b := limits[col.name]
			if *v >= b.lo && *v <= b.hi {
				continue
			}
			c.outliers[col.name]++
			switch c.opts.OutlierAction {
			case "cap":
				*v = clamp(*v, b.lo, b.hi)
			case "remove":
				remove = true
			default:
				rows[i].FlagOutlier(col.name)
			}
		}
		if !remove {
			kept = append(kept, rows[i])
		}
	}
	return kept
}

var positionNames = map[string]string{
	"G":   playergame.PositionGuard,
	"F":   playergame.PositionForward,
	"C":   playergame.PositionCenter,
	"G-F": playergame.PositionGuardForward,
	"F-G": playergame.PositionGuardForward,
	"F-C": playergame.PositionForwardCenter,
	"C-F": playergame.PositionForwardCenter,
}

func (c *cleaner) cleanText(g *playergame.PlayerGame) {
	g.PlayerFirstName = strings.TrimSpace(g.PlayerFirstName)
	g.PlayerLastName = strings.TrimSpace(g.PlayerLastName)
	g.PlayerFullName = strings.TrimSpace(g.PlayerFullName)
	g.TeamAbbreviation = strings.ToUpper(strings.TrimSpace(g.TeamAbbreviation))
	g.TeamName = strings.TrimSpace(g.TeamName)
	g.Position = strings.ToUpper(strings.TrimSpace(g.Position))

	if std, ok := positionNames[g.Position]; ok {
		g.PositionStd = std
	} else if g.Position != "" {
		g.PositionStd = g.Position
		c.issue("unknown_position")
	}

	if g.PlayerFullName == "" && (g.PlayerFirstName != "" || g.PlayerLastName != "") {
		g.PlayerFullName = strings.TrimSpace(g.PlayerFirstName + " " + g.PlayerLastName)
	}
}

// dedupe keeps the first row per player-game key.
func (c *cleaner) dedupe(rows []playergame.PlayerGame) []playergame.PlayerGame {
	seen := make(map[[2]int64]bool, len(rows))
	kept := rows[:0]
	for i := range rows {
		key := rows[i].Key()
		if seen[key] {
			c.issue("duplicates_removed")
			continue
		}
		seen[key] = true
		kept = append(kept, rows[i])
	}
	return kept
}

func sortRows(rows []playergame.PlayerGame) {
	sort.SliceStable(rows, func(a, b int) bool {
		if !rows[a].GameDate.Equal(rows[b].GameDate) {
			return rows[a].GameDate.Before(rows[b].GameDate)
		}
		if rows[a].PlayerID != rows[b].PlayerID {
			return rows[a].PlayerID < rows[b].PlayerID
		}
		return rows[a].GameID < rows[b].GameID
	})
}

func countMissing(rows []playergame.PlayerGame) int {
	total := 0
	for i := range rows {
		total += len(rows[i].Missing)
	}
	return total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
