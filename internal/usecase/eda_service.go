package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/cbratkovics/nba-analytics/internal/domain/analysis"
	"github.com/cbratkovics/nba-analytics/internal/domain/dataset"
	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
	"github.com/cbratkovics/nba-analytics/internal/platform/logging"
	"github.com/cbratkovics/nba-analytics/internal/platform/stats"
)

const (
	leaderMinGames = 10
	leaderTopN     = 10
)

type summaryCache interface {
	GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error)
}

type edaReportWriter interface {
	SaveEDA(ctx context.Context, summary analysis.EDASummary) (analysis.Report, error)
}

type EDAService struct {
	datasetRepo dataset.Repository
	gameRepo    playergame.Repository
	reports     edaReportWriter
	cache       summaryCache
	workers     int
	logger      *logging.Logger
}

func NewEDAService(
	datasetRepo dataset.Repository,
	gameRepo playergame.Repository,
	reports edaReportWriter,
	cache summaryCache,
	workers int,
	logger *logging.Logger,
) *EDAService {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &EDAService{
		datasetRepo: datasetRepo,
		gameRepo:    gameRepo,
		reports:     reports,
		cache:       cache,
		workers:     workers,
		logger:      logger,
	}
}

// Summarize builds the exploratory summary for a dataset. Results are
// cached per dataset until the next cleaning run invalidates them.
func (s *EDAService) Summarize(ctx context.Context, datasetID string) (analysis.EDASummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EDAService.Summarize")
	defer span.End()

	datasetID = strings.TrimSpace(datasetID)
	if datasetID == "" {
		return analysis.EDASummary{}, fmt.Errorf("%w: dataset id is required", ErrInvalidInput)
	}

	if s.cache == nil {
		return s.build(ctx, datasetID)
	}

	out, err := s.cache.GetOrLoad(ctx, "dataset:"+datasetID+":eda", func(ctx context.Context) (any, error) {
		return s.build(ctx, datasetID)
	})
	if err != nil {
		return analysis.EDASummary{}, err
	}
	summary, ok := out.(analysis.EDASummary)
	if !ok {
		return analysis.EDASummary{}, fmt.Errorf("unexpected cached summary type %T", out)
	}
	return summary, nil
}

func (s *EDAService) build(ctx context.Context, datasetID string) (analysis.EDASummary, error) {
	item, found, err := s.datasetRepo.GetByID(ctx, datasetID)
	if err != nil {
		return analysis.EDASummary{}, fmt.Errorf("get dataset: %w", err)
	}
	if !found {
		return analysis.EDASummary{}, fmt.Errorf("%w: dataset %s", ErrNotFound, datasetID)
	}

	rows, err := s.gameRepo.ListByDataset(ctx, datasetID)
	if err != nil {
		return analysis.EDASummary{}, fmt.Errorf("list dataset rows: %w", err)
	}
	if len(rows) == 0 {
		return analysis.EDASummary{}, fmt.Errorf("%w: dataset %s has no rows", ErrInvalidInput, datasetID)
	}

	seasons, err := s.gameRepo.ListSeasons(ctx, datasetID)
	if err != nil {
		return analysis.EDASummary{}, fmt.Errorf("list dataset seasons: %w", err)
	}

	columns, err := s.summarizeColumns(rows)
	if err != nil {
		return analysis.EDASummary{}, err
	}

	summary := analysis.EDASummary{
		DatasetID:    datasetID,
		RowCount:     len(rows),
		ColumnCount:  item.ColumnCount,
		Seasons:      seasons,
		Columns:      columns,
		Breakdowns:   buildBreakdowns(rows),
		Correlations: buildCorrelations(rows),
		Leaders:      buildLeaders(rows),
		GeneratedAt:  time.Now().UTC(),
	}

	// Each fresh build is persisted; cache hits reuse the stored report.
	if s.reports != nil {
		if _, err := s.reports.SaveEDA(ctx, summary); err != nil {
			return analysis.EDASummary{}, fmt.Errorf("save eda report: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "eda summary built", "dataset_id", datasetID, "rows", len(rows))
	return summary, nil
}

// summarizeColumns runs one pool task per column. Output order follows
// the schema regardless of completion order.
func (s *EDAService) summarizeColumns(rows []playergame.PlayerGame) ([]analysis.ColumnSummary, error) {
	specs := columnSpecs()
	out := make([]analysis.ColumnSummary, len(specs))

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, spec := range specs {
		i, spec := i, spec
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			out[i] = spec.summarize(rows)
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit column task: %w", err)
		}
	}
	wg.Wait()

	return out, nil
}

type columnSpec struct {
	name      string
	summarize func(rows []playergame.PlayerGame) analysis.ColumnSummary
}

// NumericColumn returns the accessor for a named numeric column, used
// by both the EDA summaries and the hypothesis grouping.
func NumericColumn(name string) (func(*playergame.PlayerGame) float64, bool) {
	switch name {
	case "min":
		return func(g *playergame.PlayerGame) float64 { return g.MinutesPlayed }, true
	case "pts":
		return func(g *playergame.PlayerGame) float64 { return g.Points }, true
	case "reb":
		return func(g *playergame.PlayerGame) float64 { return g.Rebounds }, true
	case "oreb":
		return func(g *playergame.PlayerGame) float64 { return g.OffReb }, true
	case "dreb":
		return func(g *playergame.PlayerGame) float64 { return g.DefReb }, true
	case "ast":
		return func(g *playergame.PlayerGame) float64 { return g.Assists }, true
	case "stl":
		return func(g *playergame.PlayerGame) float64 { return g.Steals }, true
	case "blk":
		return func(g *playergame.PlayerGame) float64 { return g.Blocks }, true
	case "turnover":
		return func(g *playergame.PlayerGame) float64 { return g.Turnovers }, true
	case "pf":
		return func(g *playergame.PlayerGame) float64 { return g.Fouls }, true
	case "fgm":
		return func(g *playergame.PlayerGame) float64 { return g.FGM }, true
	case "fga":
		return func(g *playergame.PlayerGame) float64 { return g.FGA }, true
	case "fg_pct":
		return func(g *playergame.PlayerGame) float64 { return g.FGPct }, true
	case "fg3m":
		return func(g *playergame.PlayerGame) float64 { return g.FG3M }, true
	case "fg3a":
		return func(g *playergame.PlayerGame) float64 { return g.FG3A }, true
	case "fg3_pct":
		return func(g *playergame.PlayerGame) float64 { return g.FG3Pct }, true
	case "ft_pct":
		return func(g *playergame.PlayerGame) float64 { return g.FTPct }, true
	case "ftm":
		return func(g *playergame.PlayerGame) float64 { return g.FTM }, true
	case "fta":
		return func(g *playergame.PlayerGame) float64 { return g.FTA }, true
	case "rest_days":
		return func(g *playergame.PlayerGame) float64 { return float64(g.RestDays) }, true
	default:
		return nil, false
	}
}

var numericColumnOrder = []string{
	"min", "pts", "reb", "oreb", "dreb", "ast", "stl", "blk", "turnover", "pf",
	"fgm", "fga", "fg_pct", "fg3m", "fg3a", "fg3_pct", "ftm", "fta", "ft_pct", "rest_days",
}

func columnSpecs() []columnSpec {
	specs := make([]columnSpec, 0, len(numericColumnOrder)+5)
	for _, name := range numericColumnOrder {
		name := name
		get, _ := NumericColumn(name)
		specs = append(specs, columnSpec{
			name: name,
			summarize: func(rows []playergame.PlayerGame) analysis.ColumnSummary {
				return summarizeNumeric(name, rows, get)
			},
		})
	}

	specs = append(specs,
		columnSpec{name: "player_name", summarize: func(rows []playergame.PlayerGame) analysis.ColumnSummary {
			return summarizeText("player_name", rows, func(g *playergame.PlayerGame) string { return g.PlayerFullName })
		}},
		columnSpec{name: "position", summarize: func(rows []playergame.PlayerGame) analysis.ColumnSummary {
			return summarizeText("position", rows, func(g *playergame.PlayerGame) string { return g.PositionStd })
		}},
		columnSpec{name: "team_abbreviation", summarize: func(rows []playergame.PlayerGame) analysis.ColumnSummary {
			return summarizeText("team_abbreviation", rows, func(g *playergame.PlayerGame) string { return g.TeamAbbreviation })
		}},
		columnSpec{name: "home_away", summarize: func(rows []playergame.PlayerGame) analysis.ColumnSummary {
			return summarizeBool("home_away", rows, func(g *playergame.PlayerGame) bool { return g.Home })
		}},
		columnSpec{name: "postseason", summarize: func(rows []playergame.PlayerGame) analysis.ColumnSummary {
			return summarizeBool("postseason", rows, func(g *playergame.PlayerGame) bool { return g.Postseason })
		}},
		columnSpec{name: "game_date", summarize: summarizeGameDate},
	)
	return specs
}

func summarizeNumeric(name string, rows []playergame.PlayerGame, get func(*playergame.PlayerGame) float64) analysis.ColumnSummary {
	values := make([]float64, len(rows))
	for i := range rows {
		values[i] = get(&rows[i])
	}

	qs := stats.Quantiles(values, 0, 0.25, 0.5, 0.75, 1)
	summary := analysis.ColumnSummary{
		Name:     name,
		Kind:     analysis.ColumnNumeric,
		Count:    len(values),
		Mean:     stats.Mean(values),
		Std:      stats.Std(values),
		Min:      qs[0],
		Q1:       qs[1],
		Median:   qs[2],
		Q3:       qs[3],
		Max:      qs[4],
		Skewness: sanitize(stats.Skewness(values)),
		Kurtosis: sanitize(stats.Kurtosis(values)),
	}

	lo, hi := stats.IQRBounds(values, 1.5)
	for _, v := range values {
		if v < lo || v > hi {
			summary.Outliers++
		}
	}
	for i := range rows {
		if rows[i].MissingField(name) {
			summary.Missing++
		}
	}
	if len(values) > 0 {
		summary.MissingPct = 100 * float64(summary.Missing) / float64(len(values))
	}
	return summary
}

func summarizeText(name string, rows []playergame.PlayerGame, get func(*playergame.PlayerGame) string) analysis.ColumnSummary {
	distinct := make(map[string]bool)
	missing := 0
	for i := range rows {
		v := get(&rows[i])
		if v == "" {
			missing++
			continue
		}
		distinct[v] = true
	}

	summary := analysis.ColumnSummary{
		Name:     name,
		Kind:     analysis.ColumnText,
		Count:    len(rows),
		Missing:  missing,
		Distinct: len(distinct),
	}
	if len(rows) > 0 {
		summary.MissingPct = 100 * float64(missing) / float64(len(rows))
	}
	return summary
}

func summarizeBool(name string, rows []playergame.PlayerGame, get func(*playergame.PlayerGame) bool) analysis.ColumnSummary {
	trueCount := 0
	for i := range rows {
		if get(&rows[i]) {
			trueCount++
		}
	}

	summary := analysis.ColumnSummary{
		Name:     name,
		Kind:     analysis.ColumnBool,
		Count:    len(rows),
		Distinct: 2,
	}
	if len(rows) > 0 {
		// Mean doubles as the share of true observations.
		summary.Mean = float64(trueCount) / float64(len(rows))
	}
	return summary
}

func summarizeGameDate(rows []playergame.PlayerGame) analysis.ColumnSummary {
	distinct := make(map[string]bool)
	missing := 0
	for i := range rows {
		if rows[i].GameDate.IsZero() {
			missing++
			continue
		}
		distinct[rows[i].GameDate.Format("2006-01-02")] = true
	}

	summary := analysis.ColumnSummary{
		Name:     "game_date",
		Kind:     analysis.ColumnDate,
		Count:    len(rows),
		Missing:  missing,
		Distinct: len(distinct),
	}
	if len(rows) > 0 {
		summary.MissingPct = 100 * float64(missing) / float64(len(rows))
	}
	return summary
}

var breakdownMetrics = []string{"pts", "reb", "ast"}

func buildBreakdowns(rows []playergame.PlayerGame) []analysis.GroupBreakdown {
	groupings := []struct {
		name  string
		group func(*playergame.PlayerGame) string
	}{
		{"season", func(g *playergame.PlayerGame) string { return strconv.Itoa(g.Season) }},
		{"home_away", func(g *playergame.PlayerGame) string {
			if g.Home {
				return "home"
			}
			return "away"
		}},
		{"rest", func(g *playergame.PlayerGame) string { return RestBucket(g.RestDays) }},
		{"postseason", func(g *playergame.PlayerGame) string {
			if g.Postseason {
				return "postseason"
			}
			return "regular"
		}},
	}

	var out []analysis.GroupBreakdown
	for _, grouping := range groupings {
		for _, metric := range breakdownMetrics {
			get, _ := NumericColumn(metric)
			sums := make(map[string]float64)
			counts := make(map[string]int)
			for i := range rows {
				key := grouping.group(&rows[i])
				sums[key] += get(&rows[i])
				counts[key]++
			}

			groups := make([]string, 0, len(sums))
			for key := range sums {
				groups = append(groups, key)
			}
			sort.Strings(groups)
			for _, key := range groups {
				out = append(out, analysis.GroupBreakdown{
					Grouping: grouping.name,
					Group:    key,
					Metric:   metric,
					Count:    counts[key],
					Mean:     sums[key] / float64(counts[key]),
				})
			}
		}
	}
	return out
}

// RestBucket maps days of rest onto the two analysis buckets.
func RestBucket(days int) string {
	if days <= 1 {
		return "0-1 days"
	}
	return "2+ days"
}

var correlationColumns = []string{"min", "pts", "reb", "ast", "stl", "blk", "turnover", "fga", "fg3a", "fta"}

func buildCorrelations(rows []playergame.PlayerGame) []analysis.CorrelationPair {
	vectors := make(map[string][]float64, len(correlationColumns))
	for _, name := range correlationColumns {
		get, _ := NumericColumn(name)
		values := make([]float64, len(rows))
		for i := range rows {
			values[i] = get(&rows[i])
		}
		vectors[name] = values
	}

	var out []analysis.CorrelationPair
	for i := 0; i < len(correlationColumns); i++ {
		for j := i + 1; j < len(correlationColumns); j++ {
			a, b := correlationColumns[i], correlationColumns[j]
			// Constant columns have no defined correlation; report zero
			// so the payload stays JSON-encodable.
			out = append(out, analysis.CorrelationPair{
				A: a,
				B: b,
				R: sanitize(stats.PearsonR(vectors[a], vectors[b])),
			})
		}
	}
	return out
}

func buildLeaders(rows []playergame.PlayerGame) []analysis.Leader {
	type acc struct {
		name  string
		games int
		total float64
	}
	byPlayer := make(map[int64]*acc)
	for i := range rows {
		a := byPlayer[rows[i].PlayerID]
		if a == nil {
			a = &acc{name: rows[i].PlayerFullName}
			byPlayer[rows[i].PlayerID] = a
		}
		if a.name == "" {
			a.name = rows[i].PlayerFullName
		}
		a.games++
		a.total += rows[i].Points
	}

	leaders := make([]analysis.Leader, 0, len(byPlayer))
	for _, a := range byPlayer {
		if a.games < leaderMinGames {
			continue
		}
		leaders = append(leaders, analysis.Leader{
			PlayerName: a.name,
			Games:      a.games,
			MeanPoints: a.total / float64(a.games),
		})
	}
	sort.Slice(leaders, func(i, j int) bool {
		if leaders[i].MeanPoints != leaders[j].MeanPoints {
			return leaders[i].MeanPoints > leaders[j].MeanPoints
		}
		return leaders[i].PlayerName < leaders[j].PlayerName
	})
	if len(leaders) > leaderTopN {
		leaders = leaders[:leaderTopN]
	}
	return leaders
}
