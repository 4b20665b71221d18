package usecase

import (
	"context"
	"fmt"
	"math"
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

// Groupings supported by the hypothesis runner.
const (
	GroupingHomeAway   = "home_away"
	GroupingRest       = "rest"
	GroupingPostseason = "postseason"
	GroupingPosition   = "position"
)

var suiteMetrics = []string{"pts", "reb", "ast", "fg_pct"}
var suiteGroupings = []string{GroupingHomeAway, GroupingRest, GroupingPostseason}

type hypothesisReportWriter interface {
	SaveHypothesis(ctx context.Context, summary analysis.HypothesisSummary) (analysis.Report, error)
}

type HypothesisService struct {
	datasetRepo dataset.Repository
	gameRepo    playergame.Repository
	reports     hypothesisReportWriter
	alpha       float64
	workers     int
	logger      *logging.Logger
}

func NewHypothesisService(
	datasetRepo dataset.Repository,
	gameRepo playergame.Repository,
	reports hypothesisReportWriter,
	alpha float64,
	workers int,
	logger *logging.Logger,
) *HypothesisService {
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.05
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &HypothesisService{
		datasetRepo: datasetRepo,
		gameRepo:    gameRepo,
		reports:     reports,
		alpha:       alpha,
		workers:     workers,
		logger:      logger,
	}
}

// HypothesisInput selects a single comparison. Zero values fall back
// to defaults, and an empty metric means "run the built-in suite".
type HypothesisInput struct {
	Metric    string
	Grouping  string
	PositionA string
	PositionB string
	Alpha     float64
}

// RunSuite executes the built-in comparisons and persists the
// resulting report.
func (s *HypothesisService) RunSuite(ctx context.Context, datasetID string, alpha float64) (analysis.HypothesisSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HypothesisService.RunSuite")
	defer span.End()

	if alpha == 0 {
		alpha = s.alpha
	}
	if alpha <= 0 || alpha >= 1 {
		return analysis.HypothesisSummary{}, fmt.Errorf("%w: alpha must be in (0, 1)", ErrInvalidInput)
	}

	rows, err := s.loadRows(ctx, datasetID)
	if err != nil {
		return analysis.HypothesisSummary{}, err
	}

	inputs := make([]HypothesisInput, 0, len(suiteMetrics)*len(suiteGroupings))
	for _, grouping := range suiteGroupings {
		for _, metric := range suiteMetrics {
			inputs = append(inputs, HypothesisInput{Metric: metric, Grouping: grouping, Alpha: alpha})
		}
	}

	results := make([]analysis.HypothesisResult, len(inputs))
	errs := make([]error, len(inputs))

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return analysis.HypothesisSummary{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, input := range inputs {
		i, input := i, input
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = runComparison(rows, input)
		}); err != nil {
			wg.Done()
			return analysis.HypothesisSummary{}, fmt.Errorf("submit hypothesis task: %w", err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return analysis.HypothesisSummary{}, err
		}
	}

	summary := analysis.HypothesisSummary{
		DatasetID:   datasetID,
		Alpha:       alpha,
		Results:     results,
		GeneratedAt: time.Now().UTC(),
	}

	if s.reports != nil {
		if _, err := s.reports.SaveHypothesis(ctx, summary); err != nil {
			return analysis.HypothesisSummary{}, fmt.Errorf("save hypothesis report: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "hypothesis suite completed",
		"dataset_id", datasetID,
		"tests", len(results),
		"alpha", alpha,
	)
	return summary, nil
}

// RunTest executes one comparison without persisting a report.
func (s *HypothesisService) RunTest(ctx context.Context, datasetID string, input HypothesisInput) (analysis.HypothesisResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HypothesisService.RunTest")
	defer span.End()

	if input.Alpha == 0 {
		input.Alpha = s.alpha
	}
	if input.Alpha <= 0 || input.Alpha >= 1 {
		return analysis.HypothesisResult{}, fmt.Errorf("%w: alpha must be in (0, 1)", ErrInvalidInput)
	}

	rows, err := s.loadRows(ctx, datasetID)
	if err != nil {
		return analysis.HypothesisResult{}, err
	}
	return runComparison(rows, input)
}

func (s *HypothesisService) loadRows(ctx context.Context, datasetID string) ([]playergame.PlayerGame, error) {
	datasetID = strings.TrimSpace(datasetID)
	if datasetID == "" {
		return nil, fmt.Errorf("%w: dataset id is required", ErrInvalidInput)
	}

	_, found, err := s.datasetRepo.GetByID(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: dataset %s", ErrNotFound, datasetID)
	}

	rows, err := s.gameRepo.ListByDataset(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("list dataset rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: dataset %s has no rows", ErrInvalidInput, datasetID)
	}
	return rows, nil
}

func runComparison(rows []playergame.PlayerGame, input HypothesisInput) (analysis.HypothesisResult, error) {
	metric := strings.ToLower(strings.TrimSpace(input.Metric))
	get, ok := NumericColumn(metric)
	if !ok {
		return analysis.HypothesisResult{}, fmt.Errorf("%w: unknown metric %q", ErrInvalidInput, input.Metric)
	}

	groupA, groupB, a, b, err := splitGroups(rows, input, get)
	if err != nil {
		return analysis.HypothesisResult{}, err
	}
	if len(a) < 2 || len(b) < 2 {
		return analysis.HypothesisResult{}, fmt.Errorf(
			"%w: group sizes %d and %d are too small for %s by %s",
			ErrInvalidInput, len(a), len(b), metric, input.Grouping,
		)
	}

	result := analysis.HypothesisResult{
		Name:        fmt.Sprintf("%s by %s", metric, input.Grouping),
		Metric:      metric,
		Grouping:    input.Grouping,
		GroupA:      groupA,
		GroupB:      groupB,
		SampleSizeA: len(a),
		SampleSizeB: len(b),
		MeanA:       stats.Mean(a),
		MeanB:       stats.Mean(b),
		StdA:        stats.Std(a),
		StdB:        stats.Std(b),
		Alpha:       input.Alpha,
	}
	result.Difference = result.MeanA - result.MeanB

	jbA := stats.JarqueBera(a)
	jbB := stats.JarqueBera(b)
	levene := stats.LeveneBrownForsythe(a, b)
	result.Assumptions = []analysis.AssumptionCheck{
		{Name: "normality_group_a", Statistic: sanitize(jbA.JB), PValue: sanitize(jbA.P), Satisfied: jbA.P > input.Alpha},
		{Name: "normality_group_b", Statistic: sanitize(jbB.JB), PValue: sanitize(jbB.P), Satisfied: jbB.P > input.Alpha},
		{Name: "equal_variance", Statistic: sanitize(levene.W), PValue: sanitize(levene.P), Satisfied: levene.P > input.Alpha},
	}

	var t stats.TTestResult
	if levene.P > input.Alpha {
		t = stats.PooledTTest(a, b)
		result.TestUsed = "pooled t-test"
	} else {
		t = stats.WelchTTest(a, b)
		result.TestUsed = "welch t-test"
	}

	if math.IsNaN(t.T) {
		result.TStatistic = 0
		result.DF = sanitize(t.DF)
		result.PValue = 1
		result.Note = "both groups have zero variance; t-statistic undefined"
	} else {
		result.TStatistic = t.T
		result.DF = t.DF
		result.PValue = t.P
	}

	u := stats.MannWhitneyU(a, b)
	result.UStatistic = sanitize(u.U)
	result.UPValue = sanitizeP(u.P)

	d := stats.CohensD(a, b)
	result.CohensD = sanitize(d)
	result.EffectSize = stats.EffectSizeLabel(d)

	result.Significant = result.Note == "" && result.PValue < input.Alpha
	return result, nil
}

func splitGroups(
	rows []playergame.PlayerGame,
	input HypothesisInput,
	get func(*playergame.PlayerGame) float64,
) (string, string, []float64, []float64, error) {
	var a, b []float64

	switch strings.ToLower(strings.TrimSpace(input.Grouping)) {
	case GroupingHomeAway:
		for i := range rows {
			if rows[i].Home {
				a = append(a, get(&rows[i]))
			} else {
				b = append(b, get(&rows[i]))
			}
		}
		return "home", "away", a, b, nil

	case GroupingRest:
		for i := range rows {
			if RestBucket(rows[i].RestDays) == "0-1 days" {
				a = append(a, get(&rows[i]))
			} else {
				b = append(b, get(&rows[i]))
			}
		}
		return "0-1 days", "2+ days", a, b, nil

	case GroupingPostseason:
		for i := range rows {
			if rows[i].Postseason {
				b = append(b, get(&rows[i]))
			} else {
				a = append(a, get(&rows[i]))
			}
		}
		return "regular", "postseason", a, b, nil

	case GroupingPosition:
		posA := strings.TrimSpace(input.PositionA)
		posB := strings.TrimSpace(input.PositionB)
		if posA == "" || posB == "" || strings.EqualFold(posA, posB) {
			return "", "", nil, nil, fmt.Errorf("%w: position grouping needs two distinct positions", ErrInvalidInput)
		}
		for i := range rows {
			switch {
			case strings.EqualFold(rows[i].PositionStd, posA):
				a = append(a, get(&rows[i]))
			case strings.EqualFold(rows[i].PositionStd, posB):
				b = append(b, get(&rows[i]))
			}
		}
		return posA, posB, a, b, nil

	default:
		return "", "", nil, nil, fmt.Errorf("%w: unknown grouping %q", ErrInvalidInput, input.Grouping)
	}
}

// sanitize keeps NaN out of JSON payloads.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func sanitizeP(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 1
	}
	return p
}
