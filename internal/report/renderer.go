package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/cbratkovics/nba-analytics/internal/domain/analysis"
)

const (
	edaTitle        = "NBA PLAYER PERFORMANCE - EXPLORATORY DATA ANALYSIS"
	hypothesisTitle = "NBA PLAYER PERFORMANCE - HYPOTHESIS TESTING"
	cleaningTitle   = "NBA PLAYER PERFORMANCE - DATA CLEANING"
	ruleWidth       = 72
)

// RenderEDA produces the plain-text exploratory report.
func RenderEDA(summary analysis.EDASummary) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	title(buf, edaTitle)

	section(buf, "DATASET OVERVIEW")
	line(buf, "Dataset:      %s", summary.DatasetID)
	line(buf, "Rows:         %d", summary.RowCount)
	line(buf, "Columns:      %d", summary.ColumnCount)
	line(buf, "Seasons:      %s", formatSeasons(summary.Seasons))
	line(buf, "Generated at: %s", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	section(buf, "MISSING VALUES")
	anyMissing := false
	for _, col := range summary.Columns {
		if col.Missing == 0 {
			continue
		}
		anyMissing = true
		line(buf, "%-20s %6d (%.2f%%)", col.Name, col.Missing, col.MissingPct)
	}
	if !anyMissing {
		line(buf, "No missing values.")
	}

	section(buf, "DESCRIPTIVE STATISTICS")
	line(buf, "%-12s %8s %8s %8s %8s %8s %8s %8s", "column", "mean", "std", "min", "q1", "median", "q3", "max")
	for _, col := range summary.Columns {
		if col.Kind != analysis.ColumnNumeric {
			continue
		}
		line(buf, "%-12s %8.2f %8.2f %8.2f %8.2f %8.2f %8.2f %8.2f",
			col.Name, col.Mean, col.Std, col.Min, col.Q1, col.Median, col.Q3, col.Max)
	}

	section(buf, "GROUP BREAKDOWNS")
	lastGrouping := ""
	for _, b := range summary.Breakdowns {
		if b.Grouping != lastGrouping {
			if lastGrouping != "" {
				newline(buf)
			}
			line(buf, "By %s:", b.Grouping)
			lastGrouping = b.Grouping
		}
		line(buf, "  %-12s %-10s n=%-8d mean=%.2f", b.Group, b.Metric, b.Count, b.Mean)
	}

	section(buf, "CORRELATIONS")
	strongest := append([]analysis.CorrelationPair(nil), summary.Correlations...)
	sort.SliceStable(strongest, func(i, j int) bool {
		return abs(strongest[i].R) > abs(strongest[j].R)
	})
	limit := min(15, len(strongest))
	for _, pair := range strongest[:limit] {
		line(buf, "%-10s vs %-10s r=%+.3f", pair.A, pair.B, pair.R)
	}

	section(buf, "OUTLIER SUMMARY")
	anyOutliers := false
	for _, col := range summary.Columns {
		if col.Outliers == 0 {
			continue
		}
		anyOutliers = true
		line(buf, "%-12s %6d outliers (IQR rule)", col.Name, col.Outliers)
	}
	if !anyOutliers {
		line(buf, "No outliers detected.")
	}

	if len(summary.Leaders) > 0 {
		section(buf, "SCORING LEADERS")
		line(buf, "%-28s %8s %10s", "player", "games", "avg pts")
		for _, leader := range summary.Leaders {
			line(buf, "%-28s %8d %10.2f", leader.PlayerName, leader.Games, leader.MeanPoints)
		}
	}

	return buf.String()
}

// RenderHypothesis produces the plain-text testing report.
func RenderHypothesis(summary analysis.HypothesisSummary) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	title(buf, hypothesisTitle)
	line(buf, "Dataset:      %s", summary.DatasetID)
	line(buf, "Alpha:        %.3f", summary.Alpha)
	line(buf, "Tests:        %d", len(summary.Results))
	line(buf, "Generated at: %s", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	for i, r := range summary.Results {
		section(buf, fmt.Sprintf("TEST %d: %s", i+1, strings.ToUpper(r.Name)))
		line(buf, "Groups:       %s (n=%d) vs %s (n=%d)", r.GroupA, r.SampleSizeA, r.GroupB, r.SampleSizeB)
		line(buf, "Means:        %.3f vs %.3f (difference %+.3f)", r.MeanA, r.MeanB, r.Difference)
		line(buf, "Std devs:     %.3f vs %.3f", r.StdA, r.StdB)
		for _, check := range r.Assumptions {
			verdict := "satisfied"
			if !check.Satisfied {
				verdict = "violated"
			}
			line(buf, "Assumption:   %-20s stat=%9.4f p=%.4f (%s)", check.Name, check.Statistic, check.PValue, verdict)
		}
		line(buf, "Test used:    %s", r.TestUsed)
		line(buf, "t-statistic:  %.4f (df=%.1f), p=%.4f", r.TStatistic, r.DF, r.PValue)
		line(buf, "Mann-Whitney: U=%.1f, p=%.4f", r.UStatistic, r.UPValue)
		line(buf, "Cohen's d:    %.4f (%s)", r.CohensD, r.EffectSize)
		if r.Note != "" {
			line(buf, "Note:         %s", r.Note)
		}
		if r.Significant {
			line(buf, "Verdict:      SIGNIFICANT at alpha=%.3f", r.Alpha)
		} else {
			line(buf, "Verdict:      not significant at alpha=%.3f", r.Alpha)
		}
	}

	return buf.String()
}

// RenderCleaning produces the plain-text cleaning report.
func RenderCleaning(report analysis.CleaningReport) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	title(buf, cleaningTitle)
	line(buf, "Dataset:      %s", report.DatasetID)
	line(buf, "Rows:         %d -> %d (%d removed)", report.OriginalRows, report.CleanedRows, report.RowsRemoved)
	line(buf, "Missing:      %d -> %d", report.MissingBefore, report.MissingAfter)
	line(buf, "Generated at: %s", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	section(buf, "ISSUES FOUND")
	if len(report.Issues) == 0 {
		line(buf, "No issues found.")
	} else {
		for _, name := range sortedKeys(report.Issues) {
			line(buf, "%-28s %6d", name, report.Issues[name])
		}
	}

	section(buf, "OUTLIERS")
	if len(report.Outliers) == 0 {
		line(buf, "No outliers handled.")
	} else {
		for _, name := range sortedKeys(report.Outliers) {
			line(buf, "%-28s %6d", name, report.Outliers[name])
		}
	}

	return buf.String()
}

func title(buf *bytebufferpool.ByteBuffer, text string) {
	rule := strings.Repeat("=", ruleWidth)
	line(buf, "%s", rule)
	line(buf, "%s", text)
	line(buf, "%s", rule)
}

func section(buf *bytebufferpool.ByteBuffer, name string) {
	newline(buf)
	line(buf, "%s", name)
	line(buf, "%s", strings.Repeat("-", ruleWidth))
}

func line(buf *bytebufferpool.ByteBuffer, format string, args ...any) {
	fmt.Fprintf(buf, format, args...)
	newline(buf)
}

func newline(buf *bytebufferpool.ByteBuffer) {
	buf.WriteByte('\n')
}

func formatSeasons(seasons []int) string {
	if len(seasons) == 0 {
		return "unknown"
	}
	parts := make([]string, len(seasons))
	for i, s := range seasons {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
