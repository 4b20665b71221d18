package analysis

import "time"

// Report kinds.
const (
	KindEDA        = "eda"
	KindHypothesis = "hypothesis"
	KindCleaning   = "cleaning"
)

// Column kinds for EDA summaries.
const (
	ColumnNumeric = "numeric"
	ColumnText    = "text"
	ColumnBool    = "bool"
	ColumnDate    = "date"
)

// ColumnSummary is the per-column descriptive block of an EDA run.
type ColumnSummary struct {
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	Count      int     `json:"count"`
	Missing    int     `json:"missing"`
	MissingPct float64 `json:"missing_pct"`
	Distinct   int     `json:"distinct,omitempty"`

	Mean     float64 `json:"mean,omitempty"`
	Std      float64 `json:"std,omitempty"`
	Min      float64 `json:"min,omitempty"`
	Q1       float64 `json:"q1,omitempty"`
	Median   float64 `json:"median,omitempty"`
	Q3       float64 `json:"q3,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Skewness float64 `json:"skewness,omitempty"`
	Kurtosis float64 `json:"kurtosis,omitempty"`

	Outliers int `json:"outliers,omitempty"`
}

// GroupBreakdown is a mean-by-group line of an EDA run.
type GroupBreakdown struct {
	Grouping string  `json:"grouping"`
	Group    string  `json:"group"`
	Metric   string  `json:"metric"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
}

// CorrelationPair is one cell of the EDA correlation matrix.
type CorrelationPair struct {
	A string  `json:"a"`
	B string  `json:"b"`
	R float64 `json:"r"`
}

// Leader is one row of the top-performers block.
type Leader struct {
	PlayerName string  `json:"player_name"`
	Games      int     `json:"games"`
	MeanPoints float64 `json:"mean_points"`
}

// EDASummary is the full result of an exploratory run over a dataset.
type EDASummary struct {
	DatasetID    string            `json:"dataset_id"`
	RowCount     int               `json:"row_count"`
	ColumnCount  int               `json:"column_count"`
	Seasons      []int             `json:"seasons"`
	Columns      []ColumnSummary   `json:"columns"`
	Breakdowns   []GroupBreakdown  `json:"breakdowns"`
	Correlations []CorrelationPair `json:"correlations"`
	Leaders      []Leader          `json:"leaders"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// AssumptionCheck is one precondition probe of a hypothesis test.
type AssumptionCheck struct {
	Name      string  `json:"name"`
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Satisfied bool    `json:"satisfied"`
}

// HypothesisResult is one complete two-group comparison.
type HypothesisResult struct {
	Name     string `json:"name"`
	Metric   string `json:"metric"`
	Grouping string `json:"grouping"`

	GroupA      string  `json:"group_a"`
	GroupB      string  `json:"group_b"`
	SampleSizeA int     `json:"sample_size_a"`
	SampleSizeB int     `json:"sample_size_b"`
	MeanA       float64 `json:"mean_a"`
	MeanB       float64 `json:"mean_b"`
	StdA        float64 `json:"std_a"`
	StdB        float64 `json:"std_b"`
	Difference  float64 `json:"difference"`

	TestUsed   string  `json:"test_used"`
	TStatistic float64 `json:"t_statistic"`
	DF         float64 `json:"df"`
	PValue     float64 `json:"p_value"`

	UStatistic float64 `json:"u_statistic"`
	UPValue    float64 `json:"u_p_value"`

	CohensD    float64 `json:"cohens_d"`
	EffectSize string  `json:"effect_size"`

	Assumptions []AssumptionCheck `json:"assumptions"`

	Alpha       float64 `json:"alpha"`
	Significant bool    `json:"significant"`
	Note        string  `json:"note,omitempty"`
}

// HypothesisSummary is the result of a full testing run.
type HypothesisSummary struct {
	DatasetID   string             `json:"dataset_id"`
	Alpha       float64            `json:"alpha"`
	Results     []HypothesisResult `json:"results"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// CleaningReport summarizes one run of the cleaning pipeline.
type CleaningReport struct {
	DatasetID     string         `json:"dataset_id"`
	OriginalRows  int            `json:"original_rows"`
	CleanedRows   int            `json:"cleaned_rows"`
	RowsRemoved   int            `json:"rows_removed"`
	MissingBefore int            `json:"missing_before"`
	MissingAfter  int            `json:"missing_after"`
	Issues        map[string]int `json:"issues"`
	Outliers      map[string]int `json:"outliers"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// Report is a persisted analysis artifact: the rendered plain-text
// report plus its JSON payload.
type Report struct {
	ID          string
	DatasetID   string
	Kind        string
	Text        string
	Payload     []byte
	GeneratedAt time.Time
}
