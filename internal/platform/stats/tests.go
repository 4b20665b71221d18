package stats

import "math"

// TTestResult holds an independent two-sample t-test outcome.
type TTestResult struct {
	T      float64
	DF     float64
	P      float64
	Pooled bool
}

// PooledTTest runs the classic independent t-test assuming equal
// variances.
func PooledTTest(a, b []float64) TTestResult {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return TTestResult{T: math.NaN(), DF: math.NaN(), P: math.NaN(), Pooled: true}
	}
	v1, v2 := Variance(a), Variance(b)
	df := n1 + n2 - 2
	pooledVar := ((n1-1)*v1 + (n2-1)*v2) / df
	se := math.Sqrt(pooledVar * (1/n1 + 1/n2))
	if se == 0 {
		return TTestResult{T: math.NaN(), DF: df, P: math.NaN(), Pooled: true}
	}
	t := (Mean(a) - Mean(b)) / se
	return TTestResult{T: t, DF: df, P: StudentTPValue(t, df), Pooled: true}
}

// WelchTTest runs the unequal-variance independent t-test with
// Welch-Satterthwaite degrees of freedom.
func WelchTTest(a, b []float64) TTestResult {
	n1, n2 := len(a), len(b)
	if n1 < 2 || n2 < 2 {
		return TTestResult{T: math.NaN(), DF: math.NaN(), P: math.NaN()}
	}
	v1, v2 := Variance(a), Variance(b)
	se := math.Sqrt(v1/float64(n1) + v2/float64(n2))
	if se == 0 {
		return TTestResult{T: math.NaN(), DF: math.NaN(), P: math.NaN()}
	}
	t := (Mean(a) - Mean(b)) / se
	df := WelchDF(v1, n1, v2, n2)
	return TTestResult{T: t, DF: df, P: StudentTPValue(t, df)}
}

// MannWhitneyResult holds a Mann-Whitney U test outcome.
type MannWhitneyResult struct {
	U float64
	Z float64
	P float64
}

// MannWhitneyU runs the two-sided Mann-Whitney U test using the
// tie-corrected, continuity-corrected normal approximation.
func MannWhitneyU(a, b []float64) MannWhitneyResult {
	n1, n2 := len(a), len(b)
	if n1 == 0 || n2 == 0 {
		return MannWhitneyResult{U: math.NaN(), Z: math.NaN(), P: math.NaN()}
	}

	combined := make([]float64, 0, n1+n2)
	combined = append(combined, a...)
	combined = append(combined, b...)
	ranks, tieTerm := MidRanks(combined)

	r1 := 0.0
	for i := 0; i < n1; i++ {
		r1 += ranks[i]
	}

	fn1, fn2 := float64(n1), float64(n2)
	u1 := r1 - fn1*(fn1+1)/2
	u2 := fn1*fn2 - u1
	u := math.Min(u1, u2)

	n := fn1 + fn2
	meanU := fn1 * fn2 / 2
	varU := fn1 * fn2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if varU <= 0 {
		// All observations tied; no evidence either way.
		return MannWhitneyResult{U: u, Z: 0, P: 1}
	}

	z := (u - meanU + 0.5) / math.Sqrt(varU)
	p := clampProbability(2 * NormalCDF(-math.Abs(z)))
	return MannWhitneyResult{U: u, Z: z, P: p}
}

// CohensD computes the standardized mean difference on the pooled
// standard deviation.
func CohensD(a, b []float64) float64 {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return math.NaN()
	}
	v1, v2 := Variance(a), Variance(b)
	pooled := math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2))
	if pooled == 0 {
		return math.NaN()
	}
	return (Mean(a) - Mean(b)) / pooled
}

// EffectSizeLabel maps |d| onto Cohen's conventional magnitude bands.
func EffectSizeLabel(d float64) string {
	abs := math.Abs(d)
	switch {
	case math.IsNaN(abs):
		return "undefined"
	case abs < 0.2:
		return "negligible"
	case abs < 0.5:
		return "small"
	case abs < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// LeveneResult holds a Brown-Forsythe equal-variance test outcome.
type LeveneResult struct {
	W float64
	P float64
}

// LeveneBrownForsythe tests equality of variances across two groups
// using absolute deviations from the group medians.
func LeveneBrownForsythe(a, b []float64) LeveneResult {
	n1, n2 := len(a), len(b)
	if n1 < 2 || n2 < 2 {
		return LeveneResult{W: math.NaN(), P: math.NaN()}
	}

	za := absDeviationsFromMedian(a)
	zb := absDeviationsFromMedian(b)

	m1, m2 := Mean(za), Mean(zb)
	grand := (Sum(za) + Sum(zb)) / float64(n1+n2)

	between := float64(n1)*(m1-grand)*(m1-grand) + float64(n2)*(m2-grand)*(m2-grand)
	within := 0.0
	for _, v := range za {
		within += (v - m1) * (v - m1)
	}
	for _, v := range zb {
		within += (v - m2) * (v - m2)
	}

	df2 := float64(n1 + n2 - 2)
	if within == 0 {
		return LeveneResult{W: 0, P: 1}
	}
	w := between / (within / df2)
	return LeveneResult{W: w, P: FSurvival(w, 1, df2)}
}

func absDeviationsFromMedian(x []float64) []float64 {
	med := Median(x)
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Abs(v - med)
	}
	return out
}

// JarqueBeraResult holds a Jarque-Bera normality test outcome.
type JarqueBeraResult struct {
	JB float64
	P  float64
}

// JarqueBera tests normality from sample skewness and excess kurtosis.
// The statistic follows a chi-square distribution with two degrees of
// freedom under the null.
func JarqueBera(x []float64) JarqueBeraResult {
	n := float64(len(x))
	if n < 4 {
		return JarqueBeraResult{JB: math.NaN(), P: math.NaN()}
	}

	mean := Mean(x)
	m2, m3, m4 := 0.0, 0.0, 0.0
	for _, v := range x {
		d := v - mean
		dd := d * d
		m2 += dd
		m3 += dd * d
		m4 += dd * dd
	}
	m2 /= n
	m3 /= n
	m4 /= n
	if m2 == 0 {
		return JarqueBeraResult{JB: 0, P: 1}
	}

	skew := m3 / math.Pow(m2, 1.5)
	kurt := m4/(m2*m2) - 3
	jb := n / 6 * (skew*skew + kurt*kurt/4)
	return JarqueBeraResult{JB: jb, P: ChiSquare2Survival(jb)}
}
