package stats

import (
	"math"
	"sort"
)

// Mean computes the average of a slice. Returns NaN for an empty slice.
func Mean(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(n)
}

// Variance computes the sample variance (n-1 denominator).
func Variance(x []float64) float64 {
	n := len(x)
	if n < 2 {
		return math.NaN()
	}
	mean := Mean(x)
	ss := 0.0
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return ss / float64(n-1)
}

// Std computes the sample standard deviation.
func Std(x []float64) float64 {
	return math.Sqrt(Variance(x))
}

// Sum returns the sum of all elements in the slice.
func Sum(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	min, max := x[0], x[0]
	for i := 1; i < len(x); i++ {
		if x[i] < min {
			min = x[i]
		} else if x[i] > max {
			max = x[i]
		}
	}
	return min, max
}

// Quantile returns the q-th quantile (0 <= q <= 1) using linear
// interpolation between closest ranks. Allocates a sorted copy.
func Quantile(x []float64, q float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	return quantileSorted(cp, q)
}

// Quantiles returns several quantiles from a single sorted copy.
func Quantiles(x []float64, qs ...float64) []float64 {
	out := make([]float64, len(qs))
	n := len(x)
	if n == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	for i, q := range qs {
		out[i] = quantileSorted(cp, q)
	}
	return out
}

func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Median returns the median value of the slice.
func Median(x []float64) float64 {
	return Quantile(x, 0.5)
}

// Skewness computes the adjusted Fisher-Pearson sample skewness.
func Skewness(x []float64) float64 {
	n := float64(len(x))
	if n < 3 {
		return math.NaN()
	}
	mean := Mean(x)
	m2, m3 := 0.0, 0.0
	for _, v := range x {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}
	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// Kurtosis computes the excess kurtosis (normal distribution = 0).
func Kurtosis(x []float64) float64 {
	n := float64(len(x))
	if n < 4 {
		return math.NaN()
	}
	mean := Mean(x)
	m2, m4 := 0.0, 0.0
	for _, v := range x {
		d := v - mean
		dd := d * d
		m2 += dd
		m4 += dd * dd
	}
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return 0
	}
	return m4/(m2*m2) - 3
}

// PearsonR computes the Pearson correlation coefficient of two
// equal-length slices. Returns NaN when either side has zero variance.
func PearsonR(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return math.NaN()
	}
	mx, my := Mean(x), Mean(y)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	return sxy / math.Sqrt(sxx*syy)
}

// IQRBounds returns the (lower, upper) outlier bounds at the given IQR
// multiplier, matching the quartile fence rule.
func IQRBounds(x []float64, k float64) (float64, float64) {
	qs := Quantiles(x, 0.25, 0.75)
	iqr := qs[1] - qs[0]
	return qs[0] - k*iqr, qs[1] + k*iqr
}

// ZScoreBounds returns the (lower, upper) outlier bounds at k standard
// deviations from the mean.
func ZScoreBounds(x []float64, k float64) (float64, float64) {
	mean := Mean(x)
	std := Std(x)
	return mean - k*std, mean + k*std
}
