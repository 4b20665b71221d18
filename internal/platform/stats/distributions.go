package stats

import "math"

// NormalCDF returns P(Z <= z) for the standard normal distribution.
func NormalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

// StudentTPValue returns the two-sided p-value for a t statistic with
// df degrees of freedom.
func StudentTPValue(t, df float64) float64 {
	if df <= 0 || math.IsNaN(t) {
		return math.NaN()
	}
	x := df / (df + t*t)
	return clampProbability(RegIncompleteBeta(df/2, 0.5, x))
}

// FSurvival returns P(F >= f) for an F distribution with df1 and df2
// degrees of freedom.
func FSurvival(f, df1, df2 float64) float64 {
	if f <= 0 {
		return 1
	}
	x := df2 / (df2 + df1*f)
	return clampProbability(RegIncompleteBeta(df2/2, df1/2, x))
}

// ChiSquare2Survival returns P(X >= x) for a chi-square distribution
// with two degrees of freedom, which has the closed form exp(-x/2).
func ChiSquare2Survival(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return math.Exp(-x / 2)
}

// WelchDF returns the Welch-Satterthwaite degrees of freedom for two
// samples with the given variances and sizes.
func WelchDF(v1 float64, n1 int, v2 float64, n2 int) float64 {
	f1 := v1 / float64(n1)
	f2 := v2 / float64(n2)
	denom := f1*f1/float64(n1-1) + f2*f2/float64(n2-1)
	if denom == 0 {
		return math.NaN()
	}
	return (f1 + f2) * (f1 + f2) / denom
}

// RegIncompleteBeta computes the regularized incomplete beta function
// I_x(a, b) by continued fraction.
func RegIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lnFront := lgamma(a+b) - lgamma(a) - lgamma(b) + a*math.Log(x) + b*math.Log(1-x)
	front := math.Exp(lnFront)

	// The continued fraction converges fastest for x < (a+1)/(a+b+2);
	// use the symmetry relation otherwise.
	if x < (a+1)/(a+b+2) {
		return front * betaContinuedFraction(a, b, x) / a
	}
	return 1 - front*betaContinuedFraction(b, a, 1-x)/b
}

// betaContinuedFraction evaluates the continued fraction for the
// incomplete beta function by the modified Lentz method.
func betaContinuedFraction(a, b, x float64) float64 {
	const (
		maxIterations = 300
		epsilon       = 3e-14
		tiny          = 1e-300
	)

	qab := a + b
	qap := a + 1
	qam := a - 1

	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIterations; m++ {
		fm := float64(m)
		m2 := 2 * fm

		numerator := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + numerator*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + numerator/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c

		numerator = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + numerator*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + numerator/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		delta := d * c
		h *= delta

		if math.Abs(delta-1) < epsilon {
			break
		}
	}

	return h
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

func clampProbability(p float64) float64 {
	if math.IsNaN(p) {
		return p
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
