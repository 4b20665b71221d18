package stats

import "sort"

// MidRanks assigns 1-based ranks to the combined values, giving tied
// values the average of the ranks they span. It also returns the tie
// correction term sum(t^3 - t) over all tie groups, which the
// Mann-Whitney normal approximation needs.
func MidRanks(values []float64) ([]float64, float64) {
	n := len(values)
	ranks := make([]float64, n)
	if n == 0 {
		return ranks, 0
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return values[order[i]] < values[order[j]]
	})

	tieTerm := 0.0
	i := 0
	for i < n {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		// Average rank across the tie group [i, j].
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		if size := float64(j - i + 1); size > 1 {
			tieTerm += size*size*size - size
		}
		i = j + 1
	}

	return ranks, tieTerm
}
