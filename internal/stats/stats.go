package stats

import (
	"math"
	"sort"
)

// meanEpsilon guards the coefficient-of-variation division; means this
// close to zero report a CV of 0 instead of blowing up.
const meanEpsilon = 1e-6

// Summary is the fixed descriptive-statistics bundle computed from one
// window snapshot. It is a plain value and is never mutated after
// Compute returns it.
type Summary struct {
	Count int

	Min   float64
	Max   float64
	Range float64

	Mean          float64
	Median        float64
	LowerQuartile float64
	UpperQuartile float64
	IQR           float64

	Mode float64

	// StdDev is the population standard deviation (divisor n, not n-1).
	StdDev                 float64
	CoefficientOfVariation float64
}

// Compute derives the full summary from a snapshot. It returns nil for
// an empty snapshot so callers can distinguish "no data" from a
// zero-valued bundle. The input is never modified.
func Compute(values []float64) *Summary {
	n := len(values)
	if n == 0 {
		return nil
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	stdDev := math.Sqrt(sumSq / float64(n))

	cv := 0.0
	if math.Abs(mean) > meanEpsilon {
		cv = stdDev / mean
	}

	min := sorted[0]
	max := sorted[n-1]
	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)

	return &Summary{
		Count:                  n,
		Min:                    min,
		Max:                    max,
		Range:                  max - min,
		Mean:                   mean,
		Median:                 percentile(sorted, 50),
		LowerQuartile:          q1,
		UpperQuartile:          q3,
		IQR:                    q3 - q1,
		Mode:                   mode(sorted),
		StdDev:                 stdDev,
		CoefficientOfVariation: cv,
	}
}

// percentile interpolates linearly between the two closest ranks:
// position = (n-1)*p/100, with the fractional part interpolated between
// the floor index and its successor. Input must be sorted and non-empty.
func percentile(sorted []float64, p float64) float64 {
	pos := float64(len(sorted)-1) * p / 100.0
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// mode returns the most frequent value; ties resolve to the smallest
// value so results are reproducible. Input must be sorted and non-empty.
func mode(sorted []float64) float64 {
	best := sorted[0]
	bestCount := 1

	cur := sorted[0]
	curCount := 1
	for _, v := range sorted[1:] {
		if v == cur {
			curCount++
		} else {
			cur = v
			curCount = 1
		}
		if curCount > bestCount {
			best = cur
			bestCount = curCount
		}
	}
	return best
}
