package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_EmptyReturnsNil(t *testing.T) {
	assert.Nil(t, Compute(nil))
	assert.Nil(t, Compute([]float64{}))
}

func TestCompute_OneTwoThree(t *testing.T) {
	s := Compute([]float64{1, 2, 3})
	require.NotNil(t, s)

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3.0, s.Max)
	assert.Equal(t, 2.0, s.Range)
	assert.Equal(t, 2.0, s.Mean)
	assert.Equal(t, 2.0, s.Median)
	assert.Equal(t, 1.5, s.LowerQuartile)
	assert.Equal(t, 2.5, s.UpperQuartile)
	assert.Equal(t, 1.0, s.IQR)
	assert.InDelta(t, math.Sqrt(2.0/3.0), s.StdDev, 1e-12)
	assert.InDelta(t, math.Sqrt(2.0/3.0)/2.0, s.CoefficientOfVariation, 1e-12)
}

func TestCompute_SingleValue(t *testing.T) {
	s := Compute([]float64{7})
	require.NotNil(t, s)

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 7.0, s.Min)
	assert.Equal(t, 7.0, s.Max)
	assert.Equal(t, 0.0, s.Range)
	assert.Equal(t, 7.0, s.Mean)
	assert.Equal(t, 7.0, s.Median)
	assert.Equal(t, 7.0, s.LowerQuartile)
	assert.Equal(t, 7.0, s.UpperQuartile)
	assert.Equal(t, 0.0, s.IQR)
	assert.Equal(t, 7.0, s.Mode)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 0.0, s.CoefficientOfVariation)
}

func TestCompute_PopulationStdDev(t *testing.T) {
	// Known population: mean 5, variance 4 with divisor n.
	s := Compute([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NotNil(t, s)

	assert.Equal(t, 5.0, s.Mean)
	assert.InDelta(t, 2.0, s.StdDev, 1e-12)
}

func TestCompute_PercentileInterpolation(t *testing.T) {
	// Even length: the median interpolates halfway between the two
	// middle ranks.
	s := Compute([]float64{1, 2, 3, 4})
	require.NotNil(t, s)

	assert.Equal(t, 2.5, s.Median)
	assert.Equal(t, 1.75, s.LowerQuartile)
	assert.Equal(t, 3.25, s.UpperQuartile)
	assert.Equal(t, 1.5, s.IQR)
}

func TestCompute_ModeTieBreaksToSmallest(t *testing.T) {
	s := Compute([]float64{3, 3, 1, 1, 2})
	require.NotNil(t, s)
	assert.Equal(t, 1.0, s.Mode)
}

func TestCompute_ModePicksMostFrequent(t *testing.T) {
	s := Compute([]float64{5, 1, 5, 2, 5, 3})
	require.NotNil(t, s)
	assert.Equal(t, 5.0, s.Mode)
}

func TestCompute_NearZeroMeanCV(t *testing.T) {
	s := Compute([]float64{-1, 1})
	require.NotNil(t, s)

	assert.Equal(t, 0.0, s.Mean)
	assert.Equal(t, 1.0, s.StdDev)
	assert.Equal(t, 0.0, s.CoefficientOfVariation, "CV must default to 0 near a zero mean")
}

func TestCompute_NegativeMeanCV(t *testing.T) {
	s := Compute([]float64{-2, -4})
	require.NotNil(t, s)

	assert.Equal(t, -3.0, s.Mean)
	assert.InDelta(t, 1.0/-3.0, s.CoefficientOfVariation, 1e-12)
}

func TestCompute_ConstantSeries(t *testing.T) {
	s := Compute([]float64{4, 4, 4, 4})
	require.NotNil(t, s)

	assert.Equal(t, 0.0, s.Range)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 4.0, s.Mode)
	assert.Equal(t, 0.0, s.IQR)
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_ = Compute(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestCompute_MeanUsesUnsortedInput(t *testing.T) {
	// Mean over the raw snapshot and over the sorted copy agree; this
	// pins the implementation to reading the snapshot it was given.
	values := []float64{10, -10, 4}
	s := Compute(values)
	require.NotNil(t, s)
	assert.InDelta(t, 4.0/3.0, s.Mean, 1e-12)
}
