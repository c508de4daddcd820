package finmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearRegression_PerfectLine(t *testing.T) {
	reg := LinearRegression([]float64{1, 2, 3}, []float64{2, 4, 6})

	require.False(t, reg.Flat)
	assert.InDelta(t, 2.0, reg.Slope, 1e-9)
	assert.InDelta(t, 0.0, reg.Intercept, 1e-9)
	assert.InDelta(t, 8.0, reg.Predict(4), 1e-9)
}

func TestLinearRegression_SinglePointIsFlat(t *testing.T) {
	reg := LinearRegression([]float64{5}, []float64{42})

	require.True(t, reg.Flat)
	assert.InDelta(t, 42.0, reg.Predict(100), 1e-9)
	assert.False(t, math.IsNaN(reg.Predict(0)))
}

func TestLinearRegression_IdenticalXsIsFlat(t *testing.T) {
	reg := LinearRegression([]float64{3, 3, 3}, []float64{1, 2, 3})

	require.True(t, reg.Flat)
	assert.InDelta(t, 2.0, reg.Predict(10), 1e-9)
}

func TestLinearRegression_MismatchedInput(t *testing.T) {
	reg := LinearRegression([]float64{1, 2}, []float64{1})

	require.True(t, reg.Flat)
	assert.Equal(t, 0.0, reg.Predict(1))
}

func TestNPV(t *testing.T) {
	// 100 received one period out at 10%: 100/1.1
	assert.InDelta(t, 100.0/1.1, NPV([]float64{100}, 0.10), 1e-9)

	// Zero rate just sums the flows.
	assert.InDelta(t, 60.0, NPV([]float64{10, 20, 30}, 0), 1e-9)
}

func TestIRR_ConvergesOnKnownRate(t *testing.T) {
	// -1000 followed by 1100 one period later: NPV is zero when the two
	// discounted flows cancel, which happens near 9.54% for this shape.
	rate := IRR([]float64{-1000, 1100}, 0.1)

	assert.InDelta(t, 0.0, NPV([]float64{-1000, 1100}, rate), 1e-4)
	assert.False(t, math.IsNaN(rate))
}

func TestIRR_FlatFlowsDoNotBlowUp(t *testing.T) {
	rate := IRR([]float64{0, 0, 0}, 0.1)

	assert.False(t, math.IsNaN(rate))
	assert.False(t, math.IsInf(rate, 0))
}

func TestFutureValue(t *testing.T) {
	assert.InDelta(t, 110.0, FutureValue(100, 0.10, 1), 1e-9)
	assert.InDelta(t, 121.0, FutureValue(100, 0.10, 2), 1e-9)
	assert.InDelta(t, 100.0, FutureValue(100, 0.10, 0), 1e-9)
}

func TestBurnRate(t *testing.T) {
	assert.InDelta(t, 500.0, BurnRate(3000, 6), 1e-9)
	assert.Equal(t, 0.0, BurnRate(3000, 0))
	assert.Equal(t, 0.0, BurnRate(3000, -1))
}

func TestRunway(t *testing.T) {
	assert.InDelta(t, 10.0, Runway(1000, 100), 1e-9)
	assert.Equal(t, 0.0, Runway(0, 500))
	assert.True(t, math.IsInf(Runway(1000, 0), 1))
}
