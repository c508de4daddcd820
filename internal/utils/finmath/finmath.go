package finmath

import (
	"math"
)

// Regression is a fitted ordinary-least-squares line. When the fit is
// degenerate (fewer than two distinct x values) Flat is set and Predict
// returns the mean of the observed ys for every x.
type Regression struct {
	Slope     float64
	Intercept float64
	Flat      bool
}

// Predict evaluates the fitted line at x.
func (r Regression) Predict(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// LinearRegression fits y = slope*x + intercept via the closed-form normal
// equations. A zero denominator must never propagate NaN into forecasts, so
// the degenerate case degrades to a flat line at the mean of ys.
func LinearRegression(xs, ys []float64) Regression {
	n := float64(len(xs))
	if len(xs) != len(ys) || len(xs) == 0 {
		return Regression{Flat: true}
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, x := range xs {
		y := ys[i]
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return Regression{Intercept: sumY / n, Flat: true}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	return Regression{Slope: slope, Intercept: intercept}
}

// NPV computes the net present value of the cash flows at the given discount
// rate. Flows are discounted from period 1, matching the usual convention
// where cashFlows[0] lands one period from now.
func NPV(cashFlows []float64, rate float64) float64 {
	var npv float64
	for i, cf := range cashFlows {
		npv += cf / math.Pow(1+rate, float64(i+1))
	}
	return npv
}

const (
	irrMaxIterations = 20
	irrTolerance     = 1e-7
	irrDerivativeMin = 1e-10
)

// IRR finds the rate at which NPV(cashFlows) is zero using Newton-Raphson
// iteration from guess. Iteration stops after irrMaxIterations or once the
// step is below irrTolerance. A near-zero derivative aborts the iteration and
// returns the best rate so far rather than dividing toward NaN.
func IRR(cashFlows []float64, guess float64) float64 {
	rate := guess
	for i := 0; i < irrMaxIterations; i++ {
		var npv, derivative float64
		for j, cf := range cashFlows {
			period := float64(j + 1)
			npv += cf / math.Pow(1+rate, period)
			derivative -= period * cf / math.Pow(1+rate, period+1)
		}

		if math.Abs(derivative) < irrDerivativeMin {
			break
		}

		next := rate - npv/derivative
		if math.Abs(next-rate) < irrTolerance {
			return next
		}
		rate = next
	}
	return rate
}

// FutureValue compounds present at rate over the given number of periods.
func FutureValue(present, rate float64, periods int) float64 {
	return present * math.Pow(1+rate, float64(periods))
}

// BurnRate averages a total expense outflow over the window it was summed
// across. A non-positive window yields zero burn rather than a division
// artifact.
func BurnRate(totalOutflow float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	return totalOutflow / float64(months)
}

// Runway returns how many months balance sustains the given monthly burn.
// Zero burn means the balance never depletes, reported as +Inf rather than a
// division-by-zero artifact.
func Runway(balance, burnRate float64) float64 {
	if burnRate == 0 {
		return math.Inf(1)
	}
	return balance / burnRate
}
